package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const maxNameLen = 50

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var (
	ErrInvalidName  = errors.New("category name must be between 1 and 50 characters")
	ErrInvalidColor = errors.New("category color must be a hex value like #16a34a")
)

// Service validates and orchestrates category operations.
type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, name, color string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLen {
		return nil, ErrInvalidName
	}
	if color == "" {
		color = "#64748b"
	}
	if !colorRe.MatchString(color) {
		return nil, ErrInvalidColor
	}

	c := &Category{UserID: userID, Name: name, Color: color}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		slog.String("user_id", userID.String()),
		slog.String("name", name),
	)
	return c, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, name, color string) (*Category, error) {
	existing, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		if len(name) > maxNameLen {
			return nil, ErrInvalidName
		}
		existing.Name = name
	}
	if color != "" {
		if !colorRe.MatchString(color) {
			return nil, ErrInvalidColor
		}
		existing.Color = color
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	s.logger.Info("category deleted",
		slog.String("user_id", userID.String()),
		slog.String("category_id", id.String()),
	)
	return nil
}
