package expense

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLen = 100
)

var maxAmount = decimal.NewFromInt(1_000_000)

var (
	ErrInvalidDescription = errors.New("description must be between 1 and 100 characters")
	ErrInvalidAmount      = errors.New("amount must be positive and below 1,000,000")
	ErrInvalidDate        = errors.New("expense date is required")
)

// Input carries the mutable fields of an expense.
type Input struct {
	CategoryID  *uuid.UUID
	Description string
	Amount      decimal.Decimal
	ExpenseDate time.Time
}

// Service validates and orchestrates expense operations.
type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func validate(in *Input) error {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" || utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return ErrInvalidDescription
	}
	if !in.Amount.IsPositive() || in.Amount.GreaterThan(maxAmount) {
		return ErrInvalidAmount
	}
	if in.ExpenseDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (*Expense, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	e := &Expense{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Amount:      in.Amount.Round(2),
		ExpenseDate: in.ExpenseDate,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// BulkCreate persists pre-validated expenses from an import commit.
func (s *Service) BulkCreate(ctx context.Context, userID uuid.UUID, expenses []Expense) (int, error) {
	inserted, err := s.repo.BulkCreate(ctx, userID, expenses)
	if err != nil {
		return 0, err
	}
	s.logger.Info("bulk expenses inserted",
		slog.String("user_id", userID.String()),
		slog.Int("count", inserted),
	)
	return inserted, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, f Filter) ([]Expense, error) {
	return s.repo.List(ctx, userID, f)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in Input) (*Expense, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	e := &Expense{
		ID:          id,
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Amount:      in.Amount.Round(2),
		ExpenseDate: in.ExpenseDate,
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) MonthlySummary(ctx context.Context, userID uuid.UUID, day time.Time) ([]CategoryTotal, error) {
	return s.repo.MonthlySummary(ctx, userID, day)
}
