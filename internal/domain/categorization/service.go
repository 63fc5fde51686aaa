package categorization

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Service serves category suggestions, caching a built engine per user
// until that user's rules change.
type Service struct {
	repo   *Repository
	logger *slog.Logger

	mu      sync.Mutex
	engines map[uuid.UUID]*Engine
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		logger:  logger,
		engines: make(map[uuid.UUID]*Engine),
	}
}

func (s *Service) engineFor(ctx context.Context, userID uuid.UUID) (*Engine, error) {
	s.mu.Lock()
	engine, ok := s.engines[userID]
	s.mu.Unlock()
	if ok {
		return engine, nil
	}

	rules, err := s.repo.ListRules(ctx, userID)
	if err != nil {
		return nil, err
	}

	engine = NewEngine(rules)
	s.mu.Lock()
	s.engines[userID] = engine
	s.mu.Unlock()
	return engine, nil
}

func (s *Service) invalidate(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.engines, userID)
	s.mu.Unlock()
}

// Suggest proposes a category for one description.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, description string) (*Suggestion, error) {
	engine, err := s.engineFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.Suggest(description), nil
}

// SuggestBatch proposes categories for many descriptions, positionally.
func (s *Service) SuggestBatch(ctx context.Context, userID uuid.UUID, descriptions []string) ([]*Suggestion, error) {
	engine, err := s.engineFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.SuggestBatch(descriptions), nil
}

// AddRule creates a keyword rule and drops the cached engine.
func (s *Service) AddRule(ctx context.Context, userID uuid.UUID, keyword string, categoryID uuid.UUID, priority int) (*KeywordRule, error) {
	rule := &KeywordRule{
		UserID:     userID,
		Keyword:    strings.TrimSpace(keyword),
		CategoryID: categoryID,
		Priority:   priority,
	}
	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	s.invalidate(userID)

	s.logger.Info("keyword rule created",
		slog.String("user_id", userID.String()),
		slog.String("keyword", rule.Keyword),
	)
	return rule, nil
}

// RemoveRule deletes a rule and drops the cached engine.
func (s *Service) RemoveRule(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.DeleteRule(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}
