package recurring

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/pocketledger/internal/domain/expense"
)

var (
	ErrInvalidDescription = errors.New("description must be between 1 and 100 characters")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidDay         = errors.New("day of month must be between 1 and 31")
)

// ExpenseWriter persists materialized expenses, implemented by the
// expense service.
type ExpenseWriter interface {
	Create(ctx context.Context, userID uuid.UUID, in expense.Input) (*expense.Expense, error)
}

// Service manages recurring templates and runs the monthly materializer.
type Service struct {
	repo     *Repository
	expenses ExpenseWriter
	logger   *slog.Logger
}

func NewService(repo *Repository, expenses ExpenseWriter, logger *slog.Logger) *Service {
	return &Service{repo: repo, expenses: expenses, logger: logger}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]RecurringExpense, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, description string, amount decimal.Decimal, dayOfMonth int) (*RecurringExpense, error) {
	description = strings.TrimSpace(description)
	if description == "" || utf8.RuneCountInString(description) > 100 {
		return nil, ErrInvalidDescription
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return nil, ErrInvalidDay
	}

	re := &RecurringExpense{
		UserID:      userID,
		CategoryID:  categoryID,
		Description: description,
		Amount:      amount.Round(2),
		DayOfMonth:  dayOfMonth,
		Active:      true,
	}
	if err := s.repo.Create(ctx, re); err != nil {
		return nil, err
	}
	return re, nil
}

func (s *Service) SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, userID, id, active)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// Materialize inserts an expense for every due template, dating it on
// the template's scheduled day clamped to the current month. Failures on
// one template do not block the rest.
func (s *Service) Materialize(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.repo.ListDue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, re := range due {
		date := scheduledDate(re.DayOfMonth, asOf)

		_, err := s.expenses.Create(ctx, re.UserID, expense.Input{
			CategoryID:  re.CategoryID,
			Description: re.Description,
			Amount:      re.Amount,
			ExpenseDate: date,
		})
		if err != nil {
			s.logger.Warn("failed to materialize recurring expense",
				slog.String("recurring_id", re.ID.String()),
				slog.Any("error", err),
			)
			continue
		}

		if err := s.repo.MarkMaterialized(ctx, re.ID, asOf); err != nil {
			s.logger.Warn("failed to mark recurring expense",
				slog.String("recurring_id", re.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		created++
	}

	if created > 0 {
		s.logger.Info("recurring expenses materialized", slog.Int("count", created))
	}
	return created, nil
}

// scheduledDate clamps dayOfMonth to the length of asOf's month, so a
// template on day 31 lands on Feb 28/29.
func scheduledDate(dayOfMonth int, asOf time.Time) time.Time {
	lastDay := time.Date(asOf.Year(), asOf.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if dayOfMonth > lastDay {
		dayOfMonth = lastDay
	}
	return time.Date(asOf.Year(), asOf.Month(), dayOfMonth, 0, 0, 0, 0, time.UTC)
}
