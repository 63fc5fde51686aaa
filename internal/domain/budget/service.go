package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/pocketledger/pkg/money"
)

// AlertThresholdPercent is the usage level at which a budget is flagged
// as near its limit.
const AlertThresholdPercent = 80.0

var ErrInvalidAmount = errors.New("budget amount must be positive")

// SpendReader reports actual spending, implemented by the expense repository.
type SpendReader interface {
	SpentInMonth(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, monthStart time.Time) (decimal.Decimal, error)
}

// Status pairs a budget with the month's actual spend.
type Status struct {
	Budget       Budget  `json:"budget"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	PercentUsed  float64 `json:"percent_used"`
	OverBudget   bool    `json:"over_budget"`
	NearingLimit bool    `json:"nearing_limit"`
}

// Service computes budget state from limits and actual spending.
type Service struct {
	repo   *Repository
	spend  SpendReader
	logger *slog.Logger
}

func NewService(repo *Repository, spend SpendReader, logger *slog.Logger) *Service {
	return &Service{repo: repo, spend: spend, logger: logger}
}

// Set creates or replaces a monthly budget. The month is normalized to
// its first day.
func (s *Service) Set(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, amountCents int64, currency string, month time.Time) (*Budget, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = money.EUR
	}

	b := &Budget{
		UserID:       userID,
		CategoryID:   categoryID,
		AmountCents:  amountCents,
		CurrencyCode: currency,
		Month:        firstOfMonth(month),
	}
	if err := s.repo.Upsert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// StatusForMonth computes spend against every budget the user holds for
// the month containing day.
func (s *Service) StatusForMonth(ctx context.Context, userID uuid.UUID, day time.Time) ([]Status, error) {
	monthStart := firstOfMonth(day)

	budgets, err := s.repo.ListForMonth(ctx, userID, monthStart)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.spend.SpentInMonth(ctx, userID, b.CategoryID, monthStart)
		if err != nil {
			return nil, fmt.Errorf("failed to read spend for budget %s: %w", b.ID, err)
		}

		status, err := buildStatus(b, spent)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func buildStatus(b Budget, spent decimal.Decimal) (Status, error) {
	limit := money.New(b.AmountCents, b.CurrencyCode)
	spentMoney := money.NewFromFloat(spent.InexactFloat64(), b.CurrencyCode)

	remaining, err := limit.Sub(spentMoney)
	if err != nil {
		return Status{}, fmt.Errorf("failed to compute remaining budget: %w", err)
	}
	over, err := spentMoney.GreaterThan(limit)
	if err != nil {
		return Status{}, fmt.Errorf("failed to compare budget: %w", err)
	}

	pct := spentMoney.PercentOf(limit)
	return Status{
		Budget:       b,
		Spent:        spentMoney.Float(),
		Remaining:    remaining.Float(),
		PercentUsed:  pct,
		OverBudget:   over,
		NearingLimit: !over && pct >= AlertThresholdPercent,
	}, nil
}

// Breaches returns budgets at or past the alert threshold for the month,
// used by the scheduled alert sweep.
func (s *Service) Breaches(ctx context.Context, userID uuid.UUID, day time.Time) ([]Status, error) {
	statuses, err := s.StatusForMonth(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	var breaches []Status
	for _, st := range statuses {
		if st.OverBudget || st.NearingLimit {
			breaches = append(breaches, st)
		}
	}
	return breaches, nil
}

// UsersWithBudgets lists users to sweep for the month containing day.
func (s *Service) UsersWithBudgets(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	return s.repo.ListUsersWithBudgets(ctx, firstOfMonth(day))
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
