// Package recurring manages templates for expenses that repeat monthly
// and materializes them into real expense rows on schedule.
package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/pocketledger/pkg/db"
)

var ErrNotFound = errors.New("recurring expense not found")

// RecurringExpense repeats on a fixed day each month. Days past the end
// of a short month materialize on its last day.
type RecurringExpense struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	DayOfMonth        int             `json:"day_of_month"`
	Active            bool            `json:"active"`
	LastMaterialized  *time.Time      `json:"last_materialized,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Repository handles recurring expense persistence.
type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]RecurringExpense, error) {
	query := `
		SELECT id, user_id, category_id, description, amount, day_of_month,
			active, last_materialized, created_at, updated_at
		FROM recurring_expenses
		WHERE user_id = $1
		ORDER BY day_of_month ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring expenses: %w", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

func (r *Repository) Create(ctx context.Context, re *RecurringExpense) error {
	query := `
		INSERT INTO recurring_expenses (user_id, category_id, description, amount, day_of_month, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		re.UserID, re.CategoryID, re.Description, re.Amount, re.DayOfMonth, re.Active,
	).Scan(&re.ID, &re.CreatedAt, &re.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recurring expense: %w", err)
	}
	return nil
}

func (r *Repository) SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE recurring_expenses SET active = $3, updated_at = now() WHERE id = $1 AND user_id = $2`,
		id, userID, active)
	if err != nil {
		return fmt.Errorf("failed to toggle recurring expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM recurring_expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete recurring expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDue returns active templates whose scheduled day for the month of
// asOf has arrived and that have not yet materialized this month.
func (r *Repository) ListDue(ctx context.Context, asOf time.Time) ([]RecurringExpense, error) {
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)

	query := `
		SELECT id, user_id, category_id, description, amount, day_of_month,
			active, last_materialized, created_at, updated_at
		FROM recurring_expenses
		WHERE active = true
			AND LEAST(day_of_month, EXTRACT(DAY FROM ($1::date + INTERVAL '1 month - 1 day'))::int) <= $2
			AND (last_materialized IS NULL OR last_materialized < $1)
	`

	rows, err := r.db.Query(ctx, query, monthStart, asOf.Day())
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring expenses: %w", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

// MarkMaterialized records that a template produced its expense for the
// month of asOf.
func (r *Repository) MarkMaterialized(ctx context.Context, id uuid.UUID, asOf time.Time) error {
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	_, err := r.db.Exec(ctx,
		`UPDATE recurring_expenses SET last_materialized = $2, updated_at = now() WHERE id = $1`,
		id, monthStart)
	if err != nil {
		return fmt.Errorf("failed to mark recurring expense materialized: %w", err)
	}
	return nil
}

func scanAll(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]RecurringExpense, error) {
	var out []RecurringExpense
	for rows.Next() {
		var re RecurringExpense
		if err := rows.Scan(
			&re.ID, &re.UserID, &re.CategoryID, &re.Description, &re.Amount,
			&re.DayOfMonth, &re.Active, &re.LastMaterialized, &re.CreatedAt, &re.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recurring expense: %w", err)
		}
		out = append(out, re)
	}
	return out, rows.Err()
}
