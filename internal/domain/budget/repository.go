// Package budget manages monthly per-category spending limits.
package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/pocketledger/pkg/db"
)

var (
	ErrNotFound  = errors.New("budget not found")
	ErrDuplicate = errors.New("budget already exists for this category and month")
)

// Budget caps spending for one category in one calendar month. A nil
// CategoryID budgets uncategorized spend.
type Budget struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	AmountCents  int64      `json:"amount_cents"`
	CurrencyCode string     `json:"currency_code"`
	Month        time.Time  `json:"month"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Repository handles budget persistence.
type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// ListForMonth returns the user's budgets for the month starting at monthStart.
func (r *Repository) ListForMonth(ctx context.Context, userID uuid.UUID, monthStart time.Time) ([]Budget, error) {
	query := `
		SELECT id, user_id, category_id, amount_cents, currency_code, month, created_at, updated_at
		FROM budgets
		WHERE user_id = $1 AND month = $2
		ORDER BY amount_cents DESC
	`

	rows, err := r.db.Query(ctx, query, userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.CategoryID, &b.AmountCents,
			&b.CurrencyCode, &b.Month, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// Upsert creates or replaces the budget for a category and month.
func (r *Repository) Upsert(ctx context.Context, b *Budget) error {
	query := `
		INSERT INTO budgets (user_id, category_id, amount_cents, currency_code, month)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, category_id, month) DO UPDATE SET
			amount_cents = EXCLUDED.amount_cents,
			currency_code = EXCLUDED.currency_code,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		b.UserID, b.CategoryID, b.AmountCents, b.CurrencyCode, b.Month,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

// Delete removes one budget owned by the user.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsersWithBudgets returns distinct users holding budgets for the
// month, for the alert sweep.
func (r *Repository) ListUsersWithBudgets(ctx context.Context, monthStart time.Time) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT user_id FROM budgets WHERE month = $1`, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget users: %w", err)
	}
	defer rows.Close()

	var users []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
