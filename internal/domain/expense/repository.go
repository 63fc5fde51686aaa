// Package expense manages individual expense records and their queries.
package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/pocketledger/pkg/db"
)

var ErrNotFound = errors.New("expense not found")

// Expense is one spending record.
type Expense struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName *string         `json:"category_name,omitempty"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	ExpenseDate  time.Time       `json:"expense_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Filter narrows expense listings.
type Filter struct {
	CategoryID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// CategoryTotal is one slice of the monthly summary.
type CategoryTotal struct {
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// Repository handles expense persistence.
type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// Create inserts one expense.
func (r *Repository) Create(ctx context.Context, e *Expense) error {
	query := `
		INSERT INTO expenses (user_id, category_id, description, amount, expense_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		e.UserID, e.CategoryID, e.Description, e.Amount, e.ExpenseDate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// BulkCreate inserts all expenses in one transaction so an import is
// all-or-nothing. Returns the number inserted.
func (r *Repository) BulkCreate(ctx context.Context, userID uuid.UUID, expenses []Expense) (int, error) {
	if len(expenses) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO expenses (user_id, category_id, description, amount, expense_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, e := range expenses {
		batch.Queue(query, userID, e.CategoryID, e.Description, e.Amount, e.ExpenseDate)
	}

	results := tx.SendBatch(ctx, batch)
	for range expenses {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to insert expense batch: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit expense batch: %w", err)
	}
	return len(expenses), nil
}

// List returns expenses newest first, joined with their category name.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, f Filter) ([]Expense, error) {
	query := `
		SELECT e.id, e.user_id, e.category_id, c.name, e.description, e.amount,
			e.expense_date, e.created_at, e.updated_at
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = $1
			AND ($2::uuid IS NULL OR e.category_id = $2)
			AND ($3::date IS NULL OR e.expense_date >= $3)
			AND ($4::date IS NULL OR e.expense_date <= $4)
		ORDER BY e.expense_date DESC, e.created_at DESC
		LIMIT $5 OFFSET $6
	`

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, query, userID, f.CategoryID, f.From, f.To, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.CategoryID, &e.CategoryName, &e.Description,
			&e.Amount, &e.ExpenseDate, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Update rewrites an expense's mutable fields.
func (r *Repository) Update(ctx context.Context, e *Expense) error {
	query := `
		UPDATE expenses
		SET category_id = $3, description = $4, amount = $5, expense_date = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		e.ID, e.UserID, e.CategoryID, e.Description, e.Amount, e.ExpenseDate,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

// Delete removes one expense owned by the user.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MonthlySummary totals spending per category for the month containing day.
func (r *Repository) MonthlySummary(ctx context.Context, userID uuid.UUID, day time.Time) ([]CategoryTotal, error) {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT e.category_id, COALESCE(c.name, 'Uncategorized'), SUM(e.amount)
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = $1 AND e.expense_date >= $2 AND e.expense_date < $3
		GROUP BY e.category_id, c.name
		ORDER BY SUM(e.amount) DESC
	`

	rows, err := r.db.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// SpentInMonth returns the total spent in a category during the month
// starting at monthStart. A nil categoryID totals uncategorized spend.
func (r *Repository) SpentInMonth(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, monthStart time.Time) (decimal.Decimal, error) {
	end := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1
			AND expense_date >= $3 AND expense_date < $4
			AND (($2::uuid IS NULL AND category_id IS NULL) OR category_id = $2)
	`

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, userID, categoryID, monthStart, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total category spend: %w", err)
	}
	return total, nil
}
