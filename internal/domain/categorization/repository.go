package categorization

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/FACorreiaa/pocketledger/pkg/db"
)

// KeywordRule maps a keyword occurring in a description to a category.
type KeywordRule struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Keyword    string    `json:"keyword"`
	CategoryID uuid.UUID `json:"category_id"`
	Priority   int       `json:"priority"`
}

// Repository handles keyword rule persistence.
type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// ListRules fetches the user's keyword rules, highest priority first.
func (r *Repository) ListRules(ctx context.Context, userID uuid.UUID) ([]KeywordRule, error) {
	query := `
		SELECT id, user_id, keyword, category_id, priority
		FROM keyword_rules
		WHERE user_id = $1
		ORDER BY priority DESC, created_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keyword rules: %w", err)
	}
	defer rows.Close()

	var rules []KeywordRule
	for rows.Next() {
		var rule KeywordRule
		if err := rows.Scan(&rule.ID, &rule.UserID, &rule.Keyword, &rule.CategoryID, &rule.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan keyword rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// CreateRule inserts a keyword rule.
func (r *Repository) CreateRule(ctx context.Context, rule *KeywordRule) error {
	query := `
		INSERT INTO keyword_rules (user_id, keyword, category_id, priority)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		rule.UserID, rule.Keyword, rule.CategoryID, rule.Priority,
	).Scan(&rule.ID)
	if err != nil {
		return fmt.Errorf("failed to create keyword rule: %w", err)
	}
	return nil
}

// DeleteRule removes a keyword rule owned by the user.
func (r *Repository) DeleteRule(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM keyword_rules WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete keyword rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("keyword rule %s not found", id)
	}
	return nil
}
