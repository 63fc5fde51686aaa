package parser

import (
	"strings"

	"github.com/google/uuid"
)

// CategoryRef is the slice of an existing category the resolver needs.
type CategoryRef struct {
	ID   uuid.UUID
	Name string
}

// InsertableExpense is the final record handed to bulk persistence.
type InsertableExpense struct {
	Date        string
	Description string
	Amount      float64
	CategoryID  *uuid.UUID
}

// ResolveCategories maps every validated row to an insertable record using
// the user-confirmed resolution for unmatched labels. The resolution map is
// keyed by the original (not lowercased) label; a nil value means "skip",
// leaving the expense uncategorized. Labels absent from the map fall back
// to a fresh case-insensitive lookup, which covers categories that matched
// automatically during parsing and never needed user input.
func ResolveCategories(rows []ExpenseRow, categories []CategoryRef, resolution map[string]*uuid.UUID) []InsertableExpense {
	byName := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		byName[strings.ToLower(strings.TrimSpace(c.Name))] = c.ID
	}

	out := make([]InsertableExpense, 0, len(rows))
	for _, row := range rows {
		expense := InsertableExpense{
			Date:        row.Date,
			Description: row.Description,
			Amount:      row.Amount,
		}

		if row.CategoryName != "" {
			if resolved, ok := resolution[row.CategoryName]; ok {
				expense.CategoryID = resolved
			} else if id, ok := byName[strings.ToLower(row.CategoryName)]; ok {
				expense.CategoryID = &id
			}
		}

		out = append(out, expense)
	}

	return out
}
