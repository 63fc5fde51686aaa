package parser

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCategories(t *testing.T) {
	foodID := uuid.New()
	travelID := uuid.New()
	categories := []CategoryRef{
		{ID: foodID, Name: "Food"},
		{ID: travelID, Name: "Travel"},
	}

	t.Run("rows without a category stay uncategorized", func(t *testing.T) {
		rows := []ExpenseRow{{Date: "2024-01-15", Description: "Coffee", Amount: 4.50}}

		out := ResolveCategories(rows, categories, nil)

		require.Len(t, out, 1)
		assert.Nil(t, out[0].CategoryID)
		assert.Equal(t, "Coffee", out[0].Description)
	})

	t.Run("labels fall back to case-insensitive lookup", func(t *testing.T) {
		rows := []ExpenseRow{{Date: "2024-01-15", Description: "Coffee", Amount: 4.50, CategoryName: "food"}}

		out := ResolveCategories(rows, categories, nil)

		require.Len(t, out, 1)
		require.NotNil(t, out[0].CategoryID)
		assert.Equal(t, foodID, *out[0].CategoryID)
	})

	t.Run("resolution map wins over the lookup", func(t *testing.T) {
		rows := []ExpenseRow{{Date: "2024-01-15", Description: "Flight", Amount: 120, CategoryName: "Food"}}
		resolution := map[string]*uuid.UUID{"Food": &travelID}

		out := ResolveCategories(rows, categories, resolution)

		require.Len(t, out, 1)
		require.NotNil(t, out[0].CategoryID)
		assert.Equal(t, travelID, *out[0].CategoryID)
	})

	t.Run("explicit nil resolution leaves the expense uncategorized", func(t *testing.T) {
		rows := []ExpenseRow{{Date: "2024-01-15", Description: "Misc", Amount: 9, CategoryName: "Grocery"}}
		resolution := map[string]*uuid.UUID{"Grocery": nil}

		out := ResolveCategories(rows, categories, resolution)

		require.Len(t, out, 1)
		assert.Nil(t, out[0].CategoryID)
	})

	t.Run("unknown label with no resolution stays uncategorized", func(t *testing.T) {
		rows := []ExpenseRow{{Date: "2024-01-15", Description: "Misc", Amount: 9, CategoryName: "Mystery"}}

		out := ResolveCategories(rows, categories, nil)

		require.Len(t, out, 1)
		assert.Nil(t, out[0].CategoryID)
	})

	t.Run("output order follows input order", func(t *testing.T) {
		rows := []ExpenseRow{
			{Date: "2024-01-15", Description: "A", Amount: 1, CategoryName: "Food"},
			{Date: "2024-01-16", Description: "B", Amount: 2, CategoryName: "Travel"},
		}

		out := ResolveCategories(rows, categories, nil)

		require.Len(t, out, 2)
		assert.Equal(t, "A", out[0].Description)
		assert.Equal(t, "B", out[1].Description)
	})
}
