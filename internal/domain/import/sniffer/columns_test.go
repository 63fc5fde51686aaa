package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestColumns(t *testing.T) {
	t.Run("positional defaults when headers match nothing", func(t *testing.T) {
		s := SuggestColumns([]string{"col0", "col1", "col2", "col3"}, nil)

		assert.Equal(t, 0, s.DateCol)
		assert.Equal(t, 1, s.DescCol)
		assert.Equal(t, 3, s.AmountCol)
		assert.Equal(t, -1, s.CategoryCol)
	})

	t.Run("header keywords assign roles", func(t *testing.T) {
		s := SuggestColumns([]string{"Amount", "Transaction Date", "Payee", "Category"}, nil)

		assert.Equal(t, 1, s.DateCol)
		assert.Equal(t, 2, s.DescCol)
		assert.Equal(t, 0, s.AmountCol)
		assert.Equal(t, 3, s.CategoryCol)
	})

	t.Run("greek headers", func(t *testing.T) {
		s := SuggestColumns([]string{"Ημ/νια", "Περιγραφη", "Ποσο", "Κατηγορια"}, nil)

		assert.Equal(t, 0, s.DateCol)
		assert.Equal(t, 1, s.DescCol)
		assert.Equal(t, 2, s.AmountCol)
		assert.Equal(t, 3, s.CategoryCol)
	})

	t.Run("last matching header wins per role", func(t *testing.T) {
		s := SuggestColumns([]string{"date", "value date", "description", "amount"}, nil)

		assert.Equal(t, 1, s.DateCol)
	})

	t.Run("shape heuristic finds repeated short values", func(t *testing.T) {
		headers := []string{"When", "What", "Amount", "Extra"}
		samples := [][]string{
			{"2024-01-01", "Coffee at the corner", "4.50", "Food"},
			{"2024-01-02", "Monthly train pass", "30.00", "Transport"},
			{"2024-01-03", "More coffee", "4.50", "Food"},
			{"2024-01-04", "Groceries", "55.10", "Food"},
		}

		s := SuggestColumns(headers, samples)
		assert.Equal(t, 3, s.CategoryCol)
	})

	t.Run("shape heuristic counts characters not bytes", func(t *testing.T) {
		headers := []string{"When", "What", "Amount", "Extra"}
		samples := [][]string{
			{"2024-01-01", "Καφές", "4.50", "Λογαριασμοί ρεύματος"},
			{"2024-01-02", "Εισιτήριο", "30.00", "Μετακινήσεις με μετρό"},
			{"2024-01-03", "Καφές ξανά", "4.50", "Λογαριασμοί ρεύματος"},
			{"2024-01-04", "Ψώνια", "55.10", "Λογαριασμοί ρεύματος"},
		}

		s := SuggestColumns(headers, samples)
		assert.Equal(t, 3, s.CategoryCol)
	})

	t.Run("shape heuristic rejects non-repeating values", func(t *testing.T) {
		headers := []string{"When", "What", "Amount", "Notes"}
		samples := [][]string{
			{"2024-01-01", "Coffee", "4.50", "note one"},
			{"2024-01-02", "Lunch", "12.00", "note two"},
		}

		s := SuggestColumns(headers, samples)
		assert.Equal(t, -1, s.CategoryCol)
	})

	t.Run("shape heuristic rejects long values", func(t *testing.T) {
		headers := []string{"When", "What", "Amount", "Notes"}
		long := "a very long free-text note about this particular purchase"
		samples := [][]string{
			{"2024-01-01", "Coffee", "4.50", long},
			{"2024-01-02", "Lunch", "12.00", long},
			{"2024-01-03", "Dinner", "22.00", "another very long unique note that is quite different"},
		}

		s := SuggestColumns(headers, samples)
		assert.Equal(t, -1, s.CategoryCol)
	})

	t.Run("no samples means no shape fallback", func(t *testing.T) {
		s := SuggestColumns([]string{"When", "What", "How Much", "Extra"}, nil)
		assert.Equal(t, -1, s.CategoryCol)
	})
}
