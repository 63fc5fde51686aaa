package categorization

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestForLabel(t *testing.T) {
	groceries := CategoryCandidate{ID: uuid.New(), Name: "Groceries"}
	transport := CategoryCandidate{ID: uuid.New(), Name: "Transport"}
	dining := CategoryCandidate{ID: uuid.New(), Name: "Dining Out"}
	candidates := []CategoryCandidate{groceries, transport, dining}

	t.Run("exact label scores highest", func(t *testing.T) {
		matches := SuggestForLabel("groceries", candidates, DefaultLabelThreshold, 3)

		require.NotEmpty(t, matches)
		assert.Equal(t, groceries.ID, matches[0].CategoryID)
		assert.Equal(t, 100, matches[0].Score)
	})

	t.Run("bank label containing a category name ranks it", func(t *testing.T) {
		matches := SuggestForLabel("GROCERIES SUPERMARKET", candidates, DefaultLabelThreshold, 3)

		require.NotEmpty(t, matches)
		assert.Equal(t, groceries.ID, matches[0].CategoryID)
		assert.GreaterOrEqual(t, matches[0].Score, 75)
	})

	t.Run("near-miss spelling still matches", func(t *testing.T) {
		matches := SuggestForLabel("Grocery", candidates, DefaultLabelThreshold, 3)

		require.NotEmpty(t, matches)
		assert.Equal(t, groceries.ID, matches[0].CategoryID)
	})

	t.Run("unrelated label yields nothing", func(t *testing.T) {
		assert.Empty(t, SuggestForLabel("Insurance", candidates, DefaultLabelThreshold, 3))
	})

	t.Run("limit caps the result", func(t *testing.T) {
		matches := SuggestForLabel("Groceries", candidates, 0, 1)
		assert.Len(t, matches, 1)
	})

	t.Run("empty label yields nothing", func(t *testing.T) {
		assert.Empty(t, SuggestForLabel("  ", candidates, DefaultLabelThreshold, 3))
	})
}
