package budget

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatus(t *testing.T) {
	base := Budget{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		AmountCents:  50000, // 500.00
		CurrencyCode: "EUR",
		Month:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("under budget", func(t *testing.T) {
		st, err := buildStatus(base, decimal.NewFromFloat(120.50))
		require.NoError(t, err)

		assert.InDelta(t, 120.50, st.Spent, 0.001)
		assert.InDelta(t, 379.50, st.Remaining, 0.001)
		assert.InDelta(t, 24.1, st.PercentUsed, 0.01)
		assert.False(t, st.OverBudget)
		assert.False(t, st.NearingLimit)
	})

	t.Run("nearing limit at eighty percent", func(t *testing.T) {
		st, err := buildStatus(base, decimal.NewFromFloat(400.00))
		require.NoError(t, err)

		assert.InDelta(t, 80.0, st.PercentUsed, 0.01)
		assert.False(t, st.OverBudget)
		assert.True(t, st.NearingLimit)
	})

	t.Run("over budget", func(t *testing.T) {
		st, err := buildStatus(base, decimal.NewFromFloat(612.30))
		require.NoError(t, err)

		assert.True(t, st.OverBudget)
		assert.False(t, st.NearingLimit)
		assert.InDelta(t, -112.30, st.Remaining, 0.001)
	})

	t.Run("zero spend", func(t *testing.T) {
		st, err := buildStatus(base, decimal.Zero)
		require.NoError(t, err)

		assert.Zero(t, st.PercentUsed)
		assert.InDelta(t, 500.00, st.Remaining, 0.001)
	})
}

func TestFirstOfMonth(t *testing.T) {
	got := firstOfMonth(time.Date(2024, 3, 17, 14, 22, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
