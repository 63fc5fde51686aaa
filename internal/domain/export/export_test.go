package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/pocketledger/internal/domain/expense"
	"github.com/FACorreiaa/pocketledger/internal/domain/import/sniffer"
)

type fakeLister struct {
	expenses []expense.Expense
}

func (f *fakeLister) List(_ context.Context, _ uuid.UUID, _ expense.Filter) ([]expense.Expense, error) {
	return f.expenses, nil
}

func sampleExpenses() []expense.Expense {
	food := "Food"
	return []expense.Expense{
		{
			Description:  "Groceries",
			Amount:       decimal.NewFromFloat(45.50),
			ExpenseDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			CategoryName: &food,
		},
		{
			Description: "Parking meter",
			Amount:      decimal.NewFromFloat(2.00),
			ExpenseDate: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestService_CSV(t *testing.T) {
	svc := NewService(&fakeLister{expenses: sampleExpenses()})

	data, err := svc.CSV(context.Background(), uuid.New(), nil, nil)
	require.NoError(t, err)

	text := string(data)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Description,Amount,Category", lines[0])
	assert.Contains(t, lines[1], "2024-01-15,Groceries,45.50,Food")
	assert.Contains(t, lines[2], "Uncategorized")
}

func TestService_CSV_RoundTripsThroughImporter(t *testing.T) {
	svc := NewService(&fakeLister{expenses: sampleExpenses()})

	data, err := svc.CSV(context.Background(), uuid.New(), nil, nil)
	require.NoError(t, err)

	preview, err := sniffer.BuildPreview(string(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Description", "Amount", "Category"}, preview.Headers)
	assert.Equal(t, 2, preview.TotalRows)
	assert.False(t, preview.HasNegativeAmounts)

	s := sniffer.SuggestColumns(preview.Headers, preview.SampleRows)
	assert.Equal(t, 0, s.DateCol)
	assert.Equal(t, 1, s.DescCol)
	assert.Equal(t, 2, s.AmountCol)
	assert.Equal(t, 3, s.CategoryCol)
}

func TestService_XLSX(t *testing.T) {
	svc := NewService(&fakeLister{expenses: sampleExpenses()})

	data, err := svc.XLSX(context.Background(), uuid.New(), nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Description", "Amount", "Category"}, rows[0])
	assert.Equal(t, "Groceries", rows[1][1])
}
