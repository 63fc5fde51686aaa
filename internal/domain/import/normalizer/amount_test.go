package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		convention SignConvention
		amount     float64
		isIncome   bool
		ok         bool
	}{
		{"european thousands", "1.234,56", AppExportConvention, 1234.56, false, true},
		{"comma decimal", "45,00", AppExportConvention, 45.00, false, true},
		{"us thousands", "1,234.56", AppExportConvention, 1234.56, false, true},
		{"plain decimal", "45.50", AppExportConvention, 45.50, false, true},
		{"integer", "45", AppExportConvention, 45, false, true},
		{"currency symbol euro", "€45,00", AppExportConvention, 45.00, false, true},
		{"currency symbol dollar", "$1,234.56", AppExportConvention, 1234.56, false, true},
		{"internal whitespace", " 45.50 ", AppExportConvention, 45.50, false, true},

		// Bank-statement convention: negative = expense, anything else = income.
		{"bank negative is expense", "-45,00", BankStatementConvention, 45.00, false, true},
		{"bank positive is income", "+45,00", BankStatementConvention, 45.00, true, true},
		{"bank unsigned is income", "45,00", BankStatementConvention, 45.00, true, true},

		// App-export convention: only an explicit plus marks income.
		{"app unsigned is expense", "45.00", AppExportConvention, 45.00, false, true},
		{"app plus is income", "+45.00", AppExportConvention, 45.00, true, true},
		{"app negative is expense", "-45.00", AppExportConvention, 45.00, false, true},

		{"not a number", "abc", AppExportConvention, 0, false, false},
		{"empty", "", AppExportConvention, 0, false, false},
		{"rounds to two decimals", "45.555", AppExportConvention, 45.56, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount, isIncome, ok := ParseAmount(tc.input, tc.convention)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.amount, amount, 0.001)
				assert.Equal(t, tc.isIncome, isIncome)
			}
		})
	}
}
