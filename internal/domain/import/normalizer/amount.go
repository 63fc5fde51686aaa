// Package normalizer turns locale-ambiguous field text from bank exports
// into normalized values: signed decimal amounts under two sign conventions
// and calendar-validated ISO dates.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// SignConvention selects how the income/expense classification reads the
// sign of an amount. Bank statements carry signed debit/credit semantics;
// the app's own CSV export writes unsigned amounts that are always expenses.
type SignConvention int

const (
	// AppExportConvention treats only explicitly +-signed amounts as income;
	// unsigned and --signed amounts are expenses.
	AppExportConvention SignConvention = iota
	// BankStatementConvention treats unsigned and +-signed amounts as income
	// and --signed amounts as expenses. Selected when the file was observed
	// to contain negative numbers.
	BankStatementConvention
)

var (
	europeanAmountRe = regexp.MustCompile(`^\d{1,3}(\.\d{3})*,\d{1,2}$`)
	commaDecimalRe   = regexp.MustCompile(`^\d+,\d{1,2}$`)
	usAmountRe       = regexp.MustCompile(`^\d{1,3}(,\d{3})*\.\d{1,2}$`)
)

// ParseAmount normalizes a raw amount cell into an unsigned magnitude
// rounded to 2 decimals, plus the income classification under the given
// convention. ok is false when the text is not numeric at all.
func ParseAmount(raw string, convention SignConvention) (amount float64, isIncome bool, ok bool) {
	cleaned := strings.TrimSpace(raw)
	for _, sym := range []string{"€", "$", "£", "¥"} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	cleaned = strings.Join(strings.Fields(cleaned), "")

	sign := byte(0)
	if len(cleaned) > 0 && (cleaned[0] == '-' || cleaned[0] == '+') {
		sign = cleaned[0]
		cleaned = cleaned[1:]
	}

	// Format sniffing, most specific first. Anything that matches none of
	// the three shapes is handed to the decimal parser unchanged.
	switch {
	case europeanAmountRe.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case commaDecimalRe.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case usAmountRe.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false, false
	}

	amount, _ = d.Round(2).Float64()

	if convention == BankStatementConvention {
		isIncome = sign != '-'
	} else {
		isIncome = sign == '+'
	}

	return amount, isIncome, true
}
