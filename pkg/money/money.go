// Package money provides currency-safe arithmetic over integer minor
// units, wrapping go-money with shopspring/decimal for conversions.
package money

import (
	"encoding/json"
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	EUR = "EUR"
	USD = "USD"
	GBP = "GBP"
)

// Money is a monetary value in a single currency.
type Money struct {
	m *gomoney.Money
}

// New creates Money from minor units (cents for two-decimal currencies).
func New(amountCents int64, currencyCode string) *Money {
	return &Money{m: gomoney.New(amountCents, currencyCode)}
}

// NewFromFloat converts a float amount to minor units through decimal so
// values like 45.50 land on exact cents.
func NewFromFloat(amount float64, currencyCode string) *Money {
	currency := gomoney.GetCurrency(currencyCode)
	if currency == nil {
		currency = gomoney.GetCurrency(EUR)
	}

	d := decimal.NewFromFloat(amount)
	cents := d.Mul(decimal.New(1, int32(currency.Fraction))).Round(0).IntPart()
	return New(cents, currency.Code)
}

// Zero returns a zero value in the given currency.
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the value in minor units.
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 code.
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// Float returns the value in major units for JSON payloads.
func (m *Money) Float() float64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.AsMajorUnits()
}

// Add returns m + other. Currencies must match.
func (m *Money) Add(other *Money) (*Money, error) {
	sum, err := m.m.Add(other.m)
	if err != nil {
		return nil, fmt.Errorf("failed to add money: %w", err)
	}
	return &Money{m: sum}, nil
}

// Sub returns m - other. Currencies must match.
func (m *Money) Sub(other *Money) (*Money, error) {
	diff, err := m.m.Subtract(other.m)
	if err != nil {
		return nil, fmt.Errorf("failed to subtract money: %w", err)
	}
	return &Money{m: diff}, nil
}

// GreaterThan reports m > other, erroring on currency mismatch.
func (m *Money) GreaterThan(other *Money) (bool, error) {
	gt, err := m.m.GreaterThan(other.m)
	if err != nil {
		return false, fmt.Errorf("failed to compare money: %w", err)
	}
	return gt, nil
}

// PercentOf reports what percentage m is of total, rounded to one
// decimal. A zero total yields 0.
func (m *Money) PercentOf(total *Money) float64 {
	if total.Amount() == 0 {
		return 0
	}
	pct := decimal.NewFromInt(m.Amount()).
		Div(decimal.NewFromInt(total.Amount())).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	f, _ := pct.Float64()
	return f
}

// Display renders the value with its currency symbol.
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Display()
}

// MarshalJSON emits {"amount": 45.50, "currency": "EUR"}.
func (m *Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}{
		Amount:   m.Float(),
		Currency: m.Currency(),
	})
}
