package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact amount in a single ISO 4217 currency. Amount stays a
// decimal string end to end; arithmetic goes through decimal.Decimal so
// repeated summation never accumulates binary-float drift.
type Money struct {
	Amount       string `json:"amount" bson:"amount"`
	CurrencyCode string `json:"currencyCode" bson:"currencyCode"`
}

func NewMoney(amount, currencyCode string) (Money, error) {
	m := Money{Amount: amount, CurrencyCode: currencyCode}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

func ZeroMoney(currencyCode string) Money {
	return Money{Amount: "0.00", CurrencyCode: currencyCode}
}

func (m Money) Validate() error {
	if m.CurrencyCode == "" {
		return fmt.Errorf("%w: money requires a currency code", ErrInvalidInput)
	}
	if _, err := decimal.NewFromString(m.Amount); err != nil {
		return fmt.Errorf("%w: money amount %q is not a decimal", ErrInvalidInput, m.Amount)
	}
	return nil
}

func (m Money) decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: money amount %q is not a decimal", ErrInvalidInput, m.Amount)
	}
	return d, nil
}

// Mul scales the amount by a whole quantity. The result is rendered to two
// fractional digits, the catalog's precision.
func (m Money) Mul(quantity int) (Money, error) {
	d, err := m.decimal()
	if err != nil {
		return Money{}, err
	}
	total := d.Mul(decimal.NewFromInt(int64(quantity)))
	return Money{Amount: total.StringFixed(2), CurrencyCode: m.CurrencyCode}, nil
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.CurrencyCode, other.CurrencyCode)
	}
	a, err := m.decimal()
	if err != nil {
		return Money{}, err
	}
	b, err := other.decimal()
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: a.Add(b).StringFixed(2), CurrencyCode: m.CurrencyCode}, nil
}
