package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is the amount type used for all prices and totals, kept at two
// decimal places.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewMoney(d), nil
}

func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

func ZeroMoney() Money {
	return Money{Decimal: decimal.Zero}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return NewMoney(m.Decimal.Add(other.Decimal))
}

// MulInt returns m * n, used for quantity * unit price.
func (m Money) MulInt(n int) Money {
	return NewMoney(m.Decimal.Mul(decimal.NewFromInt(int64(n))))
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Decimal.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.Round(2).String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).String(), nil
}

func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

func (m Money) String() string {
	return m.Decimal.Round(2).String()
}
