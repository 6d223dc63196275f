package models

import (
	"github.com/shopspring/decimal"
)

// Money is an amount rounded to two places and rendered as "12.50" in JSON.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds half away from zero, which is half-up for the
// non-negative amounts the shop deals in.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

func (m Money) String() string {
	return m.StringFixed(2)
}

// LineSubtotal is quantity times unit price, unrounded.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
