// Package money provides fixed-point currency arithmetic in minor units.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in minor units. All arithmetic stays in minor
// units until formatting.
type Amount int64

var (
	// ErrInvalidAmount indicates a negative value where the call site forbids it.
	ErrInvalidAmount = errors.New("money: invalid amount")
)

// NewPrice validates v as a unit price. Prices must not be negative.
func NewPrice(v int64) (Amount, error) {
	if v < 0 {
		return 0, ErrInvalidAmount
	}
	return Amount(v), nil
}

// Add returns a + b.
func Add(a, b Amount) Amount {
	return a + b
}

// MulQty multiplies an amount by a possibly fractional quantity, rounding
// half-up to the nearest minor unit.
func MulQty(a Amount, qty decimal.Decimal) Amount {
	result := decimal.NewFromInt(int64(a)).Mul(qty).Round(0)
	return Amount(result.IntPart())
}

// Percent applies a fractional rate (0.11 for 11%) to an amount, rounding
// half-up to the nearest minor unit.
func Percent(a Amount, rate decimal.Decimal) Amount {
	result := decimal.NewFromInt(int64(a)).Mul(rate).Round(0)
	return Amount(result.IntPart())
}

// Decimal returns the amount as a decimal value in minor units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a))
}
