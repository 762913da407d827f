// Package document holds the line item and status lifecycle shared by
// orders, receipts, deliveries, invoices and returns.
package document

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/money"
)

// Line is a single item line. Immutable once attached to a non-draft document.
type Line struct {
	ItemID    int64           `json:"item_id" db:"item_id"`
	Unit      string          `json:"unit" db:"unit"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice money.Amount    `json:"unit_price" db:"unit_price"`
}

// Total returns quantity × unit price rounded to the nearest minor unit.
func (l Line) Total() money.Amount {
	return money.MulQty(l.UnitPrice, l.Quantity)
}

// Validate rejects lines that cannot appear on a submitted document.
func (l Line) Validate() error {
	if !l.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidLine)
	}
	if l.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidLine)
	}
	return nil
}

// SumTotals adds up line totals in minor units.
func SumTotals(lines []Line) money.Amount {
	var subtotal money.Amount
	for _, l := range lines {
		subtotal = money.Add(subtotal, l.Total())
	}
	return subtotal
}
