package document

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/money"
)

func TestLineTotal(t *testing.T) {
	line := Line{ItemID: 1, Unit: "pcs", Quantity: decimal.NewFromInt(10), UnitPrice: money.Amount(1000)}
	if got := line.Total(); got != 10000 {
		t.Fatalf("expected 10000 got %d", got)
	}
}

func TestLineValidate(t *testing.T) {
	cases := []struct {
		name string
		line Line
		ok   bool
	}{
		{"valid", Line{Quantity: decimal.NewFromInt(1), UnitPrice: 100}, true},
		{"zero quantity", Line{Quantity: decimal.Zero, UnitPrice: 100}, false},
		{"negative quantity", Line{Quantity: decimal.NewFromInt(-1), UnitPrice: 100}, false},
		{"free item", Line{Quantity: decimal.NewFromInt(1), UnitPrice: 0}, true},
		{"negative price", Line{Quantity: decimal.NewFromInt(1), UnitPrice: -5}, false},
	}
	for _, tc := range cases {
		err := tc.line.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidLine) {
			t.Fatalf("%s: expected ErrInvalidLine got %v", tc.name, err)
		}
	}
}

func TestSumTotals(t *testing.T) {
	lines := []Line{
		{Quantity: decimal.NewFromInt(2), UnitPrice: 1500},
		{Quantity: decimal.NewFromInt(3), UnitPrice: 500},
	}
	if got := SumTotals(lines); got != 4500 {
		t.Fatalf("expected 4500 got %d", got)
	}
}
