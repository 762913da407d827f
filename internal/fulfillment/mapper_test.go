package fulfillment

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/document"
)

func qty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleOrderLines() []document.Line {
	return []document.Line{
		{ItemID: 1, Unit: "pcs", Quantity: qty("10"), UnitPrice: 1000},
		{ItemID: 2, Unit: "box", Quantity: qty("2.5"), UnitPrice: 5000},
	}
}

func TestDeriveCandidatesDefaultsToFullQuantity(t *testing.T) {
	candidates := DeriveCandidates(sampleOrderLines())
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	for i, c := range candidates {
		if !c.FulfilledQty.Equal(c.OrderedQty) {
			t.Errorf("candidate %d: fulfilled %s, want %s", i, c.FulfilledQty, c.OrderedQty)
		}
	}
}

func TestApplyWithNoOverridesKeepsFullQuantities(t *testing.T) {
	lines, err := Apply(DeriveCandidates(sampleOrderLines()), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !lines[0].FulfilledQty.Equal(qty("10")) {
		t.Errorf("line 0 fulfilled %s, want 10", lines[0].FulfilledQty)
	}
}

func TestApplyPartialQuantity(t *testing.T) {
	partial := qty("4")
	lines, err := Apply(DeriveCandidates(sampleOrderLines()), []LineReq{
		{ItemID: 1, FulfilledQty: &partial},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lines[0].FulfilledQty.Equal(partial) {
		t.Errorf("line 0 fulfilled %s, want 4", lines[0].FulfilledQty)
	}
	if !lines[1].FulfilledQty.Equal(qty("2.5")) {
		t.Errorf("line 1 fulfilled %s, want 2.5 untouched", lines[1].FulfilledQty)
	}
}

func TestApplyRejectsOverFulfillment(t *testing.T) {
	over := qty("10.01")
	_, err := Apply(DeriveCandidates(sampleOrderLines()), []LineReq{
		{ItemID: 1, FulfilledQty: &over},
	})
	if !errors.Is(err, ErrOverFulfillment) {
		t.Fatalf("expected ErrOverFulfillment, got %v", err)
	}
}

func TestApplyRejectsNegativeQuantity(t *testing.T) {
	neg := qty("-1")
	_, err := Apply(DeriveCandidates(sampleOrderLines()), []LineReq{
		{ItemID: 1, FulfilledQty: &neg},
	})
	if !errors.Is(err, ErrNegativeQuantity) {
		t.Fatalf("expected ErrNegativeQuantity, got %v", err)
	}
}

func TestApplyRejectsUnknownItem(t *testing.T) {
	_, err := Apply(DeriveCandidates(sampleOrderLines()), []LineReq{
		{ItemID: 99},
	})
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestApplyDropsZeroLinesAndRejectsAllZero(t *testing.T) {
	zero := decimal.Zero
	lines, err := Apply(DeriveCandidates(sampleOrderLines()), []LineReq{
		{ItemID: 1, FulfilledQty: &zero},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].ItemID != 2 {
		t.Fatalf("expected only item 2 to remain, got %+v", lines)
	}

	_, err = Apply(DeriveCandidates(sampleOrderLines()), []LineReq{
		{ItemID: 1, FulfilledQty: &zero},
		{ItemID: 2, FulfilledQty: &zero},
	})
	if !errors.Is(err, ErrEmptyFulfillment) {
		t.Fatalf("expected ErrEmptyFulfillment, got %v", err)
	}
}

func TestApplyDoesNotConsultEarlierDocuments(t *testing.T) {
	// A second full receipt against the same order passes when each call
	// is validated in isolation.
	for i := 0; i < 2; i++ {
		if _, err := Apply(DeriveCandidates(sampleOrderLines()), nil); err != nil {
			t.Fatalf("pass %d: unexpected error: %v", i+1, err)
		}
	}
}

func TestValidateCumulative(t *testing.T) {
	lines, err := Apply(DeriveCandidates(sampleOrderLines()), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateCumulative(lines, nil); err != nil {
		t.Fatalf("no prior documents should pass: %v", err)
	}

	prior := map[int64]decimal.Decimal{1: qty("1")}
	if err := ValidateCumulative(lines, prior); !errors.Is(err, ErrOverFulfillment) {
		t.Fatalf("expected ErrOverFulfillment with prior quantities, got %v", err)
	}

	partial := qty("9")
	lines, err = Apply(DeriveCandidates(sampleOrderLines()), []LineReq{
		{ItemID: 1, FulfilledQty: &partial},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateCumulative(lines, prior); err != nil {
		t.Fatalf("9 + 1 prior of 10 ordered should pass: %v", err)
	}
}
