package fulfillment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/document"
)

// DeriveCandidates maps order lines to fulfillment candidates. Every
// candidate starts fully fulfilled, callers reduce quantities with Apply.
func DeriveCandidates(orderLines []document.Line) []Line {
	candidates := make([]Line, 0, len(orderLines))
	for _, ol := range orderLines {
		candidates = append(candidates, Line{
			ItemID:       ol.ItemID,
			Unit:         ol.Unit,
			OrderedQty:   ol.Quantity,
			FulfilledQty: ol.Quantity,
		})
	}
	return candidates
}

// Apply overlays requested quantities onto the candidates and validates
// each line against its ordered quantity. Validation looks at this call
// alone: earlier documents against the same order are not consulted, so
// two full receipts of one order both pass. Use ValidateCumulative for
// the stricter check.
//
// Lines reduced to zero are dropped. When nothing remains the request is
// rejected with ErrEmptyFulfillment.
func Apply(candidates []Line, reqs []LineReq) ([]Line, error) {
	byItem := make(map[int64]int, len(candidates))
	for i, c := range candidates {
		byItem[c.ItemID] = i
	}

	working := append([]Line(nil), candidates...)
	for _, r := range reqs {
		idx, ok := byItem[r.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: item %d", ErrUnknownItem, r.ItemID)
		}
		if r.FulfilledQty == nil {
			continue
		}
		qty := *r.FulfilledQty
		if qty.IsNegative() {
			return nil, fmt.Errorf("%w: item %d", ErrNegativeQuantity, r.ItemID)
		}
		if qty.GreaterThan(working[idx].OrderedQty) {
			return nil, fmt.Errorf("%w: item %d requested %s of %s",
				ErrOverFulfillment, r.ItemID, qty, working[idx].OrderedQty)
		}
		working[idx].FulfilledQty = qty
	}

	result := working[:0]
	for _, l := range working {
		if l.FulfilledQty.IsPositive() {
			result = append(result, l)
		}
	}
	if len(result) == 0 {
		return nil, ErrEmptyFulfillment
	}
	return result, nil
}

// ValidateCumulative rejects lines whose quantity, added to what earlier
// documents already fulfilled for the same order, would exceed the
// ordered quantity. prior maps item ID to the fulfilled sum so far.
func ValidateCumulative(lines []Line, prior map[int64]decimal.Decimal) error {
	for _, l := range lines {
		total := l.FulfilledQty.Add(prior[l.ItemID])
		if total.GreaterThan(l.OrderedQty) {
			return fmt.Errorf("%w: item %d cumulative %s of %s",
				ErrOverFulfillment, l.ItemID, total, l.OrderedQty)
		}
	}
	return nil
}
