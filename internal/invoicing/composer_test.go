package invoicing

import (
	"errors"
	"testing"
	"time"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/orders"
)

func approvedOrder() *orders.Order {
	return &orders.Order{
		ID:             10,
		Kind:           orders.KindSales,
		Code:           "SO-2025-000010",
		CounterpartyID: 7,
		Status:         document.StatusApproved,
		Subtotal:       10000,
		TaxAmount:      1100,
		TotalAmount:    11100,
	}
}

func TestComposeWithTermDays(t *testing.T) {
	days := 30
	invoiceDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	inv, err := Compose(approvedOrder(), ComposeOptions{InvoiceDate: invoiceDate, TermDays: &days})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantDue := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	if !inv.DueDate.Equal(wantDue) {
		t.Errorf("due date %s, want %s", inv.DueDate, wantDue)
	}
	if inv.Status != document.StatusUnpaid {
		t.Errorf("status %s, want %s", inv.Status, document.StatusUnpaid)
	}
	if inv.TotalAmount != 11100 {
		t.Errorf("total %d, want 11100", inv.TotalAmount)
	}
	if inv.OrderID != 10 || inv.CounterpartyID != 7 {
		t.Errorf("source references not carried: %+v", inv)
	}
}

func TestComposeExplicitDueDateWinsOverTermDays(t *testing.T) {
	days := 30
	invoiceDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	explicit := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	inv, err := Compose(approvedOrder(), ComposeOptions{
		InvoiceDate: invoiceDate,
		TermDays:    &days,
		DueDate:     &explicit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inv.DueDate.Equal(explicit) {
		t.Errorf("due date %s, want explicit %s", inv.DueDate, explicit)
	}
}

func TestComposeZeroTermDaysDueImmediately(t *testing.T) {
	days := 0
	invoiceDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	inv, err := Compose(approvedOrder(), ComposeOptions{InvoiceDate: invoiceDate, TermDays: &days})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inv.DueDate.Equal(invoiceDate) {
		t.Errorf("due date %s, want invoice date %s", inv.DueDate, invoiceDate)
	}
}

func TestComposeRejectsMissingDueDate(t *testing.T) {
	_, err := Compose(approvedOrder(), ComposeOptions{InvoiceDate: time.Now()})
	if !errors.Is(err, ErrMissingDueDate) {
		t.Fatalf("expected ErrMissingDueDate, got %v", err)
	}
}

func TestComposeRejectsUnapprovedSource(t *testing.T) {
	days := 14
	for _, status := range []document.Status{document.StatusDraft, document.StatusRejected} {
		order := approvedOrder()
		order.Status = status
		_, err := Compose(order, ComposeOptions{InvoiceDate: time.Now(), TermDays: &days})
		if !errors.Is(err, ErrSourceNotApproved) {
			t.Errorf("status %s: expected ErrSourceNotApproved, got %v", status, err)
		}
	}
}
