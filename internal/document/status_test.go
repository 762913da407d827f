package document

import (
	"errors"
	"testing"
	"time"
)

type stubDoc struct {
	kind      Kind
	status    Status
	updatedAt time.Time
}

func (d *stubDoc) DocumentKind() Kind     { return d.kind }
func (d *stubDoc) CurrentStatus() Status  { return d.status }
func (d *stubDoc) ApplyStatus(s Status, at time.Time) {
	d.status = s
	d.updatedAt = at
}

func TestOrderApproval(t *testing.T) {
	m := NewMachine()
	doc := &stubDoc{kind: KindOrder, status: StatusDraft}
	if err := m.Transition(doc, StatusApproved); err != nil {
		t.Fatalf("approve draft order: %v", err)
	}
	if doc.status != StatusApproved {
		t.Fatalf("expected APPROVED got %s", doc.status)
	}
	if doc.updatedAt.IsZero() {
		t.Fatal("expected updatedAt to be refreshed")
	}
}

func TestApprovedOrderIsTerminal(t *testing.T) {
	m := NewMachine()
	doc := &stubDoc{kind: KindOrder, status: StatusApproved}
	for _, target := range []Status{StatusDraft, StatusRejected, StatusApproved} {
		if err := m.Transition(doc, target); !errors.Is(err, ErrIllegalTransition) {
			t.Fatalf("expected ErrIllegalTransition for %s got %v", target, err)
		}
	}
}

func TestPaidInvoiceCannotGoBack(t *testing.T) {
	m := NewMachine()
	doc := &stubDoc{kind: KindInvoice, status: StatusPaid}
	if err := m.Transition(doc, StatusUnpaid); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition got %v", err)
	}
	if err := m.Transition(doc, StatusPartial); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition got %v", err)
	}
}

func TestInvoiceForwardOnly(t *testing.T) {
	m := NewMachine()
	doc := &stubDoc{kind: KindInvoice, status: StatusUnpaid}
	if err := m.Transition(doc, StatusPartial); err != nil {
		t.Fatalf("unpaid -> partial: %v", err)
	}
	if err := m.Transition(doc, StatusPaid); err != nil {
		t.Fatalf("partial -> paid: %v", err)
	}
	if err := m.Transition(doc, StatusUnpaid); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition got %v", err)
	}
}

func TestReceiptCompletion(t *testing.T) {
	m := NewMachine()
	doc := &stubDoc{kind: KindReceipt, status: StatusPending}
	if err := m.Transition(doc, StatusCompleted); err != nil {
		t.Fatalf("complete pending receipt: %v", err)
	}
	// repeat from terminal state fails both times
	for i := 0; i < 2; i++ {
		if err := m.Transition(doc, StatusCancelled); !errors.Is(err, ErrIllegalTransition) {
			t.Fatalf("attempt %d: expected ErrIllegalTransition got %v", i+1, err)
		}
	}
}

func TestUnknownKind(t *testing.T) {
	m := NewMachine()
	doc := &stubDoc{kind: Kind("MEMO"), status: StatusDraft}
	if err := m.Transition(doc, StatusApproved); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind got %v", err)
	}
}
