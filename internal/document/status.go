package document

import (
	"fmt"
	"time"
)

// Kind identifies the document family a status lifecycle belongs to.
type Kind string

const (
	KindOrder    Kind = "ORDER"
	KindReceipt  Kind = "RECEIPT"
	KindDelivery Kind = "DELIVERY"
	KindInvoice  Kind = "INVOICE"
	KindReturn   Kind = "RETURN"
)

// Status enumerates lifecycle states across all document kinds.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusUnpaid    Status = "UNPAID"
	StatusPartial   Status = "PARTIAL"
	StatusPaid      Status = "PAID"
)

// Transitioner is implemented by documents governed by the status machine.
type Transitioner interface {
	DocumentKind() Kind
	CurrentStatus() Status
	ApplyStatus(status Status, at time.Time)
}

// Machine enforces the allowed status transitions per document kind. It never
// cascades across documents; rejecting an order does not touch its receipts.
type Machine struct {
	edges map[Kind]map[Status][]Status
	now   func() time.Time
}

// NewMachine builds the machine with the standard workflow edges.
func NewMachine() *Machine {
	return &Machine{
		edges: map[Kind]map[Status][]Status{
			KindOrder: {
				StatusDraft: {StatusApproved, StatusRejected},
			},
			KindReceipt: {
				StatusPending: {StatusCompleted, StatusCancelled},
			},
			KindDelivery: {
				StatusPending: {StatusCompleted, StatusCancelled},
			},
			KindInvoice: {
				StatusUnpaid:  {StatusPartial, StatusPaid},
				StatusPartial: {StatusPaid},
			},
			KindReturn: {
				StatusPending: {StatusApproved, StatusRejected},
			},
		},
		now: time.Now,
	}
}

// WithClock overrides the timestamp source. Used by tests.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// Allowed returns the target statuses reachable from the given state.
func (m *Machine) Allowed(kind Kind, from Status) []Status {
	kindEdges, ok := m.edges[kind]
	if !ok {
		return nil
	}
	return kindEdges[from]
}

// CanTransition reports whether the edge exists.
func (m *Machine) CanTransition(kind Kind, from, to Status) bool {
	for _, s := range m.Allowed(kind, from) {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the document to the target status, refreshing its
// UpdatedAt timestamp. Fails with ErrIllegalTransition when the edge is not
// defined for the document's kind and current state.
func (m *Machine) Transition(doc Transitioner, target Status) error {
	kind := doc.DocumentKind()
	if _, ok := m.edges[kind]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	current := doc.CurrentStatus()
	if !m.CanTransition(kind, current, target) {
		return fmt.Errorf("%w: %s %s -> %s", ErrIllegalTransition, kind, current, target)
	}
	doc.ApplyStatus(target, m.now())
	return nil
}
