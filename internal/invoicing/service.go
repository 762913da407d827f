package invoicing

import (
	"context"
	"errors"
	"fmt"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/money"
	"github.com/samudra-erp/samudra-erp/internal/orders"
)

// Repository defines data access methods for invoices.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByID(ctx context.Context, id int64) (*Invoice, error)
	GetByOrderID(ctx context.Context, orderID int64) (*Invoice, error)
	List(ctx context.Context, req ListRequest) ([]Invoice, int, error)
	GenerateDocCode(ctx context.Context, kind orders.Kind) (string, error)
}

// TxRepository defines operations available inside a transaction.
type TxRepository interface {
	CreateInvoice(ctx context.Context, inv Invoice) (int64, error)
	InsertPayment(ctx context.Context, payment Payment) (int64, error)
	UpdatePaid(ctx context.Context, id int64, paid money.Amount, status document.Status) error
}

// OrderSource looks up the order an invoice bills.
type OrderSource interface {
	GetByID(ctx context.Context, id int64) (*orders.Order, error)
}

// Service provides business logic for purchase and sales invoices.
type Service struct {
	repo     Repository
	orderSrc OrderSource
	machine  *document.Machine
}

// NewService creates a new service.
func NewService(repo Repository, orderSrc OrderSource) *Service {
	return &Service{repo: repo, orderSrc: orderSrc, machine: document.NewMachine()}
}

// Create composes and stores an invoice for an approved order. An order
// carries at most one invoice.
func (s *Service) Create(ctx context.Context, kind orders.Kind, req CreateRequest, createdBy int64) (*Invoice, error) {
	order, err := s.orderSrc.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Kind != kind {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, order.Code)
	}

	if existing, err := s.repo.GetByOrderID(ctx, order.ID); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInvoiced, existing.Code)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	inv, err := Compose(order, ComposeOptions{
		InvoiceDate: req.InvoiceDate,
		TermDays:    req.TermDays,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}

	code, err := s.repo.GenerateDocCode(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("generate doc code: %w", err)
	}
	inv.Code = code
	inv.CreatedBy = createdBy

	var invID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateInvoice(ctx, *inv)
		if err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		invID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, invID)
}

// RecordPayment stores a payment and moves the invoice to PARTIAL or PAID
// depending on the settled total. Payments never move an invoice backwards.
func (s *Service) RecordPayment(ctx context.Context, invoiceID int64, req PaymentRequest, createdBy int64) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == document.StatusPaid {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPaid, inv.Code)
	}

	amount, err := money.NewPrice(req.Amount)
	if err != nil || amount == 0 {
		return nil, ErrInvalidPayment
	}

	paid := inv.PaidAmount + amount
	target := document.StatusPartial
	if paid >= inv.TotalAmount {
		target = document.StatusPaid
	}
	if target != inv.Status {
		if err := s.machine.Transition(inv, target); err != nil {
			return nil, err
		}
	}

	payment := Payment{
		InvoiceID:   invoiceID,
		PaymentDate: req.PaymentDate,
		Amount:      amount,
		Method:      req.Method,
		Reference:   req.Reference,
		Notes:       req.Notes,
		CreatedBy:   createdBy,
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.InsertPayment(ctx, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		if err := tx.UpdatePaid(ctx, invoiceID, paid, target); err != nil {
			return fmt.Errorf("update paid: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, invoiceID)
}

// GetByID retrieves an invoice by ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a paginated list of invoices of one kind.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Invoice, int, error) {
	if !req.Kind.IsValid() {
		return nil, 0, orders.ErrInvalidKind
	}
	return s.repo.List(ctx, req)
}
