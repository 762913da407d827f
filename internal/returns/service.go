package returns

import (
	"context"
	"fmt"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/invoicing"
	"github.com/samudra-erp/samudra-erp/internal/money"
	"github.com/samudra-erp/samudra-erp/internal/orders"
)

// Repository defines data access methods for returns.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByID(ctx context.Context, id int64) (*Return, error)
	List(ctx context.Context, req ListRequest) ([]Return, int, error)
	GenerateDocCode(ctx context.Context, kind orders.Kind) (string, error)
}

// TxRepository defines operations available inside a transaction.
type TxRepository interface {
	CreateReturn(ctx context.Context, ret Return) (int64, error)
	InsertLine(ctx context.Context, returnID int64, line document.Line) error
	UpdateStatus(ctx context.Context, id int64, status document.Status, updates map[string]interface{}) error
}

// InvoiceSource looks up the invoice a return is written against.
type InvoiceSource interface {
	GetByID(ctx context.Context, id int64) (*invoicing.Invoice, error)
}

// OrderSource looks up the originating order for its lines.
type OrderSource interface {
	GetByID(ctx context.Context, id int64) (*orders.Order, error)
}

// Service provides business logic for purchase and sales returns.
type Service struct {
	repo    Repository
	invSrc  InvoiceSource
	ordSrc  OrderSource
	machine *document.Machine
}

// NewService creates a new service.
func NewService(repo Repository, invSrc InvoiceSource, ordSrc OrderSource) *Service {
	return &Service{repo: repo, invSrc: invSrc, ordSrc: ordSrc, machine: document.NewMachine()}
}

// Create writes a PENDING return against an invoice. Every returned item
// must appear on the originating order, which also supplies the unit,
// unit price and tax rate. Quantities above what was ordered are stored
// as given, the invoicing side does not cap them.
func (s *Service) Create(ctx context.Context, kind orders.Kind, req CreateRequest, createdBy int64) (*Return, error) {
	inv, err := s.invSrc.GetByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Kind != kind {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, inv.Code)
	}

	order, err := s.ordSrc.GetByID(ctx, inv.OrderID)
	if err != nil {
		return nil, err
	}

	if len(req.Lines) == 0 {
		return nil, ErrEmptyLines
	}
	orderLines := make(map[int64]document.Line, len(order.Lines))
	for _, ol := range order.Lines {
		orderLines[ol.ItemID] = ol
	}

	lines := make([]document.Line, 0, len(req.Lines))
	for i, lr := range req.Lines {
		ol, ok := orderLines[lr.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: item %d", ErrItemNotOnOrder, lr.ItemID)
		}
		line := document.Line{
			ItemID:    lr.ItemID,
			Unit:      ol.Unit,
			Quantity:  lr.Quantity,
			UnitPrice: ol.UnitPrice,
		}
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}

	code, err := s.repo.GenerateDocCode(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("generate doc code: %w", err)
	}

	total := document.SumTotals(lines)
	tax := money.Percent(total, order.TaxRate)
	ret := Return{
		Kind:          kind,
		Code:          code,
		InvoiceID:     inv.ID,
		InvoiceCode:   inv.Code,
		OrderID:       order.ID,
		ReturnDate:    req.ReturnDate,
		Status:        document.StatusPending,
		TotalAmount:   total,
		TaxAmount:     tax,
		TotalAfterTax: money.Add(total, tax),
		Reason:        req.Reason,
		CreatedBy:     createdBy,
		Lines:         lines,
	}

	var retID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateReturn(ctx, ret)
		if err != nil {
			return fmt.Errorf("create return: %w", err)
		}
		retID = id
		for _, line := range lines {
			if err := tx.InsertLine(ctx, retID, line); err != nil {
				return fmt.Errorf("insert line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, retID)
}

// Approve moves a PENDING return to APPROVED.
func (s *Service) Approve(ctx context.Context, id int64, approvedBy int64) (*Return, error) {
	return s.transition(ctx, id, document.StatusApproved, map[string]interface{}{
		"approved_by": approvedBy,
	})
}

// Reject moves a PENDING return to REJECTED. The rejecting user is
// recorded in the same decision columns an approval uses.
func (s *Service) Reject(ctx context.Context, id int64, rejectedBy int64) (*Return, error) {
	return s.transition(ctx, id, document.StatusRejected, map[string]interface{}{
		"approved_by": rejectedBy,
	})
}

func (s *Service) transition(ctx context.Context, id int64, target document.Status, extra map[string]interface{}) (*Return, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.machine.Transition(existing, target); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	for k, v := range extra {
		updates[k] = v
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateStatus(ctx, id, target, updates)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// GetByID retrieves a return by ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*Return, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a paginated list of returns of one kind.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Return, int, error) {
	if !req.Kind.IsValid() {
		return nil, 0, orders.ErrInvalidKind
	}
	return s.repo.List(ctx, req)
}
