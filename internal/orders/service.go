package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/money"
)

// Repository defines data access methods for orders.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListRequest) ([]Order, int, error)
	GenerateDocCode(ctx context.Context, kind Kind) (string, error)
}

// TxRepository defines operations available inside a transaction.
type TxRepository interface {
	CreateOrder(ctx context.Context, order Order) (int64, error)
	InsertLine(ctx context.Context, orderID int64, line document.Line) error
	DeleteLines(ctx context.Context, orderID int64) error
	UpdateOrder(ctx context.Context, id int64, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, status document.Status, updates map[string]interface{}) error
}

// Service provides business logic for purchase and sales orders.
type Service struct {
	repo    Repository
	machine *document.Machine
}

// NewService creates a new service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, machine: document.NewMachine()}
}

var maxTaxRate = decimal.NewFromInt(1)

func buildLines(reqs []CreateLineReq) ([]document.Line, error) {
	lines := make([]document.Line, 0, len(reqs))
	for i, lr := range reqs {
		price, err := money.NewPrice(lr.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		line := document.Line{
			ItemID:    lr.ItemID,
			Unit:      lr.Unit,
			Quantity:  lr.Quantity,
			UnitPrice: price,
		}
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Create creates a new order in DRAFT status with computed totals.
func (s *Service) Create(ctx context.Context, kind Kind, req CreateRequest, createdBy int64) (*Order, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if len(req.Lines) == 0 {
		return nil, ErrEmptyLines
	}
	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThanOrEqual(maxTaxRate) {
		return nil, ErrInvalidTaxRate
	}

	lines, err := buildLines(req.Lines)
	if err != nil {
		return nil, err
	}

	code, err := s.repo.GenerateDocCode(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("generate doc code: %w", err)
	}

	order := Order{
		Kind:           kind,
		Code:           code,
		CounterpartyID: req.CounterpartyID,
		WarehouseID:    req.WarehouseID,
		OrderDate:      req.OrderDate,
		Status:         document.StatusDraft,
		TaxRate:        req.TaxRate,
		Notes:          req.Notes,
		CreatedBy:      createdBy,
		Lines:          lines,
	}
	order.ComputeTotals()

	var orderID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		orderID = id
		for _, line := range lines {
			if err := tx.InsertLine(ctx, orderID, line); err != nil {
				return fmt.Errorf("insert line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, orderID)
}

// Update updates a DRAFT order. Code is immutable and never touched.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Order, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.CanEdit() {
		return nil, fmt.Errorf("%w: %s", ErrNotDraft, existing.Status)
	}

	updates := make(map[string]interface{})
	if req.CounterpartyID != nil {
		updates["counterparty_id"] = *req.CounterpartyID
	}
	if req.WarehouseID != nil {
		updates["warehouse_id"] = *req.WarehouseID
	}
	if req.OrderDate != nil {
		updates["order_date"] = *req.OrderDate
	}
	if req.Notes != nil {
		updates["notes"] = req.Notes
	}

	taxRate := existing.TaxRate
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() || req.TaxRate.GreaterThanOrEqual(maxTaxRate) {
			return nil, ErrInvalidTaxRate
		}
		taxRate = *req.TaxRate
		updates["tax_rate"] = *req.TaxRate
	}

	var lines []document.Line
	if req.Lines != nil {
		if len(*req.Lines) == 0 {
			return nil, ErrEmptyLines
		}
		lines, err = buildLines(*req.Lines)
		if err != nil {
			return nil, err
		}
	} else {
		lines = existing.Lines
	}

	// Totals follow every line or rate change.
	recalculated := Order{TaxRate: taxRate, Lines: lines}
	recalculated.ComputeTotals()
	updates["subtotal"] = int64(recalculated.Subtotal)
	updates["tax_amount"] = int64(recalculated.TaxAmount)
	updates["total_amount"] = int64(recalculated.TotalAmount)

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdateOrder(ctx, id, updates); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if req.Lines != nil {
			if err := tx.DeleteLines(ctx, id); err != nil {
				return fmt.Errorf("delete lines: %w", err)
			}
			for _, line := range lines {
				if err := tx.InsertLine(ctx, id, line); err != nil {
					return fmt.Errorf("insert line: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Approve moves a DRAFT order to APPROVED.
func (s *Service) Approve(ctx context.Context, id int64, approvedBy int64) (*Order, error) {
	return s.transition(ctx, id, document.StatusApproved, map[string]interface{}{
		"approved_by": approvedBy,
	})
}

// Reject moves a DRAFT order to REJECTED. The rejecting user is recorded
// in the same decision columns an approval uses.
func (s *Service) Reject(ctx context.Context, id int64, rejectedBy int64) (*Order, error) {
	return s.transition(ctx, id, document.StatusRejected, map[string]interface{}{
		"approved_by": rejectedBy,
	})
}

func (s *Service) transition(ctx context.Context, id int64, target document.Status, extra map[string]interface{}) (*Order, error) {
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

// GetByID retrieves an order by ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a paginated list of orders of one kind.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Order, int, error) {
	if !req.Kind.IsValid() {
		return nil, 0, ErrInvalidKind
	}
	return s.repo.List(ctx, req)
}
