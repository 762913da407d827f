package fulfillment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/orders"
)

// Repository defines data access methods for fulfillment documents.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByID(ctx context.Context, id int64) (*Document, error)
	List(ctx context.Context, req ListRequest) ([]Document, int, error)
	SumFulfilledByOrder(ctx context.Context, orderID int64) (map[int64]decimal.Decimal, error)
	GenerateDocCode(ctx context.Context, kind document.Kind) (string, error)
}

// TxRepository defines operations available inside a transaction.
type TxRepository interface {
	CreateDocument(ctx context.Context, doc Document) (int64, error)
	InsertLine(ctx context.Context, docID int64, line Line) error
	UpdateStatus(ctx context.Context, id int64, status document.Status) error
}

// OrderSource looks up the order a fulfillment document is written against.
type OrderSource interface {
	GetByID(ctx context.Context, id int64) (*orders.Order, error)
}

// Service provides business logic for goods receipts and delivery orders.
type Service struct {
	repo     Repository
	orderSrc OrderSource
	machine  *document.Machine

	// strict enables the cumulative quantity check across all documents
	// of one order. Off by default: repeated full receipts of the same
	// order are accepted and recorded as given.
	strict bool
}

// NewService creates a new service.
func NewService(repo Repository, orderSrc OrderSource, strict bool) *Service {
	return &Service{
		repo:     repo,
		orderSrc: orderSrc,
		machine:  document.NewMachine(),
		strict:   strict,
	}
}

func expectedOrderKind(kind document.Kind) orders.Kind {
	if kind == document.KindDelivery {
		return orders.KindSales
	}
	return orders.KindPurchase
}

// Create writes a new PENDING fulfillment document against an approved
// order. Lines not mentioned in the request are fulfilled in full.
func (s *Service) Create(ctx context.Context, kind document.Kind, req CreateRequest, createdBy int64) (*Document, error) {
	if kind != document.KindReceipt && kind != document.KindDelivery {
		return nil, fmt.Errorf("%w: %s", document.ErrUnknownKind, kind)
	}

	order, err := s.orderSrc.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Kind != expectedOrderKind(kind) {
		return nil, fmt.Errorf("%w: order %s is %s", ErrKindMismatch, order.Code, order.Kind)
	}
	if !order.IsApproved() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderNotApproved, order.Code, order.Status)
	}

	lines, err := Apply(DeriveCandidates(order.Lines), req.Lines)
	if err != nil {
		return nil, err
	}
	if s.strict {
		prior, err := s.repo.SumFulfilledByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("sum fulfilled: %w", err)
		}
		if err := ValidateCumulative(lines, prior); err != nil {
			return nil, err
		}
	}

	code, err := s.repo.GenerateDocCode(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("generate doc code: %w", err)
	}

	doc := Document{
		Kind:        kind,
		Code:        code,
		OrderID:     order.ID,
		OrderCode:   order.Code,
		WarehouseID: order.WarehouseID,
		DocDate:     req.DocDate,
		Status:      document.StatusPending,
		Notes:       req.Notes,
		CreatedBy:   createdBy,
		Lines:       lines,
	}

	var docID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		docID = id
		for _, line := range lines {
			if err := tx.InsertLine(ctx, docID, line); err != nil {
				return fmt.Errorf("insert line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, docID)
}

// Complete moves a PENDING document to COMPLETED.
func (s *Service) Complete(ctx context.Context, id int64) (*Document, error) {
	return s.transition(ctx, id, document.StatusCompleted)
}

// Cancel moves a PENDING document to CANCELLED.
func (s *Service) Cancel(ctx context.Context, id int64) (*Document, error) {
	return s.transition(ctx, id, document.StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id int64, target document.Status) (*Document, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.machine.Transition(existing, target); err != nil {
		return nil, err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateStatus(ctx, id, target)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// GetByID retrieves a document by ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*Document, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a paginated list of documents of one kind.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Document, int, error) {
	return s.repo.List(ctx, req)
}
