package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/money"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	orders  map[int64]*Order
	lines   map[int64][]document.Line
	nextID  int64
	counter map[Kind]int

	txError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		orders:  make(map[int64]*Order),
		lines:   make(map[int64][]document.Line),
		counter: make(map[Kind]int),
		nextID:  1,
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if m.txError != nil {
		return m.txError
	}
	return fn(ctx, &mockTxRepo{mock: m})
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	copied.Lines = append([]document.Line(nil), m.lines[id]...)
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context, req ListRequest) ([]Order, int, error) {
	var result []Order
	for _, o := range m.orders {
		if o.Kind != req.Kind {
			continue
		}
		if req.Status != nil && o.Status != *req.Status {
			continue
		}
		result = append(result, *o)
	}
	return result, len(result), nil
}

func (m *mockRepository) GenerateDocCode(ctx context.Context, kind Kind) (string, error) {
	m.counter[kind]++
	return fmt.Sprintf("%s-2025-%06d", kind.CodePrefix(), m.counter[kind]), nil
}

type mockTxRepo struct {
	mock *mockRepository
}

func (t *mockTxRepo) CreateOrder(ctx context.Context, o Order) (int64, error) {
	id := t.mock.nextID
	t.mock.nextID++
	o.ID = id
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
	o.Lines = nil
	t.mock.orders[id] = &o
	return id, nil
}

func (t *mockTxRepo) InsertLine(ctx context.Context, orderID int64, line document.Line) error {
	t.mock.lines[orderID] = append(t.mock.lines[orderID], line)
	return nil
}

func (t *mockTxRepo) DeleteLines(ctx context.Context, orderID int64) error {
	delete(t.mock.lines, orderID)
	return nil
}

func (t *mockTxRepo) UpdateOrder(ctx context.Context, id int64, updates map[string]interface{}) error {
	o, ok := t.mock.orders[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["subtotal"]; ok {
		o.Subtotal = money.Amount(v.(int64))
	}
	if v, ok := updates["tax_amount"]; ok {
		o.TaxAmount = money.Amount(v.(int64))
	}
	if v, ok := updates["total_amount"]; ok {
		o.TotalAmount = money.Amount(v.(int64))
	}
	if v, ok := updates["tax_rate"]; ok {
		o.TaxRate = v.(decimal.Decimal)
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (t *mockTxRepo) UpdateStatus(ctx context.Context, id int64, status document.Status, updates map[string]interface{}) error {
	o, ok := t.mock.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	if v, ok := updates["approved_by"]; ok {
		by := v.(int64)
		o.ApprovedBy = &by
	}
	o.UpdatedAt = time.Now()
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

func taxRate(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		CounterpartyID: 7,
		WarehouseID:    2,
		OrderDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		TaxRate:        taxRate("0.11"),
		Lines: []CreateLineReq{
			{ItemID: 1, Unit: "pcs", Quantity: decimal.NewFromInt(10), UnitPrice: 1000},
		},
	}
}

// ============================================================================
// TESTS
// ============================================================================

func TestCreateOrderComputesTotals(t *testing.T) {
	svc := NewService(newMockRepository())

	order, err := svc.Create(context.Background(), KindPurchase, validCreateRequest(), 42)
	require.NoError(t, err)

	assert.Equal(t, "PO-2025-000001", order.Code)
	assert.Equal(t, document.StatusDraft, order.Status)
	assert.EqualValues(t, 10000, order.Subtotal)
	assert.EqualValues(t, 1100, order.TaxAmount)
	assert.EqualValues(t, 11100, order.TotalAmount)
	assert.Len(t, order.Lines, 1)
}

func TestCreateSalesOrderUsesSOPrefix(t *testing.T) {
	svc := NewService(newMockRepository())

	order, err := svc.Create(context.Background(), KindSales, validCreateRequest(), 42)
	require.NoError(t, err)
	assert.Equal(t, "SO-2025-000001", order.Code)
}

func TestCreateRejectsEmptyLines(t *testing.T) {
	svc := NewService(newMockRepository())

	req := validCreateRequest()
	req.Lines = nil
	_, err := svc.Create(context.Background(), KindPurchase, req, 42)
	assert.ErrorIs(t, err, ErrEmptyLines)
}

func TestCreateRejectsZeroQuantityLine(t *testing.T) {
	svc := NewService(newMockRepository())

	req := validCreateRequest()
	req.Lines[0].Quantity = decimal.Zero
	_, err := svc.Create(context.Background(), KindPurchase, req, 42)
	assert.ErrorIs(t, err, document.ErrInvalidLine)
}

func TestCreateRejectsInvalidTaxRate(t *testing.T) {
	svc := NewService(newMockRepository())

	req := validCreateRequest()
	req.TaxRate = taxRate("1.5")
	_, err := svc.Create(context.Background(), KindPurchase, req, 42)
	assert.ErrorIs(t, err, ErrInvalidTaxRate)
}

func TestApproveOrder(t *testing.T) {
	svc := NewService(newMockRepository())
	created, err := svc.Create(context.Background(), KindPurchase, validCreateRequest(), 42)
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), created.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, document.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.EqualValues(t, 99, *approved.ApprovedBy)
}

func TestRejectOrderRecordsDecidingUser(t *testing.T) {
	svc := NewService(newMockRepository())
	created, err := svc.Create(context.Background(), KindPurchase, validCreateRequest(), 42)
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), created.ID, 77)
	require.NoError(t, err)
	assert.Equal(t, document.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.ApprovedBy)
	assert.EqualValues(t, 77, *rejected.ApprovedBy)
}

func TestApproveRejectedOrderFails(t *testing.T) {
	svc := NewService(newMockRepository())
	created, err := svc.Create(context.Background(), KindSales, validCreateRequest(), 42)
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), created.ID, 99)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), created.ID, 99)
	assert.ErrorIs(t, err, document.ErrIllegalTransition)
}

func TestUpdateApprovedOrderFails(t *testing.T) {
	svc := NewService(newMockRepository())
	created, err := svc.Create(context.Background(), KindPurchase, validCreateRequest(), 42)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), created.ID, 99)
	require.NoError(t, err)

	notes := "late change"
	_, err = svc.Update(context.Background(), created.ID, UpdateRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotDraft)
}

func TestUpdateRecomputesTotals(t *testing.T) {
	svc := NewService(newMockRepository())
	created, err := svc.Create(context.Background(), KindPurchase, validCreateRequest(), 42)
	require.NoError(t, err)

	lines := []CreateLineReq{
		{ItemID: 1, Unit: "pcs", Quantity: decimal.NewFromInt(5), UnitPrice: 2000},
		{ItemID: 2, Unit: "box", Quantity: decimal.NewFromInt(2), UnitPrice: 5000},
	}
	updated, err := svc.Update(context.Background(), created.ID, UpdateRequest{Lines: &lines})
	require.NoError(t, err)
	assert.EqualValues(t, 20000, updated.Subtotal)
	assert.EqualValues(t, 2200, updated.TaxAmount)
	assert.EqualValues(t, 22200, updated.TotalAmount)
	assert.Len(t, updated.Lines, 2)
}

func TestCodeIsImmutableOnUpdate(t *testing.T) {
	svc := NewService(newMockRepository())
	created, err := svc.Create(context.Background(), KindPurchase, validCreateRequest(), 42)
	require.NoError(t, err)

	notes := "updated notes"
	updated, err := svc.Update(context.Background(), created.ID, UpdateRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, created.Code, updated.Code)
}
