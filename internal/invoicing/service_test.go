package invoicing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/money"
	"github.com/samudra-erp/samudra-erp/internal/orders"
)

// ============================================================================
// MOCKS
// ============================================================================

type mockRepository struct {
	invoices map[int64]*Invoice
	payments map[int64][]Payment
	nextID   int64
	counter  int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		invoices: make(map[int64]*Invoice),
		payments: make(map[int64][]Payment),
		nextID:   1,
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &mockTxRepo{mock: m})
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *inv
	copied.Payments = append([]Payment(nil), m.payments[id]...)
	return &copied, nil
}

func (m *mockRepository) GetByOrderID(ctx context.Context, orderID int64) (*Invoice, error) {
	for _, inv := range m.invoices {
		if inv.OrderID == orderID {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepository) List(ctx context.Context, req ListRequest) ([]Invoice, int, error) {
	var result []Invoice
	for _, inv := range m.invoices {
		if inv.Kind == req.Kind {
			result = append(result, *inv)
		}
	}
	return result, len(result), nil
}

func (m *mockRepository) GenerateDocCode(ctx context.Context, kind orders.Kind) (string, error) {
	m.counter++
	return fmt.Sprintf("%s-2025-%06d", CodePrefix(kind), m.counter), nil
}

type mockTxRepo struct {
	mock *mockRepository
}

func (t *mockTxRepo) CreateInvoice(ctx context.Context, inv Invoice) (int64, error) {
	id := t.mock.nextID
	t.mock.nextID++
	inv.ID = id
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = time.Now()
	t.mock.invoices[id] = &inv
	return id, nil
}

func (t *mockTxRepo) InsertPayment(ctx context.Context, payment Payment) (int64, error) {
	payment.ID = int64(len(t.mock.payments[payment.InvoiceID]) + 1)
	t.mock.payments[payment.InvoiceID] = append(t.mock.payments[payment.InvoiceID], payment)
	return payment.ID, nil
}

func (t *mockTxRepo) UpdatePaid(ctx context.Context, id int64, paid money.Amount, status document.Status) error {
	inv, ok := t.mock.invoices[id]
	if !ok {
		return ErrNotFound
	}
	inv.PaidAmount = paid
	inv.Status = status
	inv.UpdatedAt = time.Now()
	return nil
}

type mockOrderSource struct {
	orders map[int64]*orders.Order
}

func (m *mockOrderSource) GetByID(ctx context.Context, id int64) (*orders.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return o, nil
}

func newTestService(order *orders.Order) *Service {
	src := &mockOrderSource{orders: map[int64]*orders.Order{}}
	if order != nil {
		src.orders[order.ID] = order
	}
	return NewService(newMockRepository(), src)
}

func createReq() CreateRequest {
	days := 30
	return CreateRequest{
		OrderID:     10,
		InvoiceDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		TermDays:    &days,
	}
}

func paymentReq(amount int64) PaymentRequest {
	return PaymentRequest{
		PaymentDate: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Amount:      amount,
		Method:      "TRANSFER",
	}
}

// ============================================================================
// TESTS
// ============================================================================

func TestCreateInvoiceFromApprovedOrder(t *testing.T) {
	svc := newTestService(approvedOrder())

	inv, err := svc.Create(context.Background(), orders.KindSales, createReq(), 42)
	require.NoError(t, err)

	assert.Equal(t, "SINV-2025-000001", inv.Code)
	assert.Equal(t, document.StatusUnpaid, inv.Status)
	assert.EqualValues(t, 11100, inv.TotalAmount)
	assert.EqualValues(t, 0, inv.PaidAmount)
	assert.Equal(t, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), inv.DueDate)
}

func TestCreateSecondInvoiceForSameOrderFails(t *testing.T) {
	svc := newTestService(approvedOrder())

	_, err := svc.Create(context.Background(), orders.KindSales, createReq(), 42)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), orders.KindSales, createReq(), 42)
	assert.ErrorIs(t, err, ErrAlreadyInvoiced)
}

func TestCreateRejectsDraftOrder(t *testing.T) {
	order := approvedOrder()
	order.Status = document.StatusDraft
	svc := newTestService(order)

	_, err := svc.Create(context.Background(), orders.KindSales, createReq(), 42)
	assert.ErrorIs(t, err, ErrSourceNotApproved)
}

func TestCreateKindMismatchReportsNotFound(t *testing.T) {
	svc := newTestService(approvedOrder())

	_, err := svc.Create(context.Background(), orders.KindPurchase, createReq(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPartialThenFullPayment(t *testing.T) {
	svc := newTestService(approvedOrder())
	inv, err := svc.Create(context.Background(), orders.KindSales, createReq(), 42)
	require.NoError(t, err)

	inv, err = svc.RecordPayment(context.Background(), inv.ID, paymentReq(5000), 42)
	require.NoError(t, err)
	assert.Equal(t, document.StatusPartial, inv.Status)
	assert.EqualValues(t, 5000, inv.PaidAmount)
	assert.EqualValues(t, 6100, inv.Outstanding())

	inv, err = svc.RecordPayment(context.Background(), inv.ID, paymentReq(6100), 42)
	require.NoError(t, err)
	assert.Equal(t, document.StatusPaid, inv.Status)
	assert.EqualValues(t, 0, inv.Outstanding())
	assert.Len(t, inv.Payments, 2)
}

func TestTwoPartialPaymentsStayPartial(t *testing.T) {
	svc := newTestService(approvedOrder())
	inv, err := svc.Create(context.Background(), orders.KindSales, createReq(), 42)
	require.NoError(t, err)

	inv, err = svc.RecordPayment(context.Background(), inv.ID, paymentReq(3000), 42)
	require.NoError(t, err)
	inv, err = svc.RecordPayment(context.Background(), inv.ID, paymentReq(3000), 42)
	require.NoError(t, err)
	assert.Equal(t, document.StatusPartial, inv.Status)
	assert.EqualValues(t, 6000, inv.PaidAmount)
}

func TestSinglePaymentSettlesDirectly(t *testing.T) {
	svc := newTestService(approvedOrder())
	inv, err := svc.Create(context.Background(), orders.KindSales, createReq(), 42)
	require.NoError(t, err)

	inv, err = svc.RecordPayment(context.Background(), inv.ID, paymentReq(11100), 42)
	require.NoError(t, err)
	assert.Equal(t, document.StatusPaid, inv.Status)
}

func TestPaymentOnPaidInvoiceFails(t *testing.T) {
	svc := newTestService(approvedOrder())
	inv, err := svc.Create(context.Background(), orders.KindSales, createReq(), 42)
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), inv.ID, paymentReq(11100), 42)
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), inv.ID, paymentReq(1), 42)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestZeroOrNegativePaymentFails(t *testing.T) {
	svc := newTestService(approvedOrder())
	inv, err := svc.Create(context.Background(), orders.KindSales, createReq(), 42)
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), inv.ID, paymentReq(0), 42)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = svc.RecordPayment(context.Background(), inv.ID, paymentReq(-50), 42)
	assert.ErrorIs(t, err, ErrInvalidPayment)
}
