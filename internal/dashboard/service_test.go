package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudra-erp/samudra-erp/internal/money"
)

type stubRepo struct {
	calls int64

	draftPurchase int64
	draftSales    int64
	receipts      int64
	deliveries    int64
	returns       int64
	payables      money.Amount
	receivables   money.Amount
	dueSoon       int64
}

func (s *stubRepo) CountDraftOrders(ctx context.Context, kind string) (int64, error) {
	atomic.AddInt64(&s.calls, 1)
	if kind == "PURCHASE" {
		return s.draftPurchase, nil
	}
	return s.draftSales, nil
}

func (s *stubRepo) CountPendingFulfillments(ctx context.Context, kind string) (int64, error) {
	atomic.AddInt64(&s.calls, 1)
	if kind == "RECEIPT" {
		return s.receipts, nil
	}
	return s.deliveries, nil
}

func (s *stubRepo) CountPendingReturns(ctx context.Context) (int64, error) {
	atomic.AddInt64(&s.calls, 1)
	return s.returns, nil
}

func (s *stubRepo) SumOutstanding(ctx context.Context, kind string) (money.Amount, error) {
	atomic.AddInt64(&s.calls, 1)
	if kind == "PURCHASE" {
		return s.payables, nil
	}
	return s.receivables, nil
}

func (s *stubRepo) CountInvoicesDueWithin(ctx context.Context, days int) (int64, error) {
	atomic.AddInt64(&s.calls, 1)
	return s.dueSoon, nil
}

func fixtureRepo() *stubRepo {
	return &stubRepo{
		draftPurchase: 3,
		draftSales:    5,
		receipts:      2,
		deliveries:    1,
		returns:       4,
		payables:      250000,
		receivables:   900000,
		dueSoon:       6,
	}
}

func newCachedService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(repo, NewCache(client, time.Minute), 7)
}

func TestGetSummaryAggregatesAllCounts(t *testing.T) {
	svc := newCachedService(t, fixtureRepo())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, summary.DraftPurchaseOrders)
	assert.EqualValues(t, 5, summary.DraftSalesOrders)
	assert.EqualValues(t, 2, summary.PendingReceipts)
	assert.EqualValues(t, 1, summary.PendingDeliveries)
	assert.EqualValues(t, 4, summary.PendingReturns)
	assert.EqualValues(t, 250000, summary.OpenPayables)
	assert.EqualValues(t, 900000, summary.OpenReceivables)
	assert.EqualValues(t, 6, summary.InvoicesDueSoon)
	assert.Equal(t, 7, summary.DueSoonDays)
}

func TestGetSummaryServesSecondCallFromCache(t *testing.T) {
	repo := fixtureRepo()
	svc := newCachedService(t, repo)

	_, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	first := atomic.LoadInt64(&repo.calls)

	_, err = svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, atomic.LoadInt64(&repo.calls), "second read should not touch the repository")
}

func TestRefreshInvalidatesCache(t *testing.T) {
	repo := fixtureRepo()
	svc := newCachedService(t, repo)

	_, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	repo.draftSales = 9
	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 9, summary.DraftSalesOrders)
}

func TestServiceWorksWithoutCache(t *testing.T) {
	svc := NewService(fixtureRepo(), nil, 7)

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.DraftPurchaseOrders)
}
