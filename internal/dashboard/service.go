package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samudra-erp/samudra-erp/internal/money"
)

// Summary is the landing page snapshot: document counts per workflow
// stage and the receivable/payable position.
type Summary struct {
	DraftPurchaseOrders int64 `json:"draft_purchase_orders"`
	DraftSalesOrders    int64 `json:"draft_sales_orders"`
	PendingReceipts     int64 `json:"pending_receipts"`
	PendingDeliveries   int64 `json:"pending_deliveries"`
	PendingReturns      int64 `json:"pending_returns"`

	OpenPayables    money.Amount `json:"open_payables"`
	OpenReceivables money.Amount `json:"open_receivables"`

	InvoicesDueSoon int64     `json:"invoices_due_soon"`
	DueSoonDays     int       `json:"due_soon_days"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Repository defines the count and sum queries behind the summary.
type Repository interface {
	CountDraftOrders(ctx context.Context, kind string) (int64, error)
	CountPendingFulfillments(ctx context.Context, kind string) (int64, error)
	CountPendingReturns(ctx context.Context) (int64, error)
	SumOutstanding(ctx context.Context, kind string) (money.Amount, error)
	CountInvoicesDueWithin(ctx context.Context, days int) (int64, error)
}

// Service assembles the dashboard summary, fanning the queries out
// concurrently and caching the result.
type Service struct {
	repo        Repository
	cache       *Cache
	dueSoonDays int
	now         func() time.Time
}

// NewService creates a new service. cache may be nil.
func NewService(repo Repository, cache *Cache, dueSoonDays int) *Service {
	return &Service{repo: repo, cache: cache, dueSoonDays: dueSoonDays, now: time.Now}
}

// GetSummary returns the cached snapshot, computing it when absent.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	key, err := s.cache.BuildKey(ctx, keySummary(s.dueSoonDays))
	if err != nil {
		return nil, err
	}
	var summary Summary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Refresh recomputes the snapshot and bumps the cache so every reader
// sees the new value.
func (s *Service) Refresh(ctx context.Context) (*Summary, error) {
	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *Service) compute(ctx context.Context) (*Summary, error) {
	summary := &Summary{DueSoonDays: s.dueSoonDays, GeneratedAt: s.now()}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.CountDraftOrders(ctx, "PURCHASE")
		if err != nil {
			return err
		}
		summary.DraftPurchaseOrders = n
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountDraftOrders(ctx, "SALES")
		if err != nil {
			return err
		}
		summary.DraftSalesOrders = n
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountPendingFulfillments(ctx, "RECEIPT")
		if err != nil {
			return err
		}
		summary.PendingReceipts = n
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountPendingFulfillments(ctx, "DELIVERY")
		if err != nil {
			return err
		}
		summary.PendingDeliveries = n
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountPendingReturns(ctx)
		if err != nil {
			return err
		}
		summary.PendingReturns = n
		return nil
	})
	g.Go(func() error {
		amount, err := s.repo.SumOutstanding(ctx, "PURCHASE")
		if err != nil {
			return err
		}
		summary.OpenPayables = amount
		return nil
	})
	g.Go(func() error {
		amount, err := s.repo.SumOutstanding(ctx, "SALES")
		if err != nil {
			return err
		}
		summary.OpenReceivables = amount
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountInvoicesDueWithin(ctx, s.dueSoonDays)
		if err != nil {
			return err
		}
		summary.InvoicesDueSoon = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
