package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samudra-erp/samudra-erp/internal/money"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CountDraftOrders(ctx context.Context, kind string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE kind = $1 AND status = 'DRAFT'`, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count draft orders: %w", err)
	}
	return n, nil
}

func (r *repository) CountPendingFulfillments(ctx context.Context, kind string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM fulfillments WHERE kind = $1 AND status = 'PENDING'`, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending fulfillments: %w", err)
	}
	return n, nil
}

func (r *repository) CountPendingReturns(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM returns WHERE status = 'PENDING'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending returns: %w", err)
	}
	return n, nil
}

func (r *repository) SumOutstanding(ctx context.Context, kind string) (money.Amount, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount - paid_amount), 0)
		FROM invoices
		WHERE kind = $1 AND status IN ('UNPAID', 'PARTIAL')`, kind).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum outstanding: %w", err)
	}
	return money.Amount(total), nil
}

func (r *repository) CountInvoicesDueWithin(ctx context.Context, days int) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM invoices
		WHERE status IN ('UNPAID', 'PARTIAL')
		  AND due_date <= CURRENT_DATE + $1::int`, days).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count due invoices: %w", err)
	}
	return n, nil
}
