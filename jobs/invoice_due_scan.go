package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samudra-erp/samudra-erp/internal/money"
)

// InvoiceDueScanJob reports invoices that fall due within the configured window.
type InvoiceDueScanJob struct {
	Pool       *pgxpool.Pool
	Logger     *slog.Logger
	WithinDays int
	formatter  *money.Formatter
}

// NewInvoiceDueScanJob wires dependencies for the due-scan handler.
func NewInvoiceDueScanJob(pool *pgxpool.Pool, logger *slog.Logger, withinDays int) *InvoiceDueScanJob {
	return &InvoiceDueScanJob{
		Pool:       pool,
		Logger:     logger,
		WithinDays: withinDays,
		formatter:  money.IDR(),
	}
}

// Handle processes TaskInvoiceDueScan tasks.
func (j *InvoiceDueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("invoice due scan: handler not configured")
	}
	var payload InvoiceDueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	withinDays := payload.WithinDays
	if withinDays <= 0 {
		withinDays = j.WithinDays
	}

	started := time.Now()
	rows, err := j.Pool.Query(ctx, `
		SELECT code, due_date, total_amount - paid_amount
		FROM invoices
		WHERE status IN ('UNPAID', 'PARTIAL')
		  AND due_date <= CURRENT_DATE + $1::int
		ORDER BY due_date`, withinDays)
	if err != nil {
		return err
	}
	defer rows.Close()

	logger := j.logger().With(slog.Int("within_days", withinDays))
	count := 0
	for rows.Next() {
		var (
			code        string
			dueDate     time.Time
			outstanding int64
		)
		if err := rows.Scan(&code, &dueDate, &outstanding); err != nil {
			return err
		}
		count++
		logger.Info("invoice due soon",
			slog.String("code", code),
			slog.String("due_date", dueDate.Format("2006-01-02")),
			slog.String("outstanding", j.formatter.Format(money.Amount(outstanding))),
		)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	logger.Info("invoice due scan completed",
		slog.Int("invoices", count),
		slog.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (j *InvoiceDueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
