package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/money"
	"github.com/samudra-erp/samudra-erp/internal/orders"
	"github.com/samudra-erp/samudra-erp/internal/platform/db"
	"github.com/samudra-erp/samudra-erp/internal/shared"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const invoiceColumns = `
	i.id, i.kind, i.code, i.order_id, o.code AS order_code, i.counterparty_id,
	i.invoice_date, i.due_date, i.status, i.subtotal, i.tax_amount,
	i.total_amount, i.paid_amount, i.notes, i.created_by, i.created_at, i.updated_at`

const invoiceFrom = ` FROM invoices i JOIN orders o ON o.id = i.order_id`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.Kind, &inv.Code, &inv.OrderID, &inv.OrderCode, &inv.CounterpartyID,
		&inv.InvoiceDate, &inv.DueDate, &inv.Status, &inv.Subtotal, &inv.TaxAmount,
		&inv.TotalAmount, &inv.PaidAmount, &inv.Notes, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx,
		`SELECT`+invoiceColumns+invoiceFrom+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, payment_date, amount, method, reference, notes, created_by, created_at
		FROM invoice_payments
		WHERE invoice_id = $1
		ORDER BY payment_date, id`, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p Payment
		err := rows.Scan(&p.ID, &p.InvoiceID, &p.PaymentDate, &p.Amount,
			&p.Method, &p.Reference, &p.Notes, &p.CreatedBy, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan invoice payment: %w", err)
		}
		inv.Payments = append(inv.Payments, p)
	}
	return inv, rows.Err()
}

func (r *repository) GetByOrderID(ctx context.Context, orderID int64) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx,
		`SELECT`+invoiceColumns+invoiceFrom+` WHERE i.order_id = $1`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get invoice by order: %w", err)
	}
	return inv, nil
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Invoice, int, error) {
	where := ` WHERE i.kind = $1`
	args := []interface{}{req.Kind}

	appendClause := func(clause string, value interface{}) {
		args = append(args, value)
		where += " AND " + clause + " $" + strconv.Itoa(len(args))
	}
	if req.Status != nil {
		appendClause("i.status =", *req.Status)
	}
	if req.CounterpartyID != nil {
		appendClause("i.counterparty_id =", *req.CounterpartyID)
	}
	if req.DueBefore != nil {
		appendClause("i.due_date <=", *req.DueBefore)
	}
	if req.DateFrom != nil {
		appendClause("i.invoice_date >=", *req.DateFrom)
	}
	if req.DateTo != nil {
		appendClause("i.invoice_date <=", *req.DateTo)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+invoiceFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	args = append(args, shared.ClampLimit(req.Limit), req.Offset)
	query := `SELECT` + invoiceColumns + invoiceFrom + where +
		` ORDER BY i.invoice_date DESC, i.id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, total, rows.Err()
}

func (r *repository) GenerateDocCode(ctx context.Context, kind orders.Kind) (string, error) {
	prefix := CodePrefix(kind)
	year := time.Now().Year()
	var value int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO doc_sequences (prefix, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year)
		DO UPDATE SET value = doc_sequences.value + 1
		RETURNING value`, prefix, year).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("next doc sequence: %w", err)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, value), nil
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) CreateInvoice(ctx context.Context, inv Invoice) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO invoices
			(kind, code, order_id, counterparty_id, invoice_date, due_date, status,
			 subtotal, tax_amount, total_amount, paid_amount, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12)
		RETURNING id`,
		inv.Kind, inv.Code, inv.OrderID, inv.CounterpartyID, inv.InvoiceDate,
		inv.DueDate, inv.Status, inv.Subtotal, inv.TaxAmount, inv.TotalAmount,
		inv.Notes, inv.CreatedBy,
	).Scan(&id)
	if err != nil {
		if shared.DuplicateKey(err) {
			return 0, shared.ErrDuplicate
		}
		return 0, fmt.Errorf("insert invoice: %w", err)
	}
	return id, nil
}

func (t *txRepository) InsertPayment(ctx context.Context, payment Payment) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO invoice_payments
			(invoice_id, payment_date, amount, method, reference, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		payment.InvoiceID, payment.PaymentDate, payment.Amount,
		payment.Method, payment.Reference, payment.Notes, payment.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	return id, nil
}

func (t *txRepository) UpdatePaid(ctx context.Context, id int64, paid money.Amount, status document.Status) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE invoices SET paid_amount = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		paid, status, id)
	if err != nil {
		return fmt.Errorf("update invoice paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
