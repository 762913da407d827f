package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/platform/db"
	"github.com/samudra-erp/samudra-erp/internal/shared"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the postgres-backed order repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const orderColumns = `id, kind, code, counterparty_id, warehouse_id, order_date, status, tax_rate,
subtotal, tax_amount, total_amount, notes, created_by, approved_by, approved_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Kind, &o.Code, &o.CounterpartyID, &o.WarehouseID, &o.OrderDate,
		&o.Status, &o.TaxRate, &o.Subtotal, &o.TaxAmount, &o.TotalAmount, &o.Notes,
		&o.CreatedBy, &o.ApprovedBy, &o.ApprovedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `SELECT item_id, unit, quantity, unit_price
FROM order_lines WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l document.Line
		if err := rows.Scan(&l.ItemID, &l.Unit, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Order, int, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE kind = $1`
	countQuery := `SELECT COUNT(*) FROM orders WHERE kind = $1`
	args := []interface{}{string(req.Kind)}
	argCount := 1

	appendClause := func(clause string, val interface{}) {
		argCount++
		c := clause + strconv.Itoa(argCount)
		query += c
		countQuery += c
		args = append(args, val)
	}

	if req.CounterpartyID != nil {
		appendClause(` AND counterparty_id = $`, *req.CounterpartyID)
	}
	if req.Status != nil {
		appendClause(` AND status = $`, string(*req.Status))
	}
	if req.DateFrom != nil {
		appendClause(` AND order_date >= $`, *req.DateFrom)
	}
	if req.DateTo != nil {
		appendClause(` AND order_date <= $`, *req.DateTo)
	}
	if req.Search != "" {
		appendClause(` AND code ILIKE $`, "%"+req.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query += ` ORDER BY order_date DESC, id DESC`
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, shared.ClampLimit(req.Limit))
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Kind, &o.Code, &o.CounterpartyID, &o.WarehouseID, &o.OrderDate,
			&o.Status, &o.TaxRate, &o.Subtotal, &o.TaxAmount, &o.TotalAmount, &o.Notes,
			&o.CreatedBy, &o.ApprovedBy, &o.ApprovedAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, o)
	}
	return result, total, rows.Err()
}

// GenerateDocCode produces the next sequential code per kind and year,
// e.g. PO-2025-000123.
func (r *repository) GenerateDocCode(ctx context.Context, kind Kind) (string, error) {
	year := time.Now().Year()
	var seq int64
	err := r.pool.QueryRow(ctx, `INSERT INTO doc_sequences (prefix, year, value)
VALUES ($1, $2, 1)
ON CONFLICT (prefix, year) DO UPDATE SET value = doc_sequences.value + 1
RETURNING value`, kind.CodePrefix(), year).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("next sequence: %w", err)
	}
	return fmt.Sprintf("%s-%d-%06d", kind.CodePrefix(), year, seq), nil
}

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) CreateOrder(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO orders
(kind, code, counterparty_id, warehouse_id, order_date, status, tax_rate, subtotal, tax_amount, total_amount, notes, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
RETURNING id`,
		string(o.Kind), o.Code, o.CounterpartyID, o.WarehouseID, o.OrderDate, string(o.Status),
		o.TaxRate, int64(o.Subtotal), int64(o.TaxAmount), int64(o.TotalAmount), o.Notes, o.CreatedBy).Scan(&id)
	return id, err
}

func (t *txRepository) InsertLine(ctx context.Context, orderID int64, line document.Line) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO order_lines (order_id, item_id, unit, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5)`, orderID, line.ItemID, line.Unit, line.Quantity, int64(line.UnitPrice))
	return err
}

func (t *txRepository) DeleteLines(ctx context.Context, orderID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID)
	return err
}

func (t *txRepository) UpdateOrder(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	setClause := ""
	args := []interface{}{}
	argCount := 0
	for col, val := range updates {
		argCount++
		if setClause != "" {
			setClause += ", "
		}
		setClause += col + " = $" + strconv.Itoa(argCount)
		args = append(args, val)
	}
	argCount++
	args = append(args, id)
	_, err := t.tx.Exec(ctx, `UPDATE orders SET `+setClause+`, updated_at = NOW() WHERE id = $`+strconv.Itoa(argCount), args...)
	return err
}

func (t *txRepository) UpdateStatus(ctx context.Context, id int64, status document.Status, updates map[string]interface{}) error {
	merged := map[string]interface{}{"status": string(status)}
	for k, v := range updates {
		merged[k] = v
	}
	if status == document.StatusApproved || status == document.StatusRejected {
		merged["approved_at"] = time.Now()
	}
	return t.UpdateOrder(ctx, id, merged)
}
