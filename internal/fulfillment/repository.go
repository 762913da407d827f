package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/document"
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

const docColumns = `
	f.id, f.kind, f.code, f.order_id, o.code AS order_code, f.warehouse_id,
	f.doc_date, f.status, f.notes, f.created_by, f.created_at, f.updated_at`

const docFrom = ` FROM fulfillments f JOIN orders o ON o.id = f.order_id`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(
		&d.ID, &d.Kind, &d.Code, &d.OrderID, &d.OrderCode, &d.WarehouseID,
		&d.DocDate, &d.Status, &d.Notes, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Document, error) {
	doc, err := scanDocument(r.pool.QueryRow(ctx,
		`SELECT`+docColumns+docFrom+` WHERE f.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get fulfillment: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT item_id, unit, ordered_qty, fulfilled_qty
		FROM fulfillment_lines
		WHERE fulfillment_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get fulfillment lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ItemID, &l.Unit, &l.OrderedQty, &l.FulfilledQty); err != nil {
			return nil, fmt.Errorf("scan fulfillment line: %w", err)
		}
		doc.Lines = append(doc.Lines, l)
	}
	return doc, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Document, int, error) {
	where := ` WHERE f.kind = $1`
	args := []interface{}{req.Kind}

	appendClause := func(clause string, value interface{}) {
		args = append(args, value)
		where += " AND " + clause + " $" + strconv.Itoa(len(args))
	}
	if req.OrderID != nil {
		appendClause("f.order_id =", *req.OrderID)
	}
	if req.Status != nil {
		appendClause("f.status =", *req.Status)
	}
	if req.DateFrom != nil {
		appendClause("f.doc_date >=", *req.DateFrom)
	}
	if req.DateTo != nil {
		appendClause("f.doc_date <=", *req.DateTo)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+docFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count fulfillments: %w", err)
	}

	args = append(args, shared.ClampLimit(req.Limit), req.Offset)
	query := `SELECT` + docColumns + docFrom + where +
		` ORDER BY f.doc_date DESC, f.id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list fulfillments: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan fulfillment: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, total, rows.Err()
}

func (r *repository) SumFulfilledByOrder(ctx context.Context, orderID int64) (map[int64]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.item_id, COALESCE(SUM(l.fulfilled_qty), 0)
		FROM fulfillment_lines l
		JOIN fulfillments f ON f.id = l.fulfillment_id
		WHERE f.order_id = $1 AND f.status <> 'CANCELLED'
		GROUP BY l.item_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("sum fulfilled: %w", err)
	}
	defer rows.Close()

	sums := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var itemID int64
		var qty decimal.Decimal
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("scan fulfilled sum: %w", err)
		}
		sums[itemID] = qty
	}
	return sums, rows.Err()
}

func (r *repository) GenerateDocCode(ctx context.Context, kind document.Kind) (string, error) {
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

func (t *txRepository) CreateDocument(ctx context.Context, doc Document) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO fulfillments
			(kind, code, order_id, warehouse_id, doc_date, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		doc.Kind, doc.Code, doc.OrderID, doc.WarehouseID,
		doc.DocDate, doc.Status, doc.Notes, doc.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert fulfillment: %w", err)
	}
	return id, nil
}

func (t *txRepository) InsertLine(ctx context.Context, docID int64, line Line) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO fulfillment_lines
			(fulfillment_id, item_id, unit, ordered_qty, fulfilled_qty)
		VALUES ($1, $2, $3, $4, $5)`,
		docID, line.ItemID, line.Unit, line.OrderedQty, line.FulfilledQty,
	)
	if err != nil {
		return fmt.Errorf("insert fulfillment line: %w", err)
	}
	return nil
}

func (t *txRepository) UpdateStatus(ctx context.Context, id int64, status document.Status) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE fulfillments SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("update fulfillment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
