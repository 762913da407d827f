package returns

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samudra-erp/samudra-erp/internal/document"
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

const returnColumns = `
	r.id, r.kind, r.code, r.invoice_id, i.code AS invoice_code, r.order_id,
	r.return_date, r.status, r.total_amount, r.tax_amount, r.total_after_tax, r.reason, r.created_by,
	r.approved_by, r.approved_at, r.created_at, r.updated_at`

const returnFrom = ` FROM returns r JOIN invoices i ON i.id = r.invoice_id`

func scanReturn(row pgx.Row) (*Return, error) {
	var ret Return
	err := row.Scan(
		&ret.ID, &ret.Kind, &ret.Code, &ret.InvoiceID, &ret.InvoiceCode, &ret.OrderID,
		&ret.ReturnDate, &ret.Status, &ret.TotalAmount, &ret.TaxAmount, &ret.TotalAfterTax, &ret.Reason, &ret.CreatedBy,
		&ret.ApprovedBy, &ret.ApprovedAt, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Return, error) {
	ret, err := scanReturn(r.pool.QueryRow(ctx,
		`SELECT`+returnColumns+returnFrom+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get return: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT item_id, unit, quantity, unit_price
		FROM return_lines
		WHERE return_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get return lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l document.Line
		if err := rows.Scan(&l.ItemID, &l.Unit, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan return line: %w", err)
		}
		ret.Lines = append(ret.Lines, l)
	}
	return ret, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Return, int, error) {
	where := ` WHERE r.kind = $1`
	args := []interface{}{req.Kind}

	appendClause := func(clause string, value interface{}) {
		args = append(args, value)
		where += " AND " + clause + " $" + strconv.Itoa(len(args))
	}
	if req.InvoiceID != nil {
		appendClause("r.invoice_id =", *req.InvoiceID)
	}
	if req.Status != nil {
		appendClause("r.status =", *req.Status)
	}
	if req.DateFrom != nil {
		appendClause("r.return_date >=", *req.DateFrom)
	}
	if req.DateTo != nil {
		appendClause("r.return_date <=", *req.DateTo)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+returnFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count returns: %w", err)
	}

	args = append(args, shared.ClampLimit(req.Limit), req.Offset)
	query := `SELECT` + returnColumns + returnFrom + where +
		` ORDER BY r.return_date DESC, r.id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()

	var returnsList []Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan return: %w", err)
		}
		returnsList = append(returnsList, *ret)
	}
	return returnsList, total, rows.Err()
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

func (t *txRepository) CreateReturn(ctx context.Context, ret Return) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO returns
			(kind, code, invoice_id, order_id, return_date, status, total_amount, tax_amount, total_after_tax, reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		ret.Kind, ret.Code, ret.InvoiceID, ret.OrderID, ret.ReturnDate,
		ret.Status, ret.TotalAmount, ret.TaxAmount, ret.TotalAfterTax, ret.Reason, ret.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert return: %w", err)
	}
	return id, nil
}

func (t *txRepository) InsertLine(ctx context.Context, returnID int64, line document.Line) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO return_lines (return_id, item_id, unit, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`,
		returnID, line.ItemID, line.Unit, line.Quantity, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert return line: %w", err)
	}
	return nil
}

func (t *txRepository) UpdateStatus(ctx context.Context, id int64, status document.Status, updates map[string]interface{}) error {
	sets := []string{"status = $1", "updated_at = NOW()"}
	args := []interface{}{status}
	if status == document.StatusApproved || status == document.StatusRejected {
		sets = append(sets, "approved_at = NOW()")
	}
	for col, val := range updates {
		args = append(args, val)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	args = append(args, id)

	tag, err := t.tx.Exec(ctx,
		`UPDATE returns SET `+strings.Join(sets, ", ")+` WHERE id = $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return fmt.Errorf("update return status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
