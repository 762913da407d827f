package terms

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samudra-erp/samudra-erp/internal/shared"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the postgres-backed payment term repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]PaymentTerm, int, error) {
	query := `SELECT id, name, days, description, is_active, created_at, updated_at FROM payment_terms WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM payment_terms WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if req.IsActive != nil {
		argCount++
		clause := ` AND is_active = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.IsActive)
	}
	if req.Search != "" {
		argCount++
		clause := ` AND name ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, "%"+req.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payment terms: %w", err)
	}

	query += ` ORDER BY days ASC, name ASC`
	limit := shared.ClampLimit(req.Limit)
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, limit)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payment terms: %w", err)
	}
	defer rows.Close()

	var result []PaymentTerm
	for rows.Next() {
		var t PaymentTerm
		if err := rows.Scan(&t.ID, &t.Name, &t.Days, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, t)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*PaymentTerm, error) {
	var t PaymentTerm
	err := r.pool.QueryRow(ctx, `SELECT id, name, days, description, is_active, created_at, updated_at
FROM payment_terms WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Days, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payment term: %w", err)
	}
	return &t, nil
}

func (r *repository) Create(ctx context.Context, term PaymentTerm) (*PaymentTerm, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO payment_terms (name, days, description, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id`,
		term.Name, term.Days, term.Description, term.IsActive).Scan(&id)
	if err != nil {
		if shared.DuplicateKey(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, fmt.Errorf("create payment term: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
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
	query := `UPDATE payment_terms SET ` + setClause + `, updated_at = NOW() WHERE id = $` + strconv.Itoa(argCount)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update payment term: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payment_terms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment term: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
