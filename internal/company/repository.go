package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// The profile is a singleton row with id 1.
func (r *repository) Get(ctx context.Context) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, address, city, phone, email, tax_id, updated_at
		FROM company_profile WHERE id = 1`).
		Scan(&p.ID, &p.Name, &p.Address, &p.City, &p.Phone, &p.Email, &p.TaxID, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company profile: %w", err)
	}
	return &p, nil
}

func (r *repository) Upsert(ctx context.Context, p Profile) (*Profile, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO company_profile (id, name, address, city, phone, email, tax_id, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address, city = EXCLUDED.city,
			phone = EXCLUDED.phone, email = EXCLUDED.email, tax_id = EXCLUDED.tax_id,
			updated_at = NOW()`,
		p.Name, p.Address, p.City, p.Phone, p.Email, p.TaxID)
	if err != nil {
		return nil, fmt.Errorf("upsert company profile: %w", err)
	}
	return r.Get(ctx)
}
