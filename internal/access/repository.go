package access

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

// ============================================================================
// ROLES
// ============================================================================

func (r *repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description,
			&role.IsActive, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *repository) GetRole(ctx context.Context, id int64) (*Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.Description, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

func (r *repository) CreateRole(ctx context.Context, role Role) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, description, is_active) VALUES ($1, $2, $3) RETURNING id`,
		role.Name, role.Description, role.IsActive).Scan(&id)
	if err != nil {
		if shared.DuplicateKey(err) {
			return 0, shared.ErrDuplicate
		}
		return 0, fmt.Errorf("insert role: %w", err)
	}
	return id, nil
}

func (r *repository) UpdateRole(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.updateByID(ctx, "roles", id, updates, ErrRoleNotFound)
}

func (r *repository) DeleteRole(ctx context.Context, id int64) error {
	return r.deleteSubject(ctx, "roles", RoleSubject(id), ErrRoleNotFound)
}

// ============================================================================
// GROUPS
// ============================================================================

func (r *repository) ListGroups(ctx context.Context) ([]Group, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM user_groups ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description,
			&g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *repository) GetGroup(ctx context.Context, id int64) (*Group, error) {
	var g Group
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM user_groups WHERE id = $1`, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &g, nil
}

func (r *repository) CreateGroup(ctx context.Context, group Group) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_groups (name, description, is_active) VALUES ($1, $2, $3) RETURNING id`,
		group.Name, group.Description, group.IsActive).Scan(&id)
	if err != nil {
		if shared.DuplicateKey(err) {
			return 0, shared.ErrDuplicate
		}
		return 0, fmt.Errorf("insert group: %w", err)
	}
	return id, nil
}

func (r *repository) UpdateGroup(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.updateByID(ctx, "user_groups", id, updates, ErrGroupNotFound)
}

func (r *repository) DeleteGroup(ctx context.Context, id int64) error {
	return r.deleteSubject(ctx, "user_groups", GroupSubject(id), ErrGroupNotFound)
}

// ============================================================================
// MODULES AND GRANTS
// ============================================================================

func (r *repository) ListModules(ctx context.Context) ([]Module, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name FROM modules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var modules []Module
	for rows.Next() {
		var mod Module
		if err := rows.Scan(&mod.ID, &mod.Code, &mod.Name); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, mod)
	}
	return modules, rows.Err()
}

func (r *repository) ListGrants(ctx context.Context, sub Subject) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT token FROM permission_grants
		WHERE subject_kind = $1 AND subject_id = $2
		ORDER BY token`, sub.Kind, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (r *repository) ReplaceGrants(ctx context.Context, sub Subject, tokens []string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM permission_grants WHERE subject_kind = $1 AND subject_id = $2`,
			sub.Kind, sub.ID); err != nil {
			return fmt.Errorf("clear grants: %w", err)
		}
		for _, token := range tokens {
			if _, err := tx.Exec(ctx, `
				INSERT INTO permission_grants (subject_kind, subject_id, token)
				VALUES ($1, $2, $3)`, sub.Kind, sub.ID, token); err != nil {
				return fmt.Errorf("insert grant: %w", err)
			}
		}
		return nil
	})
}

// ============================================================================
// HELPERS
// ============================================================================

func (r *repository) updateByID(ctx context.Context, table string, id int64, updates map[string]interface{}, notFound error) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	for col, val := range updates {
		args = append(args, val)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	args = append(args, id)

	tag, err := r.pool.Exec(ctx,
		`UPDATE `+table+` SET `+strings.Join(sets, ", ")+` WHERE id = $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

// deleteSubject removes the row and its grants in one transaction.
func (r *repository) deleteSubject(ctx context.Context, table string, sub Subject, notFound error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM permission_grants WHERE subject_kind = $1 AND subject_id = $2`,
			sub.Kind, sub.ID); err != nil {
			return fmt.Errorf("delete grants: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, sub.ID)
		if err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
		if tag.RowsAffected() == 0 {
			return notFound
		}
		return nil
	})
}
