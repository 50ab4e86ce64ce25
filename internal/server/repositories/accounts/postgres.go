package accounts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/workcredits/internal/dbx"
	"github.com/dmitrijs2005/workcredits/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertRole(ctx context.Context, principal, role string) error {
	query := `
		INSERT INTO principal_roles (principal, role, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (principal) DO UPDATE SET role = EXCLUDED.role, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, principal, role); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListRoles(ctx context.Context) ([]*models.RoleAssignment, error) {
	query := `
		SELECT principal, role, updated_at
		FROM principal_roles
		ORDER BY principal
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.RoleAssignment
	for rows.Next() {
		var a models.RoleAssignment
		if err := rows.Scan(&a.Principal, &a.Role, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, principal, name string) error {
	query := `
		INSERT INTO principal_profiles (principal, name, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (principal) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, principal, name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	query := `
		SELECT seq, principal, name, updated_at
		FROM principal_profiles
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.Seq, &p.Principal, &p.Name, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
