package rbac

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justichain/justichain/internal/registry"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL role repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// HasRole reports whether the identity holds the role.
func (r *PostgresRepository) HasRole(ctx context.Context, identity registry.Identity, role Role) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM role_assignments
			WHERE identity = $1 AND role = $2
		)
	`

	var held bool
	if err := r.pool.QueryRow(ctx, query, string(identity), string(role)).Scan(&held); err != nil {
		return false, err
	}
	return held, nil
}

// Grant records a role assignment. Re-granting a held role is a no-op.
func (r *PostgresRepository) Grant(ctx context.Context, assignment *Assignment) error {
	if !assignment.Role.Valid() {
		return ErrUnknownRole
	}

	query := `
		INSERT INTO role_assignments (identity, role, granted_by, granted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity, role) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		string(assignment.Identity),
		string(assignment.Role),
		string(assignment.GrantedBy),
		assignment.GrantedAt,
	)
	return err
}

// ListRoles returns all roles held by the identity.
func (r *PostgresRepository) ListRoles(ctx context.Context, identity registry.Identity) ([]Role, error) {
	query := `
		SELECT role FROM role_assignments
		WHERE identity = $1
		ORDER BY role
	`

	rows, err := r.pool.Query(ctx, query, string(identity))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, Role(role))
	}
	return roles, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
