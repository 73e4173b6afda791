package keyledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justichain/justichain/internal/registry"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL revocation repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// IsRevoked reports whether the key reference has been revoked.
func (r *PostgresRepository) IsRevoked(ctx context.Context, keyRef registry.Digest) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM key_revocations WHERE key_ref = $1)`

	var revoked bool
	if err := r.pool.QueryRow(ctx, query, string(keyRef)).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

// Revoke appends a revocation. The ON CONFLICT clause preserves the
// original record on repeat revocations.
func (r *PostgresRepository) Revoke(ctx context.Context, revocation *Revocation) error {
	query := `
		INSERT INTO key_revocations (key_ref, case_id, revoked_by, revoked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key_ref) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		string(revocation.KeyRef),
		revocation.CaseID,
		string(revocation.RevokedBy),
		revocation.RevokedAt,
	)
	return err
}

// Get returns the revocation record, or nil if not revoked.
func (r *PostgresRepository) Get(ctx context.Context, keyRef registry.Digest) (*Revocation, error) {
	query := `
		SELECT key_ref, case_id, revoked_by, revoked_at
		FROM key_revocations
		WHERE key_ref = $1
	`

	var rev Revocation
	var keyRefStr, revokedBy string
	err := r.pool.QueryRow(ctx, query, string(keyRef)).Scan(
		&keyRefStr,
		&rev.CaseID,
		&revokedBy,
		&rev.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rev.KeyRef = registry.Digest(keyRefStr)
	rev.RevokedBy = registry.Identity(revokedBy)
	return &rev, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
