package caseregistry

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justichain/justichain/internal/registry"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL case repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const caseColumns = `
	id, content_hash, classification_tag, case_type, status,
	is_gdpr_case, requires_encryption, filing_date, last_updated,
	assigned_judge, next_hearing_date, retention_seconds, legal_basis_hash
`

// Create stores a new case with the next sequential id. The subselect
// keeps the id sequence dense even across rolled-back inserts.
func (r *PostgresRepository) Create(ctx context.Context, c *Case) (int64, error) {
	query := `
		INSERT INTO cases (
			id, content_hash, classification_tag, case_type, status,
			is_gdpr_case, requires_encryption, filing_date, last_updated,
			assigned_judge, next_hearing_date, retention_seconds, legal_basis_hash
		)
		VALUES (
			(SELECT COALESCE(MAX(id), 0) + 1 FROM cases),
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		string(c.ContentHash),
		string(c.ClassificationTag),
		string(c.CaseType),
		string(c.Status),
		c.IsGDPRCase,
		c.RequiresEncryption,
		c.FilingDate,
		c.LastUpdated,
		nullableIdentity(c.AssignedJudge),
		nullableTime(c.NextHearingDate),
		int64(c.RetentionPeriod/time.Second),
		string(c.LegalBasisHash),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Get retrieves a case by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`

	c, err := scanCase(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return c, nil
}

// Exists reports whether a case id is assigned.
func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Count returns the number of registered cases.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM cases`).Scan(&count)
	return count, err
}

// List returns cases in id order.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) ([]*Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	if !opts.IncludeArchived {
		query += ` WHERE status <> 'ARCHIVED'`
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// Update replaces a stored case if its status matches expectedStatus.
func (r *PostgresRepository) Update(ctx context.Context, c *Case, expectedStatus CaseStatus) error {
	query := `
		UPDATE cases SET
			status = $2,
			last_updated = $3,
			assigned_judge = $4,
			next_hearing_date = $5
		WHERE id = $1 AND status = $6
	`

	result, err := r.pool.Exec(ctx, query,
		c.ID,
		string(c.Status),
		c.LastUpdated,
		nullableIdentity(c.AssignedJudge),
		nullableTime(c.NextHearingDate),
		string(expectedStatus),
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		exists, existsErr := r.Exists(ctx, c.ID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return ErrCaseNotFound
		}
		return ErrStaleCase
	}
	return nil
}

// scanCase scans a case row.
func scanCase(row pgx.Row) (*Case, error) {
	var c Case
	var contentHash, classificationTag, caseType, status, legalBasisHash string
	var assignedJudge *string
	var nextHearing *time.Time
	var retentionSeconds int64

	err := row.Scan(
		&c.ID,
		&contentHash,
		&classificationTag,
		&caseType,
		&status,
		&c.IsGDPRCase,
		&c.RequiresEncryption,
		&c.FilingDate,
		&c.LastUpdated,
		&assignedJudge,
		&nextHearing,
		&retentionSeconds,
		&legalBasisHash,
	)
	if err != nil {
		return nil, err
	}

	c.ContentHash = registry.Digest(contentHash)
	c.ClassificationTag = registry.Digest(classificationTag)
	c.CaseType = CaseType(caseType)
	c.Status = CaseStatus(status)
	c.LegalBasisHash = registry.Digest(legalBasisHash)
	c.RetentionPeriod = time.Duration(retentionSeconds) * time.Second
	if assignedJudge != nil {
		c.AssignedJudge = registry.Identity(*assignedJudge)
	}
	if nextHearing != nil {
		c.NextHearingDate = *nextHearing
	}
	return &c, nil
}

func nullableIdentity(id registry.Identity) *string {
	if id.IsZero() {
		return nil
	}
	s := string(id)
	return &s
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
