package dsr

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

// NewPostgresRepository creates a new PostgreSQL request repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const requestColumns = `
	id, case_id, requester, request_type, status,
	request_date, response_deadline, request_details_hash, response_hash
`

// Create stores a new request with the next sequential id.
func (r *PostgresRepository) Create(ctx context.Context, req *Request) (int64, error) {
	query := `
		INSERT INTO data_subject_requests (
			id, case_id, requester, request_type, status,
			request_date, response_deadline, request_details_hash, response_hash
		)
		VALUES (
			(SELECT COALESCE(MAX(id), 0) + 1 FROM data_subject_requests),
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		req.CaseID,
		string(req.Requester),
		string(req.RequestType),
		string(req.Status),
		req.RequestDate,
		req.ResponseDeadline,
		string(req.RequestDetailsHash),
		string(req.ResponseHash),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Get retrieves a request by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM data_subject_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// Resolve applies the single Pending transition. The status guard in
// the WHERE clause makes the transition indivisible.
func (r *PostgresRepository) Resolve(ctx context.Context, req *Request) error {
	query := `
		UPDATE data_subject_requests
		SET status = $2, response_hash = $3
		WHERE id = $1 AND status = 'PENDING'
	`

	result, err := r.pool.Exec(ctx, query,
		req.ID,
		string(req.Status),
		string(req.ResponseHash),
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM data_subject_requests WHERE id = $1)`, req.ID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrRequestNotFound
		}
		return ErrStaleRequest
	}
	return nil
}

// ListPending returns pending requests in creation order.
func (r *PostgresRepository) ListPending(ctx context.Context) ([]*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM data_subject_requests WHERE status = 'PENDING' ORDER BY id`
	return r.list(ctx, query)
}

// ListByRequester returns the identity's requests in creation order.
func (r *PostgresRepository) ListByRequester(ctx context.Context, requester registry.Identity) ([]*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM data_subject_requests WHERE requester = $1 ORDER BY id`
	return r.list(ctx, query, string(requester))
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	var requester, requestType, status, detailsHash, responseHash string

	err := row.Scan(
		&req.ID,
		&req.CaseID,
		&requester,
		&requestType,
		&status,
		&req.RequestDate,
		&req.ResponseDeadline,
		&detailsHash,
		&responseHash,
	)
	if err != nil {
		return nil, err
	}

	req.Requester = registry.Identity(requester)
	req.RequestType = RequestType(requestType)
	req.Status = RequestStatus(status)
	req.RequestDetailsHash = registry.Digest(detailsHash)
	req.ResponseHash = registry.Digest(responseHash)
	return &req, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
