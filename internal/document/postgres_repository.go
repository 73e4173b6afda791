package document

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

// NewPostgresRepository creates a new PostgreSQL document repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a new document. The subselect keeps doc ids dense and
// sequential within the owning case.
func (r *PostgresRepository) Create(ctx context.Context, d *Document) (int64, error) {
	query := `
		INSERT INTO case_documents (
			case_id, doc_id, content_hash, document_type_hash,
			encryption_key_ref, is_encrypted, submitted_by, submitted_at
		)
		VALUES (
			$1,
			(SELECT COALESCE(MAX(doc_id), 0) + 1 FROM case_documents WHERE case_id = $1),
			$2, $3, $4, $5, $6, $7
		)
		RETURNING doc_id
	`

	var docID int64
	err := r.pool.QueryRow(ctx, query,
		d.CaseID,
		string(d.ContentHash),
		string(d.DocumentTypeHash),
		string(d.EncryptionKeyRef),
		d.IsEncrypted,
		string(d.SubmittedBy),
		d.SubmittedAt,
	).Scan(&docID)
	if err != nil {
		return 0, err
	}
	return docID, nil
}

// Get retrieves a document by case id and doc id.
func (r *PostgresRepository) Get(ctx context.Context, caseID, docID int64) (*Document, error) {
	query := `
		SELECT case_id, doc_id, content_hash, document_type_hash,
		       encryption_key_ref, is_encrypted, submitted_by, submitted_at
		FROM case_documents
		WHERE case_id = $1 AND doc_id = $2
	`

	d, err := scanDocument(r.pool.QueryRow(ctx, query, caseID, docID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return d, nil
}

// CountByCase returns the number of documents under a case.
func (r *PostgresRepository) CountByCase(ctx context.Context, caseID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(doc_id), 0) FROM case_documents WHERE case_id = $1`,
		caseID,
	).Scan(&count)
	return count, err
}

// ListByCase returns a case's documents in doc id order.
func (r *PostgresRepository) ListByCase(ctx context.Context, caseID int64) ([]*Document, error) {
	query := `
		SELECT case_id, doc_id, content_hash, document_type_hash,
		       encryption_key_ref, is_encrypted, submitted_by, submitted_at
		FROM case_documents
		WHERE case_id = $1
		ORDER BY doc_id
	`

	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	var contentHash, typeHash, keyRef, submittedBy string

	err := row.Scan(
		&d.CaseID,
		&d.DocID,
		&contentHash,
		&typeHash,
		&keyRef,
		&d.IsEncrypted,
		&submittedBy,
		&d.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	d.ContentHash = registry.Digest(contentHash)
	d.DocumentTypeHash = registry.Digest(typeHash)
	d.EncryptionKeyRef = registry.Digest(keyRef)
	d.SubmittedBy = registry.Identity(submittedBy)
	return &d, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
