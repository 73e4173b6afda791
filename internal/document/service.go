package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/featureflags"
	"github.com/justichain/justichain/internal/keyledger"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

// CaseRegistry answers case lookups for submission and access checks.
type CaseRegistry interface {
	Get(ctx context.Context, id int64) (*caseregistry.Case, error)
}

// BlobChecker verifies blob availability at the content-addressed
// gateway. Failures are advisory and never block submission.
type BlobChecker interface {
	Exists(ctx context.Context, digest registry.Digest) (bool, error)
}

// ServiceConfig holds configuration for the document service.
type ServiceConfig struct {
	Repository Repository
	Cases      CaseRegistry
	Keys       *keyledger.Service
	Roles      *rbac.Service
	Logger     zerolog.Logger
	Clock      registry.Clock

	// Blobs is optional; when set, submissions check the gateway for
	// the content blob and log a warning if it is missing.
	Blobs BlobChecker

	// Flags is optional; used to skip the blob check operationally.
	Flags *featureflags.Service
}

// Service provides document submission and gated reads.
type Service struct {
	repo   Repository
	cases  CaseRegistry
	keys   *keyledger.Service
	roles  *rbac.Service
	blobs  BlobChecker
	flags  *featureflags.Service
	logger zerolog.Logger
	clock  registry.Clock
}

// NewService creates a new document service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		cases:  cfg.Cases,
		keys:   cfg.Keys,
		roles:  cfg.Roles,
		blobs:  cfg.Blobs,
		flags:  cfg.Flags,
		logger: cfg.Logger,
		clock:  cfg.Clock,
	}
}

// SubmitInput holds the fields for a new document.
type SubmitInput struct {
	CaseID           int64
	ContentHash      registry.Digest
	DocumentTypeHash registry.Digest
	EncryptionKeyRef registry.Digest
	IsEncrypted      bool
}

// Submit stores a new document under a case. The case must exist and
// not be Archived. The key reference is stored only for encrypted
// documents.
func (s *Service) Submit(ctx context.Context, actor registry.Identity, input SubmitInput) (*Document, error) {
	if actor.IsZero() {
		return nil, registry.ErrUnauthorized
	}
	if input.ContentHash.IsZero() {
		return nil, fmt.Errorf("%w: content hash required", registry.ErrInvalidDigest)
	}
	if input.IsEncrypted && input.EncryptionKeyRef.IsZero() {
		return nil, fmt.Errorf("%w: encrypted document requires a key reference", registry.ErrInvalidDigest)
	}

	c, err := s.cases.Get(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}
	if c.Status == caseregistry.StatusArchived {
		return nil, fmt.Errorf("%w: case %d is archived", registry.ErrInvalidTransition, input.CaseID)
	}

	s.verifyBlob(ctx, input.ContentHash)

	keyRef := input.EncryptionKeyRef
	if !input.IsEncrypted {
		keyRef = registry.ZeroDigest
	}

	d := &Document{
		CaseID:           input.CaseID,
		ContentHash:      input.ContentHash,
		DocumentTypeHash: input.DocumentTypeHash,
		EncryptionKeyRef: keyRef,
		IsEncrypted:      input.IsEncrypted,
		SubmittedBy:      actor,
		SubmittedAt:      s.clock.Now(),
	}

	docID, err := s.repo.Create(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	d.DocID = docID

	s.logger.Info().
		Int64("case_id", d.CaseID).
		Int64("doc_id", docID).
		Bool("encrypted", d.IsEncrypted).
		Str("actor", string(actor)).
		Msg("document submitted")

	return d, nil
}

// Get retrieves a document with its derived readability. Read access
// requires the actor to be an Admin, the case's assigned judge, a DPO,
// or the original submitter.
func (s *Service) Get(ctx context.Context, actor registry.Identity, caseID, docID int64) (*View, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}

	d, err := s.repo.Get(ctx, caseID, docID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, registry.ErrNotFound
		}
		return nil, err
	}

	allowed, err := s.canRead(ctx, actor, c, d)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, registry.ErrUnauthorized
	}

	accessible := true
	if d.IsEncrypted {
		revoked, err := s.keys.IsRevoked(ctx, d.EncryptionKeyRef)
		if err != nil {
			return nil, fmt.Errorf("checking key revocation: %w", err)
		}
		accessible = !revoked
	}

	return &View{Document: *d, Accessible: accessible}, nil
}

// Count returns the number of documents under a case.
func (s *Service) Count(ctx context.Context, caseID int64) (int64, error) {
	return s.repo.CountByCase(ctx, caseID)
}

// ListByCase returns a case's documents in doc id order, with the same
// access gate as Get.
func (s *Service) ListByCase(ctx context.Context, actor registry.Identity, caseID int64) ([]*View, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canRead(ctx, actor, c, nil)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, registry.ErrUnauthorized
	}

	docs, err := s.repo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(docs))
	for _, d := range docs {
		accessible := true
		if d.IsEncrypted {
			revoked, err := s.keys.IsRevoked(ctx, d.EncryptionKeyRef)
			if err != nil {
				return nil, fmt.Errorf("checking key revocation: %w", err)
			}
			accessible = !revoked
		}
		views = append(views, &View{Document: *d, Accessible: accessible})
	}
	return views, nil
}

// canRead reports whether the actor may read documents of the case.
// The submitter check only applies when a specific document is given.
func (s *Service) canRead(ctx context.Context, actor registry.Identity, c *caseregistry.Case, d *Document) (bool, error) {
	if actor.IsZero() {
		return false, nil
	}
	if actor == c.AssignedJudge {
		return true, nil
	}
	if d != nil && actor == d.SubmittedBy {
		return true, nil
	}

	isAdmin, err := s.roles.HasRole(ctx, actor, rbac.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("checking admin role: %w", err)
	}
	if isAdmin {
		return true, nil
	}

	isDPO, err := s.roles.HasRole(ctx, actor, rbac.RoleDPO)
	if err != nil {
		return false, fmt.Errorf("checking dpo role: %w", err)
	}
	return isDPO, nil
}

// verifyBlob performs the advisory gateway check. Missing blobs and
// gateway errors are logged, never returned.
func (s *Service) verifyBlob(ctx context.Context, contentHash registry.Digest) {
	if s.blobs == nil {
		return
	}
	if s.flags != nil && s.flags.IsBlobVerificationDisabled(ctx) {
		return
	}

	found, err := s.blobs.Exists(ctx, contentHash)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("content_hash", string(contentHash)).
			Msg("blob gateway check failed")
		return
	}
	if !found {
		s.logger.Warn().
			Str("content_hash", string(contentHash)).
			Msg("blob not present at gateway")
	}
}
