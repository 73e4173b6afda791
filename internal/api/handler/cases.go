package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/api/response"
	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/document"
	"github.com/justichain/justichain/internal/registry"
)

// CasesHandler handles case lifecycle endpoints.
type CasesHandler struct {
	cases *caseregistry.Service
	docs  *document.Service
}

// NewCasesHandler creates a new CasesHandler.
func NewCasesHandler(cases *caseregistry.Service, docs *document.Service) *CasesHandler {
	return &CasesHandler{cases: cases, docs: docs}
}

// caseIDParam parses the {caseID} URL parameter.
func caseIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "caseID"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// parseDigestField validates an optional digest field.
func parseDigestField(value, field string) (registry.Digest, *models.FieldError) {
	if value == "" {
		return registry.ZeroDigest, nil
	}
	d, err := registry.ParseDigest(value)
	if err != nil {
		return registry.ZeroDigest, &models.FieldError{
			Field:   field,
			Message: "must be a 0x-prefixed 32-byte hex digest",
			Code:    "invalid_digest",
		}
	}
	return d, nil
}

func toCaseResponse(c *caseregistry.Case) models.CaseResponse {
	return models.CaseResponse{
		CaseID:             c.ID,
		ContentHash:        string(c.ContentHash),
		DataClassification: string(c.ClassificationTag),
		CaseType:           string(c.CaseType),
		CaseTypeLabel:      c.CaseType.Label(),
		Status:             string(c.Status),
		StatusLabel:        c.Status.Label(),
		IsGDPRCase:         c.IsGDPRCase,
		RequiresEncryption: c.RequiresEncryption,
		FilingDate:         models.UnixTime(c.FilingDate),
		LastUpdated:        models.UnixTime(c.LastUpdated),
		LegalBasisHash:     string(c.LegalBasisHash),
	}
}

// Register handles POST /v1/cases.
func (h *CasesHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	var fieldErrors []models.FieldError
	contentHash, fe := parseDigestField(req.ContentHash, "contentHash")
	if fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	classification, fe := parseDigestField(req.DataClassification, "dataClassification")
	if fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	legalBasis, fe := parseDigestField(req.LegalBasisHash, "legalBasisHash")
	if fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	if req.RetentionDays < 1 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "retentionDays",
			Message: "must be at least 1",
			Code:    "out_of_range",
		})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	c, err := h.cases.Register(r.Context(), GetIdentity(r.Context()), caseregistry.RegisterInput{
		ContentHash:        contentHash,
		ClassificationTag:  classification,
		CaseType:           caseregistry.CaseType(req.CaseType),
		RequiresEncryption: req.RequiresEncryption,
		RetentionPeriod:    time.Duration(req.RetentionDays) * 24 * time.Hour,
		LegalBasisHash:     legalBasis,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/cases/"+strconv.FormatInt(c.ID, 10), toCaseResponse(c))
}

// List handles GET /v1/cases. Archived cases are excluded unless
// includeArchived=true.
func (h *CasesHandler) List(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("includeArchived") == "true"

	cases, err := h.cases.List(r.Context(), caseregistry.ListOptions{IncludeArchived: includeArchived})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	total, err := h.cases.Count(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	items := make([]models.CaseResponse, 0, len(cases))
	for _, c := range cases {
		items = append(items, toCaseResponse(c))
	}
	response.JSON(w, r, http.StatusOK, models.CaseListResponse{Items: items, Total: total})
}

// Count handles GET /v1/cases/count.
func (h *CasesHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.cases.Count(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.CaseCountResponse{Count: count})
}

// Get handles GET /v1/cases/{caseID} - the basic projection.
func (h *CasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid case id", nil)
		return
	}

	c, err := h.cases.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toCaseResponse(c))
}

// GetParties handles GET /v1/cases/{caseID}/parties - the restricted
// party-facing slice.
func (h *CasesHandler) GetParties(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid case id", nil)
		return
	}
	ctx := r.Context()

	docCount, err := h.docs.Count(ctx, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	details, err := h.cases.GetPartyDetails(ctx, GetIdentity(ctx), id, docCount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.CasePartyResponse{
		CaseID:          id,
		AssignedJudge:   string(details.AssignedJudge),
		NextHearingDate: models.UnixTime(details.NextHearingDate),
		TotalDocuments:  details.TotalDocuments,
		RetentionDays:   int64(details.RetentionPeriod / (24 * time.Hour)),
	})
}

// ExportROPA handles GET /v1/cases/{caseID}/ropa - the per-case
// compliance projection. Archived cases remain exportable.
func (h *CasesHandler) ExportROPA(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid case id", nil)
		return
	}

	export, err := h.cases.ExportForROPA(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.CaseExportResponse{
		CaseID:             export.CaseID,
		CaseHash:           string(export.CaseHash),
		DataClassification: string(export.ClassificationTag),
		CaseType:           string(export.CaseType),
		CaseTypeLabel:      export.CaseType.Label(),
		LegalBasisHash:     string(export.LegalBasisHash),
		RetentionDays:      int64(export.RetentionPeriod / (24 * time.Hour)),
		FilingDate:         models.UnixTime(export.FilingDate),
		IsGDPRCase:         export.IsGDPRCase,
	})
}

// AssignJudge handles POST /v1/cases/{caseID}/judge.
func (h *CasesHandler) AssignJudge(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid case id", nil)
		return
	}

	var req models.AssignJudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Judge == "" {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	c, err := h.cases.AssignJudge(r.Context(), GetIdentity(r.Context()), id, registry.Identity(req.Judge))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toCaseResponse(c))
}

// ScheduleHearing handles POST /v1/cases/{caseID}/hearing.
func (h *CasesHandler) ScheduleHearing(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid case id", nil)
		return
	}

	var req models.ScheduleHearingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HearingDate <= 0 {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	c, err := h.cases.ScheduleHearing(r.Context(), GetIdentity(r.Context()), id, time.Unix(req.HearingDate, 0))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toCaseResponse(c))
}

// UpdateStatus handles POST /v1/cases/{caseID}/status.
func (h *CasesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid case id", nil)
		return
	}

	var req models.UpdateCaseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	c, err := h.cases.UpdateStatus(r.Context(), GetIdentity(r.Context()), id, caseregistry.CaseStatus(req.Status))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toCaseResponse(c))
}
