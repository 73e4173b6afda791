package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/api/response"
	"github.com/justichain/justichain/internal/document"
)

// DocumentsHandler handles document submission and reads.
type DocumentsHandler struct {
	docs *document.Service
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(docs *document.Service) *DocumentsHandler {
	return &DocumentsHandler{docs: docs}
}

func docIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "docID"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func toDocumentResponse(v *document.View) models.DocumentResponse {
	resp := models.DocumentResponse{
		CaseID:           v.CaseID,
		DocID:            v.DocID,
		ContentHash:      string(v.ContentHash),
		DocumentTypeHash: string(v.DocumentTypeHash),
		IsEncrypted:      v.IsEncrypted,
		SubmittedBy:      string(v.SubmittedBy),
		SubmissionDate:   models.UnixTime(v.SubmittedAt),
		Accessible:       v.Accessible,
	}
	if !v.EncryptionKeyRef.IsZero() {
		resp.EncryptionKeyRef = string(v.EncryptionKeyRef)
	}
	return resp
}

// Submit handles POST /v1/cases/{caseID}/documents.
func (h *DocumentsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid case id", nil)
		return
	}

	var req models.SubmitDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	var fieldErrors []models.FieldError
	contentHash, fe := parseDigestField(req.ContentHash, "contentHash")
	if fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	typeHash, fe := parseDigestField(req.DocumentTypeHash, "documentTypeHash")
	if fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	keyRef, fe := parseDigestField(req.EncryptionKeyRef, "encryptionKeyRef")
	if fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	d, err := h.docs.Submit(r.Context(), GetIdentity(r.Context()), document.SubmitInput{
		CaseID:           caseID,
		ContentHash:      contentHash,
		DocumentTypeHash: typeHash,
		EncryptionKeyRef: keyRef,
		IsEncrypted:      req.IsEncrypted,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	location := "/v1/cases/" + strconv.FormatInt(caseID, 10) + "/documents/" + strconv.FormatInt(d.DocID, 10)
	response.Created(w, r, location, toDocumentResponse(&document.View{Document: *d, Accessible: true}))
}

// Get handles GET /v1/cases/{caseID}/documents/{docID}.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid case id", nil)
		return
	}
	docID, ok := docIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid document id", nil)
		return
	}

	v, err := h.docs.Get(r.Context(), GetIdentity(r.Context()), caseID, docID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toDocumentResponse(v))
}

// List handles GET /v1/cases/{caseID}/documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid case id", nil)
		return
	}

	views, err := h.docs.ListByCase(r.Context(), GetIdentity(r.Context()), caseID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	items := make([]models.DocumentResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toDocumentResponse(v))
	}
	response.JSON(w, r, http.StatusOK, models.DocumentListResponse{Items: items})
}
