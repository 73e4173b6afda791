package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/api/response"
	"github.com/justichain/justichain/internal/dsr"
	"github.com/justichain/justichain/internal/registry"
)

// RequestsHandler handles data-subject request endpoints.
type RequestsHandler struct {
	requests *dsr.Service
	clock    registry.Clock
}

// NewRequestsHandler creates a new RequestsHandler.
func NewRequestsHandler(requests *dsr.Service, clock registry.Clock) *RequestsHandler {
	return &RequestsHandler{requests: requests, clock: clock}
}

func requestIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "requestID"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func toRequestResponse(req *dsr.Request, now time.Time) models.DataSubjectRequestResponse {
	resp := models.DataSubjectRequestResponse{
		RequestID:          req.ID,
		CaseID:             req.CaseID,
		Requester:          string(req.Requester),
		RequestType:        string(req.RequestType),
		RequestTypeLabel:   req.RequestType.Label(),
		Status:             string(req.Status),
		StatusLabel:        req.Status.Label(),
		RequestDate:        models.UnixTime(req.RequestDate),
		ResponseDeadline:   models.UnixTime(req.ResponseDeadline),
		RequestDetailsHash: string(req.RequestDetailsHash),
		Overdue:            req.Overdue(now),
	}
	if !req.ResponseHash.IsZero() {
		resp.ResponseHash = string(req.ResponseHash)
	}
	return resp
}

func (h *RequestsHandler) listResponse(reqs []*dsr.Request) models.DataSubjectRequestListResponse {
	now := h.clock.Now()
	items := make([]models.DataSubjectRequestResponse, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, toRequestResponse(req, now))
	}
	return models.DataSubjectRequestListResponse{Items: items}
}

// Create handles POST /v1/requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDataSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if req.CaseID < 1 {
		response.BadRequest(w, r, "caseId is required", nil)
		return
	}

	detailsHash, fe := parseDigestField(req.RequestDetailsHash, "requestDetailsHash")
	if fe != nil {
		response.BadRequest(w, r, "validation failed", []models.FieldError{*fe})
		return
	}

	created, err := h.requests.Create(r.Context(), GetIdentity(r.Context()), dsr.CreateInput{
		CaseID:             req.CaseID,
		RequestType:        dsr.RequestType(req.RequestType),
		RequestDetailsHash: detailsHash,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	location := "/v1/requests/" + strconv.FormatInt(created.ID, 10)
	response.Created(w, r, location, toRequestResponse(created, h.clock.Now()))
}

// Get handles GET /v1/requests/{requestID}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requestIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid request id", nil)
		return
	}

	req, err := h.requests.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toRequestResponse(req, h.clock.Now()))
}

// Process handles POST /v1/requests/{requestID}/process.
func (h *RequestsHandler) Process(w http.ResponseWriter, r *http.Request) {
	id, ok := requestIDParam(r)
	if !ok {
		response.BadRequest(w, r, "invalid request id", nil)
		return
	}

	var req models.ProcessDataSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	responseHash, fe := parseDigestField(req.ResponseHash, "responseHash")
	if fe != nil {
		response.BadRequest(w, r, "validation failed", []models.FieldError{*fe})
		return
	}

	processed, err := h.requests.Process(r.Context(), GetIdentity(r.Context()), id, dsr.RequestStatus(req.Status), responseHash)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toRequestResponse(processed, h.clock.Now()))
}

// ListPending handles GET /v1/requests/pending.
func (h *RequestsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.requests.ListPending(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, h.listResponse(reqs))
}

// ListMine handles GET /v1/requests/mine.
func (h *RequestsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.requests.ListByRequester(r.Context(), GetIdentity(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, h.listResponse(reqs))
}

// ListOverdue handles GET /v1/requests/overdue.
func (h *RequestsHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.requests.Overdue(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, h.listResponse(reqs))
}
