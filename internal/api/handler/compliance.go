package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/api/response"
	"github.com/justichain/justichain/internal/compliance"
	"github.com/justichain/justichain/internal/registry"
)

// ComplianceHandler handles GDPR reporting endpoints.
type ComplianceHandler struct {
	compliance *compliance.Service
	clock      registry.Clock
}

// NewComplianceHandler creates a new ComplianceHandler.
func NewComplianceHandler(svc *compliance.Service, clock registry.Clock) *ComplianceHandler {
	return &ComplianceHandler{compliance: svc, clock: clock}
}

// ROPAReport handles GET /v1/compliance/ropa.
func (h *ComplianceHandler) ROPAReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.compliance.GenerateROPA(r.Context(), GetIdentity(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, report)
}

// AccessReport handles POST /v1/compliance/access-report.
func (h *ComplianceHandler) AccessReport(w http.ResponseWriter, r *http.Request) {
	var req models.AccessReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if req.CaseID < 1 {
		response.BadRequest(w, r, "caseId is required", nil)
		return
	}
	if req.DataSubject == "" {
		response.BadRequest(w, r, "dataSubject is required", nil)
		return
	}

	report, err := h.compliance.GenerateAccessReport(r.Context(), GetIdentity(r.Context()), req.CaseID, registry.Identity(req.DataSubject))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, report)
}

// DPIATemplate handles GET /v1/compliance/dpia-template. The blank
// questionnaire is stamped with the requesting identity and the
// current date.
func (h *ComplianceHandler) DPIATemplate(w http.ResponseWriter, r *http.Request) {
	assessor := string(GetIdentity(r.Context()))
	date := h.clock.Now().UTC().Format(time.DateOnly)
	response.JSON(w, r, http.StatusOK, compliance.NewDPIATemplate(assessor, date))
}
