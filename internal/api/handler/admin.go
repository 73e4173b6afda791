package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/api/response"
	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/featureflags"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

// AdminHandler handles role administration and operational toggles.
// Flag mutation is not role-gated in the services, so the handler
// checks Admin itself.
type AdminHandler struct {
	roles *rbac.Service
	flags *featureflags.Service
	cases *caseregistry.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(roles *rbac.Service, flags *featureflags.Service, cases *caseregistry.Service) *AdminHandler {
	return &AdminHandler{roles: roles, flags: flags, cases: cases}
}

func (h *AdminHandler) requireAdmin(r *http.Request) error {
	isAdmin, err := h.roles.HasRole(r.Context(), GetIdentity(r.Context()), rbac.RoleAdmin)
	if err != nil {
		return fmt.Errorf("checking admin role: %w", err)
	}
	if !isAdmin {
		return registry.ErrUnauthorized
	}
	return nil
}

// GrantRole handles POST /v1/admin/roles.
func (h *AdminHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	var req models.GrantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	err := h.roles.GrantRole(r.Context(), GetIdentity(r.Context()), rbac.Role(req.Role), registry.Identity(req.Identity))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	h.writeRoles(w, r, registry.Identity(req.Identity))
}

// ListRoles handles GET /v1/admin/roles/{identity}.
func (h *AdminHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	identity := registry.Identity(chi.URLParam(r, "identity"))
	if identity.IsZero() {
		response.BadRequest(w, r, "identity is required", nil)
		return
	}
	if err := h.requireAdmin(r); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeRoles(w, r, identity)
}

func (h *AdminHandler) writeRoles(w http.ResponseWriter, r *http.Request, identity registry.Identity) {
	roles, err := h.roles.ListRoles(r.Context(), identity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	response.JSON(w, r, http.StatusOK, models.RolesResponse{
		Identity: string(identity),
		Roles:    names,
	})
}

// Pause handles POST /v1/admin/pause. While paused, all mutating
// endpoints return 503; this endpoint itself stays reachable so the
// registry can be unpaused.
func (h *AdminHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true)
}

// Unpause handles POST /v1/admin/unpause.
func (h *AdminHandler) Unpause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false)
}

func (h *AdminHandler) setPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	if err := h.requireAdmin(r); err != nil {
		writeDomainError(w, r, err)
		return
	}

	flag := &featureflags.Flag{Key: featureflags.FlagRegistryPaused, Value: paused}
	if err := h.flags.SetFlag(r.Context(), flag); err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, flag)
}

// GetFlags handles GET /v1/admin/flags.
func (h *AdminHandler) GetFlags(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		writeDomainError(w, r, err)
		return
	}

	all := h.flags.GetAllFlags(r.Context())
	list := featureflags.FlagList{Items: make([]featureflags.Flag, 0, len(all))}
	for _, flag := range all {
		list.Items = append(list.Items, *flag)
	}
	response.JSON(w, r, http.StatusOK, list)
}

// UpdateFlags handles PUT /v1/admin/flags.
func (h *AdminHandler) UpdateFlags(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req featureflags.FlagUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if len(req.Updates) == 0 {
		response.BadRequest(w, r, "no updates provided", nil)
		return
	}

	flags := make([]*featureflags.Flag, 0, len(req.Updates))
	for _, update := range req.Updates {
		if update.Key == "" {
			response.BadRequest(w, r, "flag key is required", nil)
			return
		}
		flags = append(flags, &featureflags.Flag{Key: update.Key, Value: update.Value})
	}

	if err := h.flags.SetFlags(r.Context(), flags); err != nil {
		writeDomainError(w, r, err)
		return
	}

	list := featureflags.FlagList{Items: make([]featureflags.Flag, 0, len(flags))}
	for _, flag := range flags {
		list.Items = append(list.Items, *flag)
	}
	response.JSON(w, r, http.StatusOK, list)
}

// Sweep handles POST /v1/admin/sweep - a manually triggered archival
// sweep. The case service enforces the Admin gate.
func (h *AdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.cases.ArchiveExpired(r.Context(), GetIdentity(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.SweepResponse{
		Scanned:  result.Scanned,
		Archived: result.Archived,
		Failed:   result.Failed,
	})
}
