package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/api/response"
	"github.com/justichain/justichain/internal/keyledger"
	"github.com/justichain/justichain/internal/registry"
)

// KeysHandler handles the encryption-key revocation ledger.
type KeysHandler struct {
	keys *keyledger.Service
}

// NewKeysHandler creates a new KeysHandler.
func NewKeysHandler(keys *keyledger.Service) *KeysHandler {
	return &KeysHandler{keys: keys}
}

// Revoke handles POST /v1/keys/revoke. Revocation is idempotent; a
// second call for the same key succeeds without changing the record.
func (h *KeysHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req models.RevokeKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if req.CaseID < 1 {
		response.BadRequest(w, r, "caseId is required", nil)
		return
	}

	keyRef, err := registry.ParseDigest(req.KeyRef)
	if err != nil {
		response.BadRequest(w, r, "validation failed", []models.FieldError{{
			Field:   "keyRef",
			Message: "must be a 0x-prefixed 32-byte hex digest",
			Code:    "invalid_digest",
		}})
		return
	}

	if err := h.keys.Revoke(r.Context(), GetIdentity(r.Context()), req.CaseID, keyRef); err != nil {
		writeDomainError(w, r, err)
		return
	}

	h.writeStatus(w, r, keyRef)
}

// Status handles GET /v1/keys/{keyRef}.
func (h *KeysHandler) Status(w http.ResponseWriter, r *http.Request) {
	keyRef, err := registry.ParseDigest(chi.URLParam(r, "keyRef"))
	if err != nil {
		response.BadRequest(w, r, "invalid key reference", nil)
		return
	}
	h.writeStatus(w, r, keyRef)
}

func (h *KeysHandler) writeStatus(w http.ResponseWriter, r *http.Request, keyRef registry.Digest) {
	rev, err := h.keys.Get(r.Context(), keyRef)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := models.KeyStatusResponse{KeyRef: string(keyRef)}
	if rev != nil {
		resp.Revoked = true
		resp.RevokedBy = string(rev.RevokedBy)
		resp.RevokedAt = models.UnixTime(rev.RevokedAt)
	}
	response.JSON(w, r, http.StatusOK, resp)
}
