package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/service"
	"github.com/mnemo-app/mnemo/pkg/httpx"
	"github.com/mnemo-app/mnemo/pkg/slogx"
)

type TokensHandler struct {
	TokenService *service.TokenService
}

type createTokenRequest struct {
	Name      string     `json:"name"`
	Abilities []string   `json:"abilities"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (h *TokensHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	var req createTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteValidation(w, "The given data was invalid", map[string]string{
			"body": "request body must be valid JSON",
		})
		return
	}

	issued, err := h.TokenService.Create(r.Context(), auth.User.ID, req.Name, req.Abilities, req.ExpiresAt)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, httpx.StatusCreated, "Token created", renderIssuedToken(issued))
}

func (h *TokensHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	tokens, err := h.TokenService.List(r.Context(), auth.User.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]tokenResponse, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, renderToken(t))
	}
	httpx.WriteData(w, httpx.StatusSuccess, "Tokens retrieved", out)
}

func (h *TokensHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeServiceError(w, r, service.ErrNotFound)
		return
	}

	if err := h.TokenService.Delete(r.Context(), auth.User.ID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.Write(w, httpx.StatusDeleted, "Token revoked")
}

// HandlePurgeExpired sweeps expired tokens for every user. Admin only.
func (h *TokensHandler) HandlePurgeExpired(w http.ResponseWriter, r *http.Request) {
	purged, err := h.TokenService.CleanupExpired(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("expired tokens purged", "count", purged)
	httpx.WriteData(w, httpx.StatusDeleted, "Expired tokens purged", map[string]int64{
		"purged": purged,
	})
}
