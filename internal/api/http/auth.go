package http

import (
	"encoding/json"
	"net/http"

	"github.com/mnemo-app/mnemo/internal/api/service"
	"github.com/mnemo-app/mnemo/pkg/httpx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteValidation(w, "The given data was invalid", map[string]string{
			"body": "request body must be valid JSON",
		})
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, httpx.StatusCreated, "Account created", renderUser(user))
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteValidation(w, "The given data was invalid", map[string]string{
			"body": "request body must be valid JSON",
		})
		return
	}

	issued, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, httpx.StatusSuccess, "Logged in", renderIssuedToken(issued))
}
