package http

import (
	"errors"
	"net/http"

	"github.com/mnemo-app/mnemo/internal/api/service"
	"github.com/mnemo-app/mnemo/pkg/httpx"
	"github.com/mnemo-app/mnemo/pkg/slogx"
)

// writeServiceError maps service-layer errors onto the response envelope.
// Every handler funnels its failures through here so the API surfaces one
// consistent shape per failure class.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fields service.ValidationError

	switch {
	case errors.As(err, &fields):
		httpx.WriteValidation(w, "The given data was invalid", fields)
	case errors.Is(err, service.ErrUnauthorized):
		httpx.Write(w, httpx.StatusUnauthorized, "Unauthenticated")
	case errors.Is(err, service.ErrForbidden):
		httpx.Write(w, httpx.StatusForbidden, "This action is unauthorized")
	case errors.Is(err, service.ErrNotFound):
		httpx.Write(w, httpx.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrTokenLimit):
		httpx.WriteRateLimited(w, "Token limit reached", service.TokenLimitRetryAfter)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteServerError(w, "Internal server error")
	}
}
