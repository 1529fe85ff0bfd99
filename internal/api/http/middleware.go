package http

import (
	"net/http"
	"strings"

	"github.com/mnemo-app/mnemo/internal/api/domain"
	"github.com/mnemo-app/mnemo/internal/api/service"
	"github.com/mnemo-app/mnemo/pkg/httpx"
)

// extractCredential pulls the token secret from the request. The Authorization
// header wins; X-API-Key is the fallback for clients that cannot set bearer
// headers.
func extractCredential(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if strings.HasPrefix(authz, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// AuthnMiddleware authenticates the request's token credential and injects the
// resulting AuthContext. All failures produce the same 401 envelope; callers
// cannot distinguish a missing header from an expired or revoked token.
func AuthnMiddleware(tokens *service.TokenService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, err := tokens.Authenticate(r.Context(), extractCredential(r))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithAuth(r.Context(), auth)))
		})
	}
}

// RequireAbility gates a route on a token ability. Must run after
// AuthnMiddleware.
func RequireAbility(required domain.Ability) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := AuthFromContext(r.Context())
			if !auth.Authenticated() {
				writeServiceError(w, r, service.ErrUnauthorized)
				return
			}
			if !auth.Can(required) {
				writeServiceError(w, r, service.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
