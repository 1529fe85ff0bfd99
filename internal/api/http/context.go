package http

import (
	"context"

	"github.com/mnemo-app/mnemo/internal/api/domain"
)

type ctxKey string

const ctxKeyAuth ctxKey = "auth"

func contextWithAuth(ctx context.Context, auth domain.AuthContext) context.Context {
	return context.WithValue(ctx, ctxKeyAuth, auth)
}

// AuthFromContext returns the authenticated caller, or a zero AuthContext if
// the request never passed through AuthnMiddleware.
func AuthFromContext(ctx context.Context) domain.AuthContext {
	if v, ok := ctx.Value(ctxKeyAuth).(domain.AuthContext); ok {
		return v
	}
	return domain.AuthContext{}
}
