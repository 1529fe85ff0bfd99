package http

import (
	"net/http"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/store"
	"github.com/mnemo-app/mnemo/pkg/httpx"
)

// ReadyzHandler verifies the critical dependencies are reachable. A failed
// database ping degrades the response to 503.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
