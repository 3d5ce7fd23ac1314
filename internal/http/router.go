// Package httpapi assembles the HTTP surface. It mounts feature handlers
// and operational endpoints; business logic stays in the feature packages.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"compass/pkg/platform/httputil"
	"compass/pkg/platform/middleware/metadata"
)

// Registrar is anything that can mount routes, letting main wire feature
// handlers without this package importing them all.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports subsystem health for /healthz.
type HealthChecker func() error

// NewRouter builds the service router with request metadata middleware,
// operational endpoints, and all feature handlers mounted.
func NewRouter(health HealthChecker, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(metadata.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}

	return r
}
