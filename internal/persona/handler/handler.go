// Package handler exposes the persona registry over HTTP: read-only listing
// and an explicit reload of the rule file.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"compass/internal/audit"
	"compass/internal/persona"
	"compass/pkg/platform/httputil"
	"compass/pkg/requestcontext"
)

// Handler wires registry endpoints to the persona cache.
type Handler struct {
	cache   *persona.Cache
	auditor *audit.Publisher
	logger  *slog.Logger
}

func New(cache *persona.Cache, auditor *audit.Publisher, logger *slog.Logger) *Handler {
	return &Handler{cache: cache, auditor: auditor, logger: logger}
}

// Register mounts persona endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/personas", h.HandleList)
	r.Post("/v1/admin/personas/reload", h.HandleReload)
}

// HandleList handles GET /v1/personas, returning the rule set sorted by
// priority.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reg := h.cache.Current()
	httputil.WriteJSON(w, http.StatusOK, FromRegistry(reg))
}

// HandleReload handles POST /v1/admin/personas/reload. On validation failure
// the previous rule set keeps serving and the error is returned to the
// operator.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reg, err := h.cache.Reload(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.auditor.Emit(ctx, audit.Event{
		Action: audit.ActionPersonasReloaded,
		Reason: "operator-initiated reload",
	}); err != nil {
		h.logger.ErrorContext(ctx, "audit emit failed for registry reload",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}

	httputil.WriteJSON(w, http.StatusOK, FromRegistry(reg))
}
