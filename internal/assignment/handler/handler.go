// Package handler wires assignment endpoints to the assignment service.
// It stays thin: decode, validate, delegate, encode.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"compass/internal/assignment"
	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
	"compass/pkg/platform/httputil"
	"compass/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/assignment-mocks.go -package=mocks Service

// Service defines the interface for assignment operations.
type Service interface {
	Assign(ctx context.Context, userID domain.UserID, referenceDate time.Time, window domain.TimeWindow) (*assignment.Assignment, error)
	GetLatest(ctx context.Context, userID domain.UserID, window domain.TimeWindow) (*assignment.Assignment, error)
	GetLatestBothWindows(ctx context.Context, userID domain.UserID) (assignment.BothWindows, error)
}

// Handler exposes assignment operations over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an assignment handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts assignment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/users/{userID}/assignments", h.HandleAssign)
	r.Get("/v1/users/{userID}/assignments/latest", h.HandleGetLatest)
}

// HandleAssign handles POST /v1/users/{userID}/assignments.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, err := httputil.Decode[AssignRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(requestcontext.Now(ctx)); err != nil {
		httputil.WriteError(w, err)
		return
	}

	a, err := h.service.Assign(ctx, userID, req.ParsedReferenceDate(), req.ParsedWindow())
	if err != nil {
		h.logger.ErrorContext(ctx, "assignment failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"time_window", req.TimeWindow,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromAssignment(a))
}

// HandleGetLatest handles GET /v1/users/{userID}/assignments/latest.
// With a time_window query parameter it returns that window's latest
// assignment (404 when none); without one it returns both windows with null
// placeholders.
func (h *Handler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	raw := r.URL.Query().Get("time_window")
	if raw == "" {
		both, err := h.service.GetLatestBothWindows(ctx, userID)
		if err != nil {
			h.logger.ErrorContext(ctx, "latest assignment lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", userID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, BothWindowsResponse{
			Short: FromAssignment(both.Short),
			Long:  FromAssignment(both.Long),
		})
		return
	}

	window, err := domain.ParseTimeWindow(raw)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	a, err := h.service.GetLatest(ctx, userID, window)
	if err != nil {
		if !domainerrors.HasCode(err, domainerrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "latest assignment lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", userID,
				"time_window", raw,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAssignment(a))
}
