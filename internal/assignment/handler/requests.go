package handler

import (
	"strings"
	"time"

	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
)

// AssignRequest is the HTTP request body for POST /v1/users/{userID}/assignments.
type AssignRequest struct {
	TimeWindow    string `json:"time_window"`
	ReferenceDate string `json:"reference_date,omitempty"`

	// Parsed values (populated by Validate)
	parsedWindow        domain.TimeWindow
	parsedReferenceDate time.Time
}

// Validate validates and parses the request. An omitted reference_date
// defaults to today; time_window is never defaulted.
func (r *AssignRequest) Validate(now time.Time) error {
	if r == nil {
		return domainerrors.New(domainerrors.CodeBadRequest, "request body is required")
	}

	r.TimeWindow = strings.TrimSpace(r.TimeWindow)
	if r.TimeWindow == "" {
		return domainerrors.New(domainerrors.CodeValidation, "time_window is required")
	}
	window, err := domain.ParseTimeWindow(r.TimeWindow)
	if err != nil {
		return err
	}
	r.parsedWindow = window

	r.ReferenceDate = strings.TrimSpace(r.ReferenceDate)
	if r.ReferenceDate == "" {
		r.parsedReferenceDate = now
		return nil
	}
	refDate, err := time.Parse("2006-01-02", r.ReferenceDate)
	if err != nil {
		return domainerrors.New(domainerrors.CodeValidation, "reference_date must be formatted YYYY-MM-DD")
	}
	r.parsedReferenceDate = refDate
	return nil
}

// ParsedWindow returns the validated time window.
func (r *AssignRequest) ParsedWindow() domain.TimeWindow { return r.parsedWindow }

// ParsedReferenceDate returns the validated reference date.
func (r *AssignRequest) ParsedReferenceDate() time.Time { return r.parsedReferenceDate }
