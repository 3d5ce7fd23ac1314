package handler

import (
	"time"

	"compass/internal/assignment"
)

// AssignmentResponse is the wire shape of one assignment.
type AssignmentResponse struct {
	ID                   string                      `json:"id"`
	UserID               string                      `json:"user_id"`
	TimeWindow           string                      `json:"time_window"`
	PersonaID            string                      `json:"persona_id"`
	Priority             *int                        `json:"priority"`
	QualifyingPersonaIDs []string                    `json:"qualifying_persona_ids"`
	Reason               string                      `json:"reason"`
	AssignedAt           time.Time                   `json:"assigned_at"`
	Evidence             map[string]EvidenceResponse `json:"evidence"`
}

// EvidenceResponse is one persona's evaluation evidence.
type EvidenceResponse struct {
	Matched    bool                `json:"matched"`
	Signals    map[string]*float64 `json:"signals"`
	Conditions []string            `json:"conditions,omitempty"`
}

// BothWindowsResponse pairs the latest assignment per window; null entries
// mean the user has never been assigned in that window.
type BothWindowsResponse struct {
	Short *AssignmentResponse `json:"short"`
	Long  *AssignmentResponse `json:"long"`
}

// FromAssignment converts a domain assignment to its HTTP shape.
func FromAssignment(a *assignment.Assignment) *AssignmentResponse {
	if a == nil {
		return nil
	}
	evidence := make(map[string]EvidenceResponse, len(a.Evidence))
	for personaID, e := range a.Evidence {
		evidence[personaID] = EvidenceResponse{
			Matched:    e.Matched,
			Signals:    e.Signals,
			Conditions: e.Conditions,
		}
	}
	return &AssignmentResponse{
		ID:                   a.ID.String(),
		UserID:               a.UserID.String(),
		TimeWindow:           a.TimeWindow.String(),
		PersonaID:            a.PersonaID,
		Priority:             a.Priority,
		QualifyingPersonaIDs: a.QualifyingPersonaIDs,
		Reason:               a.Reason,
		AssignedAt:           a.AssignedAt,
		Evidence:             evidence,
	}
}
