// Package assignment orchestrates persona classification end to end: it
// gathers signals, runs the matcher, prioritizes qualifying personas, and
// persists an immutable record of each decision.
package assignment

import (
	"time"

	"compass/internal/match"
	"compass/pkg/domain"
)

// PersonaUnclassified is the sentinel assigned when no persona qualifies.
// It is a normal, successful outcome, not an error.
const PersonaUnclassified = "unclassified"

// MatchEvidence summarizes one persona's evaluation for the audit trail.
type MatchEvidence struct {
	Matched    bool           `json:"matched"`
	Signals    match.Evidence `json:"signals"`
	Conditions []string       `json:"conditions,omitempty"`
}

// Assignment is one immutable classification decision. Multiple assignments
// may exist per (user, window); the one with the greatest AssignedAt is
// current.
type Assignment struct {
	ID                   domain.AssignmentID
	UserID               domain.UserID
	TimeWindow           domain.TimeWindow
	PersonaID            string
	Priority             *int
	QualifyingPersonaIDs []string
	Reason               string
	AssignedAt           time.Time
	// Evidence keys every persona evaluated (qualifying or not) to the raw
	// signal values and matched conditions behind its result.
	Evidence map[string]MatchEvidence
}

// Unclassified reports whether this assignment carries the sentinel outcome.
func (a Assignment) Unclassified() bool {
	return a.PersonaID == PersonaUnclassified
}

// BothWindows pairs the most recent assignment per window. A nil entry means
// no assignment exists for that window yet.
type BothWindows struct {
	Short *Assignment
	Long  *Assignment
}
