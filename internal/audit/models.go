// Package audit captures structured audit events emitted by domain logic.
// Events are transport-agnostic so stores and sinks can fan out.
package audit

import (
	"time"

	"compass/pkg/domain"
)

// Action names what happened. Keep values stable: downstream consumers key
// retention and alerting off them.
type Action string

const (
	ActionAssignmentCreated Action = "assignment_created"
	ActionPersonasReloaded  Action = "personas_reloaded"
)

// Event is one audit trail entry.
type Event struct {
	Timestamp  time.Time
	Action     Action
	UserID     domain.UserID
	TimeWindow domain.TimeWindow
	PersonaID  string
	Reason     string
	RequestID  string
}
