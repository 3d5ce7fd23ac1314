package assignment

import (
	"context"
	"time"

	"compass/internal/audit"
	"compass/internal/match"
	"compass/internal/persona"
	"compass/internal/signals"
	"compass/pkg/domain"
)

// SummarySource is the behavioral-summary collaborator: given a user and
// reference date it returns the windowed signal bundle. Failures here are
// fatal to the assignment run; retry policy belongs to the caller.
type SummarySource interface {
	FetchBundle(ctx context.Context, userID domain.UserID, referenceDate time.Time) (signals.Bundle, error)
}

// Matcher evaluates every registered persona against a signal bundle.
// *match.Matcher is the production implementation.
type Matcher interface {
	Evaluate(ctx context.Context, userID domain.UserID, referenceDate time.Time, bundle signals.Bundle, window domain.TimeWindow) ([]match.PersonaMatch, error)
}

// RegistrySource supplies the registry snapshot used for priority lookups.
type RegistrySource interface {
	Current() *persona.Registry
}

// AuditPublisher records assignment decisions on the audit trail. Audit
// delivery failure never fails an already-persisted assignment.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
