package assignment

import (
	"context"

	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = domainerrors.New(domainerrors.CodeNotFound, "assignment not found")

// Store persists assignments. History is append-only: Save inserts a new
// record and nothing ever updates or deletes a prior one.
type Store interface {
	Save(ctx context.Context, a Assignment) error
	// FindLatest returns the assignment with the greatest AssignedAt for the
	// (user, window) key, or ErrNotFound when none exists.
	FindLatest(ctx context.Context, userID domain.UserID, window domain.TimeWindow) (Assignment, error)
}
