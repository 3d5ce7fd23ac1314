// Package domain holds identifier and enum types shared by every feature
// package. Typed IDs prevent cross-type assignment at compile time.
package domain

import (
	"github.com/google/uuid"

	domainerrors "compass/pkg/domain-errors"
)

// UserID identifies the user being classified.
type UserID uuid.UUID

// AssignmentID identifies a single persisted persona assignment.
type AssignmentID uuid.UUID

// ParseUserID parses a UUID string into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, domainerrors.New(domainerrors.CodeValidation, "user_id must be a valid UUID")
	}
	return UserID(u), nil
}

// ParseAssignmentID parses a UUID string into an AssignmentID.
func ParseAssignmentID(s string) (AssignmentID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return AssignmentID{}, domainerrors.New(domainerrors.CodeValidation, "assignment_id must be a valid UUID")
	}
	return AssignmentID(u), nil
}

// NewAssignmentID generates a fresh random AssignmentID.
func NewAssignmentID() AssignmentID {
	return AssignmentID(uuid.New())
}

func (id UserID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText and UnmarshalText keep typed IDs rendering as canonical UUID
// strings in JSON payloads and cache entries.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id AssignmentID) String() string { return uuid.UUID(id).String() }

func (id AssignmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id AssignmentID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *AssignmentID) UnmarshalText(text []byte) error {
	parsed, err := ParseAssignmentID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
