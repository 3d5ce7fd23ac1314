package persona

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	domainerrors "compass/pkg/domain-errors"
)

// =============================================================================
// Registry Construction Test Suite
// =============================================================================
// Justification for unit tests: registry validation is the gate that keeps
// every downstream component free of defensive checks. Each invariant needs
// to be provably enforced at construction time.

type RegistrySuite struct {
	suite.Suite
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func validPersona(id string, priority int) Persona {
	return Persona{
		ID:          id,
		Name:        "Persona " + id,
		Description: "test persona",
		Priority:    priority,
		Criteria: Criteria{
			Operator: LogicalAnd,
			Conditions: []Condition{
				{Signal: "credit_utilization_pct", Operator: OpGTE, Threshold: 50},
			},
		},
		FocusAreas: []string{"credit_health"},
	}
}

func (s *RegistrySuite) TestNewRegistry() {
	s.Run("empty persona list is rejected", func() {
		_, err := NewRegistry(nil, time.Now())
		s.Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
	})

	s.Run("duplicate id is rejected", func() {
		_, err := NewRegistry([]Persona{validPersona("dup", 1), validPersona("dup", 2)}, time.Now())
		s.Error(err)
		s.Contains(err.Error(), `duplicate persona id "dup"`)
	})

	s.Run("duplicate priority is rejected", func() {
		_, err := NewRegistry([]Persona{validPersona("a", 3), validPersona("b", 3)}, time.Now())
		s.Error(err)
		s.Contains(err.Error(), "share priority 3")
	})

	s.Run("non-positive priority is rejected", func() {
		p := validPersona("a", 0)
		_, err := NewRegistry([]Persona{p}, time.Now())
		s.Error(err)
		s.Contains(err.Error(), "priority must be a positive integer")
	})

	s.Run("uppercase id is rejected", func() {
		p := validPersona("Uppercase", 1)
		_, err := NewRegistry([]Persona{p}, time.Now())
		s.Error(err)
		s.Contains(err.Error(), "lowercase")
	})

	s.Run("id with spaces is rejected", func() {
		p := validPersona("has space", 1)
		_, err := NewRegistry([]Persona{p}, time.Now())
		s.Error(err)
	})

	s.Run("empty conditions are rejected", func() {
		p := validPersona("a", 1)
		p.Criteria.Conditions = nil
		_, err := NewRegistry([]Persona{p}, time.Now())
		s.Error(err)
		s.Contains(err.Error(), "at least one condition")
	})

	s.Run("empty focus areas are rejected", func() {
		p := validPersona("a", 1)
		p.FocusAreas = []string{"  ", ""}
		_, err := NewRegistry([]Persona{p}, time.Now())
		s.Error(err)
		s.Contains(err.Error(), "focus area")
	})

	s.Run("valid rule set builds an immutable registry", func() {
		loadedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
		reg, err := NewRegistry([]Persona{
			validPersona("b", 2),
			validPersona("a", 1),
			validPersona("c", 3),
		}, loadedAt)
		s.Require().NoError(err)
		s.Equal(3, reg.Len())
		s.Equal(loadedAt, reg.LoadedAt())
	})
}

func (s *RegistrySuite) TestLookups() {
	reg, err := NewRegistry([]Persona{
		validPersona("gamma", 5),
		validPersona("alpha", 1),
		validPersona("beta", 3),
	}, time.Now())
	s.Require().NoError(err)

	s.Run("GetByID finds existing personas", func() {
		p, ok := reg.GetByID("beta")
		s.True(ok)
		s.Equal(3, p.Priority)
	})

	s.Run("GetByID reports absence", func() {
		_, ok := reg.GetByID("missing")
		s.False(ok)
	})

	s.Run("ListByPriority sorts ascending", func() {
		personas := reg.ListByPriority()
		s.Require().Len(personas, 3)
		s.Equal("alpha", personas[0].ID)
		s.Equal("beta", personas[1].ID)
		s.Equal("gamma", personas[2].ID)
	})

	s.Run("ListIDs preserves load order", func() {
		s.Equal([]string{"gamma", "alpha", "beta"}, reg.ListIDs())
	})

	s.Run("returned slices are copies", func() {
		personas := reg.ListByPriority()
		personas[0].ID = "mutated"
		fresh := reg.ListByPriority()
		s.Equal("alpha", fresh[0].ID)
	})
}

// TestPriorityUniqueness covers the testable property that a valid registry
// holds unique positive priorities and non-empty criteria and focus areas.
func (s *RegistrySuite) TestPriorityUniqueness() {
	reg, err := NewRegistry([]Persona{
		validPersona("a", 1),
		validPersona("b", 2),
		validPersona("c", 4),
	}, time.Now())
	s.Require().NoError(err)

	seen := map[int]bool{}
	for _, p := range reg.ListByPriority() {
		s.Positive(p.Priority)
		s.False(seen[p.Priority], "priority %d duplicated", p.Priority)
		seen[p.Priority] = true
		s.NotEmpty(p.FocusAreas)
		s.NotEmpty(p.Criteria.Conditions)
	}
}
