// Package persona owns the declarative rule set that classifies users:
// persona definitions, their threshold criteria, and the validated,
// immutable registry they load into.
package persona

import (
	"strconv"
	"strings"

	"compass/internal/signals"
	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
	platformstrings "compass/pkg/platform/strings"
)

// Operator is a single threshold comparison operator.
type Operator string

const (
	OpGTE Operator = ">="
	OpLTE Operator = "<="
	OpGT  Operator = ">"
	OpLT  Operator = "<"
	OpEQ  Operator = "=="
)

// ParseOperator validates a raw comparison operator from configuration.
func ParseOperator(s string) (Operator, error) {
	switch Operator(s) {
	case OpGTE, OpLTE, OpGT, OpLT, OpEQ:
		return Operator(s), nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "unknown comparison operator %q", s)
	}
}

// LogicalOperator combines the conditions of one persona's criteria.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// ParseLogicalOperator validates a raw logical operator from configuration.
func ParseLogicalOperator(s string) (LogicalOperator, error) {
	switch LogicalOperator(s) {
	case LogicalAnd, LogicalOr:
		return LogicalOperator(s), nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "criteria operator must be AND or OR, got %q", s)
	}
}

// Condition is one threshold comparison against a named signal. Window, when
// set, records the window annotation carried by the rule document; the
// evaluation window is always supplied by the caller.
type Condition struct {
	Signal    signals.Kind
	Operator  Operator
	Threshold float64
	Window    *domain.TimeWindow
}

// Describe renders the condition as a human-readable audit string, e.g.
// "credit_utilization_pct >= 50".
func (c Condition) Describe() string {
	return c.Signal.String() + " " + string(c.Operator) + " " + strconv.FormatFloat(c.Threshold, 'g', -1, 64)
}

// Criteria is a single flat level of conditions joined by AND or OR.
// Nesting is deliberately unsupported.
type Criteria struct {
	Operator   LogicalOperator
	Conditions []Condition
}

// ContentRecommendations names the content surfaced to users assigned this
// persona. PartnerOffers may be empty; Education may not.
type ContentRecommendations struct {
	Education     []string
	PartnerOffers []string
}

// Persona is one behavioral category users can be classified into.
// Priority is a positive integer; lower numbers win when several personas
// qualify at once.
type Persona struct {
	ID          string
	Name        string
	Description string
	Priority    int
	Criteria    Criteria
	FocusAreas  []string
	Content     ContentRecommendations
}

// validate enforces the per-persona invariants. Registry-level invariants
// (unique ids, unique priorities) live in NewRegistry.
func (p Persona) validate() error {
	if p.ID == "" {
		return domainerrors.New(domainerrors.CodeValidation, "persona id is required")
	}
	if p.ID != strings.ToLower(p.ID) || strings.ContainsAny(p.ID, " \t") {
		return domainerrors.Newf(domainerrors.CodeValidation, "persona %q: id must be lowercase with no spaces", p.ID)
	}
	if p.Name == "" {
		return domainerrors.Newf(domainerrors.CodeValidation, "persona %q: name is required", p.ID)
	}
	if p.Priority <= 0 {
		return domainerrors.Newf(domainerrors.CodeValidation, "persona %q: priority must be a positive integer, got %d", p.ID, p.Priority)
	}
	if len(platformstrings.DedupeAndTrim(p.FocusAreas)) == 0 {
		return domainerrors.Newf(domainerrors.CodeValidation, "persona %q: at least one focus area is required", p.ID)
	}
	if len(p.Criteria.Conditions) == 0 {
		return domainerrors.Newf(domainerrors.CodeValidation, "persona %q: criteria requires at least one condition", p.ID)
	}
	switch p.Criteria.Operator {
	case LogicalAnd, LogicalOr:
	default:
		return domainerrors.Newf(domainerrors.CodeValidation, "persona %q: criteria operator must be AND or OR", p.ID)
	}
	for _, c := range p.Criteria.Conditions {
		if c.Signal == "" {
			return domainerrors.Newf(domainerrors.CodeValidation, "persona %q: condition signal name is required", p.ID)
		}
	}
	return nil
}
