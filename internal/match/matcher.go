package match

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"compass/internal/persona"
	"compass/internal/signals"
	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
)

// derivedFetchTimeout bounds the account-aggregator round trips. Callers
// impose their own overall deadlines on top via ctx.
const derivedFetchTimeout = 5 * time.Second

// RegistrySource supplies the registry snapshot to evaluate against. The
// persona cache implements it; tests pass a static registry.
type RegistrySource interface {
	Current() *persona.Registry
}

// AccountAggregator resolves the window-independent derived signals from
// account and transaction history. Implementations return (nil, nil) when a
// user simply has no relevant accounts; an error means the underlying store
// was unreachable and the whole evaluation must fail.
type AccountAggregator interface {
	TransactionHistoryDays(ctx context.Context, userID domain.UserID, referenceDate time.Time) (*float64, error)
	CreditTotalLimits(ctx context.Context, userID domain.UserID) (*float64, error)
}

// Matcher evaluates every registered persona against a user's signals.
type Matcher struct {
	registry   RegistrySource
	aggregator AccountAggregator
	logger     *slog.Logger
}

// NewMatcher constructs a matcher with its dependencies.
func NewMatcher(registry RegistrySource, aggregator AccountAggregator, logger *slog.Logger) (*Matcher, error) {
	if registry == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "registry source is required")
	}
	if aggregator == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "account aggregator is required")
	}
	if logger == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "logger is required")
	}
	return &Matcher{registry: registry, aggregator: aggregator, logger: logger}, nil
}

// Evaluate produces one PersonaMatch per persona in registry order. Every
// condition is evaluated, even once the outcome is already decided, so the
// evidence map always reflects every referenced signal.
func (m *Matcher) Evaluate(ctx context.Context, userID domain.UserID, referenceDate time.Time, bundle signals.Bundle, window domain.TimeWindow) ([]PersonaMatch, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	derived, err := m.fetchDerived(ctx, userID, referenceDate)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "account aggregator unreachable")
	}

	reg := m.registry.Current()
	matches := make([]PersonaMatch, 0, reg.Len())
	for _, p := range reg.List() {
		matches = append(matches, m.evaluatePersona(ctx, p, bundle, derived, window))
	}
	return matches, nil
}

// fetchDerived resolves both derived signals in parallel. Absence is not an
// error; only an unreachable aggregator aborts.
func (m *Matcher) fetchDerived(ctx context.Context, userID domain.UserID, referenceDate time.Time) (signals.Derived, error) {
	ctx, cancel := context.WithTimeout(ctx, derivedFetchTimeout)
	defer cancel()

	var derived signals.Derived
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		days, err := m.aggregator.TransactionHistoryDays(ctx, userID, referenceDate)
		if err != nil {
			return err
		}
		derived.TransactionHistoryDays = days
		return nil
	})

	g.Go(func() error {
		limits, err := m.aggregator.CreditTotalLimits(ctx, userID)
		if err != nil {
			return err
		}
		derived.CreditTotalLimits = limits
		return nil
	})

	if err := g.Wait(); err != nil {
		return signals.Derived{}, err
	}
	return derived, nil
}

func (m *Matcher) evaluatePersona(ctx context.Context, p persona.Persona, bundle signals.Bundle, derived signals.Derived, window domain.TimeWindow) PersonaMatch {
	conditions := p.Criteria.Conditions
	evidence := make(Evidence, len(conditions))
	matchedDescriptions := make([]string, 0, len(conditions))
	results := make([]bool, 0, len(conditions))

	for _, c := range conditions {
		var value *float64
		if c.Signal.Windowed() {
			value = bundle.Resolve(c.Signal, window)
		} else {
			value = derived.Resolve(c.Signal)
		}
		evidence[c.Signal.String()] = value

		if value == nil {
			m.logger.DebugContext(ctx, "signal absent, condition treated as non-matching",
				"persona_id", p.ID,
				"signal", c.Signal,
				"time_window", window,
			)
		}

		ok := Compare(value, c.Operator, c.Threshold)
		if ok {
			matchedDescriptions = append(matchedDescriptions, c.Describe())
		}
		results = append(results, ok)
	}

	return PersonaMatch{
		PersonaID:         p.ID,
		Matched:           combine(p.Criteria.Operator, results),
		Evidence:          evidence,
		MatchedConditions: matchedDescriptions,
	}
}

func combine(op persona.LogicalOperator, results []bool) bool {
	if op == persona.LogicalOr {
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	}
	for _, r := range results {
		if !r {
			return false
		}
	}
	return len(results) > 0
}
