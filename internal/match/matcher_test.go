package match

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"compass/internal/persona"
	"compass/internal/signals"
	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
)

// =============================================================================
// Matcher Test Suite
// =============================================================================
// Justification for unit tests: criteria combination, null-signal handling,
// and evidence completeness are the behavioral heart of classification and
// need coverage independent of any transport or store.

type staticRegistry struct{ reg *persona.Registry }

func (s staticRegistry) Current() *persona.Registry { return s.reg }

type fakeAggregator struct {
	historyDays *float64
	totalLimits *float64
	err         error
}

func (f fakeAggregator) TransactionHistoryDays(context.Context, domain.UserID, time.Time) (*float64, error) {
	return f.historyDays, f.err
}

func (f fakeAggregator) CreditTotalLimits(context.Context, domain.UserID) (*float64, error) {
	return f.totalLimits, f.err
}

type MatcherSuite struct {
	suite.Suite
	ctx    context.Context
	logger *slog.Logger
	userID domain.UserID
	ref    time.Time
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherSuite))
}

func (s *MatcherSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.userID = domain.UserID(uuid.New())
	s.ref = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
}

func (s *MatcherSuite) registry(personas ...persona.Persona) staticRegistry {
	reg, err := persona.NewRegistry(personas, time.Now())
	s.Require().NoError(err)
	return staticRegistry{reg: reg}
}

func (s *MatcherSuite) matcher(reg staticRegistry, agg fakeAggregator) *Matcher {
	m, err := NewMatcher(reg, agg, s.logger)
	s.Require().NoError(err)
	return m
}

func testPersona(id string, priority int, op persona.LogicalOperator, conds ...persona.Condition) persona.Persona {
	return persona.Persona{
		ID:         id,
		Name:       id,
		Priority:   priority,
		Criteria:   persona.Criteria{Operator: op, Conditions: conds},
		FocusAreas: []string{"x"},
	}
}

func bundle(short signals.WindowMetrics) signals.Bundle {
	return signals.Bundle{Windows: map[domain.TimeWindow]signals.WindowMetrics{
		domain.TimeWindowShort: short,
	}}
}

func (s *MatcherSuite) TestEvaluateValidation() {
	m := s.matcher(s.registry(testPersona("a", 1, persona.LogicalAnd,
		persona.Condition{Signal: signals.KindSavingsMonths, Operator: persona.OpLT, Threshold: 3},
	)), fakeAggregator{})

	s.Run("unrecognized window is a validation error", func() {
		_, err := m.Evaluate(s.ctx, s.userID, s.ref, signals.Bundle{}, domain.TimeWindow("7d"))
		s.Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
	})
}

func (s *MatcherSuite) TestCriteriaCombination() {
	s.Run("OR matches when one condition is true and another signal is null", func() {
		m := s.matcher(s.registry(testPersona("irregular", 1, persona.LogicalOr,
			persona.Condition{Signal: signals.KindPayGapDays, Operator: persona.OpGT, Threshold: 45},
			persona.Condition{Signal: signals.KindIncomeTxCount, Operator: persona.OpLT, Threshold: 2},
		)), fakeAggregator{})

		matches, err := m.Evaluate(s.ctx, s.userID, s.ref,
			bundle(signals.WindowMetrics{PayGapDays: signals.Float(60)}),
			domain.TimeWindowShort)
		s.Require().NoError(err)
		s.Require().Len(matches, 1)
		s.True(matches[0].Matched)
	})

	s.Run("AND fails when any referenced signal is null", func() {
		m := s.matcher(s.registry(testPersona("healthy", 1, persona.LogicalAnd,
			persona.Condition{Signal: signals.KindCreditUtilizationPct, Operator: persona.OpLT, Threshold: 30},
			persona.Condition{Signal: signals.KindSavingsMonths, Operator: persona.OpGTE, Threshold: 3},
		)), fakeAggregator{})

		matches, err := m.Evaluate(s.ctx, s.userID, s.ref,
			bundle(signals.WindowMetrics{CreditUtilizationPct: signals.Float(10)}),
			domain.TimeWindowShort)
		s.Require().NoError(err)
		s.Require().Len(matches, 1)
		s.False(matches[0].Matched)
	})
}

func (s *MatcherSuite) TestEvidence() {
	m := s.matcher(s.registry(testPersona("irregular", 1, persona.LogicalOr,
		persona.Condition{Signal: signals.KindPayGapDays, Operator: persona.OpGT, Threshold: 45},
		persona.Condition{Signal: signals.KindIncomeTxCount, Operator: persona.OpLT, Threshold: 2},
	)), fakeAggregator{})

	matches, err := m.Evaluate(s.ctx, s.userID, s.ref,
		bundle(signals.WindowMetrics{PayGapDays: signals.Float(60)}),
		domain.TimeWindowShort)
	s.Require().NoError(err)
	match := matches[0]

	s.Run("every condition's signal is recorded, nulls included", func() {
		s.Require().Len(match.Evidence, 2)
		s.Require().Contains(match.Evidence, "pay_gap_days")
		s.Require().Contains(match.Evidence, "income_tx_count")
		s.Equal(60.0, *match.Evidence["pay_gap_days"])
		s.Nil(match.Evidence["income_tx_count"])
	})

	s.Run("only true conditions are described", func() {
		s.Equal([]string{"pay_gap_days > 45"}, match.MatchedConditions)
	})
}

func (s *MatcherSuite) TestDerivedSignals() {
	newToCredit := testPersona("new_to_credit", 1, persona.LogicalOr,
		persona.Condition{Signal: signals.KindTransactionHistoryDays, Operator: persona.OpLT, Threshold: 180},
		persona.Condition{Signal: signals.KindCreditTotalLimits, Operator: persona.OpEQ, Threshold: 0},
	)

	s.Run("derived values come from the aggregator", func() {
		m := s.matcher(s.registry(newToCredit), fakeAggregator{
			historyDays: signals.Float(90),
			totalLimits: signals.Float(5000),
		})
		matches, err := m.Evaluate(s.ctx, s.userID, s.ref, signals.Bundle{}, domain.TimeWindowLong)
		s.Require().NoError(err)
		s.True(matches[0].Matched)
		s.Equal(90.0, *matches[0].Evidence["transaction_history_days"])
	})

	s.Run("aggregator absence is a null signal, not an error", func() {
		m := s.matcher(s.registry(newToCredit), fakeAggregator{})
		matches, err := m.Evaluate(s.ctx, s.userID, s.ref, signals.Bundle{}, domain.TimeWindowLong)
		s.Require().NoError(err)
		s.False(matches[0].Matched)
		s.Nil(matches[0].Evidence["transaction_history_days"])
		s.Nil(matches[0].Evidence["credit_total_limits"])
	})

	s.Run("unreachable aggregator fails the evaluation", func() {
		m := s.matcher(s.registry(newToCredit), fakeAggregator{
			err: domainerrors.New(domainerrors.CodeUnavailable, "connection refused"),
		})
		_, err := m.Evaluate(s.ctx, s.userID, s.ref, signals.Bundle{}, domain.TimeWindowLong)
		s.Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeUnavailable))
	})
}

func (s *MatcherSuite) TestRegistryOrder() {
	reg := s.registry(
		testPersona("second", 2, persona.LogicalAnd,
			persona.Condition{Signal: signals.KindSavingsMonths, Operator: persona.OpLT, Threshold: 3}),
		testPersona("first", 1, persona.LogicalAnd,
			persona.Condition{Signal: signals.KindSavingsMonths, Operator: persona.OpLT, Threshold: 3}),
	)
	m := s.matcher(reg, fakeAggregator{})

	matches, err := m.Evaluate(s.ctx, s.userID, s.ref,
		bundle(signals.WindowMetrics{SavingsMonths: signals.Float(1)}),
		domain.TimeWindowShort)
	s.Require().NoError(err)

	// One result per persona, in registry load order.
	s.Require().Len(matches, 2)
	s.Equal("second", matches[0].PersonaID)
	s.Equal("first", matches[1].PersonaID)
}
