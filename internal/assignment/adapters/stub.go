package adapters

import (
	"context"
	"time"

	"compass/internal/signals"
	"compass/pkg/domain"
)

// StubSummarySource returns a fixed bundle with a configurable latency to
// mimic real-world calls. Used for local wiring when no collaborator URL is
// configured, and in tests.
type StubSummarySource struct {
	Latency time.Duration
	Bundle  signals.Bundle
}

// DefaultStubBundle is a plausible mid-range user: moderate utilization,
// thin savings, steady income.
func DefaultStubBundle() signals.Bundle {
	return signals.Bundle{
		Windows: map[domain.TimeWindow]signals.WindowMetrics{
			domain.TimeWindowShort: {
				SubscriptionSharePct: signals.Float(8.2),
				CreditUtilizationPct: signals.Float(42.0),
				SavingsMonths:        signals.Float(1.5),
				PayGapDays:           signals.Float(31.0),
				IncomeTxCount:        signals.Float(3),
			},
			domain.TimeWindowLong: {
				SubscriptionSharePct: signals.Float(7.4),
				CreditUtilizationPct: signals.Float(38.5),
				SavingsMonths:        signals.Float(1.8),
				PayGapDays:           signals.Float(30.0),
				IncomeTxCount:        signals.Float(12),
			},
		},
	}
}

func (s StubSummarySource) FetchBundle(ctx context.Context, _ domain.UserID, _ time.Time) (signals.Bundle, error) {
	if s.Latency > 0 {
		select {
		case <-ctx.Done():
			return signals.Bundle{}, ctx.Err()
		case <-time.After(s.Latency):
		}
	}
	if s.Bundle.Windows == nil {
		return DefaultStubBundle(), nil
	}
	return s.Bundle, nil
}

// StubAggregator serves fixed derived signals. Nil fields model users with
// no relevant accounts.
type StubAggregator struct {
	HistoryDays *float64
	TotalLimits *float64
}

func (s StubAggregator) TransactionHistoryDays(_ context.Context, _ domain.UserID, _ time.Time) (*float64, error) {
	return s.HistoryDays, nil
}

func (s StubAggregator) CreditTotalLimits(_ context.Context, _ domain.UserID) (*float64, error) {
	return s.TotalLimits, nil
}
