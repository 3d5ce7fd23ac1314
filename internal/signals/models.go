// Package signals defines the fixed vocabulary of behavioral signals that
// persona rules can reference, and the per-user bundle those signals arrive
// in. Signal resolution is an explicit (kind, window) lookup; there is no
// name mangling between windowed and window-independent signals.
package signals

import (
	"compass/pkg/domain"
)

// Kind names a behavioral signal. The set is closed: rule configuration is
// validated against it at load time.
type Kind string

const (
	// Windowed signals, computed per observation window by the
	// behavioral-summary collaborator.
	KindSubscriptionSharePct Kind = "subscription_share_pct"
	KindCreditUtilizationPct Kind = "credit_utilization_pct"
	KindSavingsMonths        Kind = "savings_months"
	KindPayGapDays           Kind = "pay_gap_days"
	KindIncomeTxCount        Kind = "income_tx_count"

	// Derived signals, computed from full account/transaction history by the
	// account aggregator. They carry no window dimension.
	KindTransactionHistoryDays Kind = "transaction_history_days"
	KindCreditTotalLimits      Kind = "credit_total_limits"
)

// ParseKind maps a raw signal name from rule configuration to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindSubscriptionSharePct, KindCreditUtilizationPct, KindSavingsMonths,
		KindPayGapDays, KindIncomeTxCount,
		KindTransactionHistoryDays, KindCreditTotalLimits:
		return Kind(s), true
	default:
		return "", false
	}
}

// Windowed reports whether the signal is scoped to a time window.
func (k Kind) Windowed() bool {
	switch k {
	case KindTransactionHistoryDays, KindCreditTotalLimits:
		return false
	default:
		return true
	}
}

func (k Kind) String() string { return string(k) }

// WindowMetrics holds one window's worth of behavioral summary values.
// Every field is nullable: a collaborator that cannot compute a metric
// reports nil, and downstream rule conditions treat nil as non-matching.
type WindowMetrics struct {
	SubscriptionSharePct *float64
	CreditUtilizationPct *float64
	SavingsMonths        *float64
	PayGapDays           *float64
	IncomeTxCount        *float64
}

// Bundle is a user's windowed signal values, one WindowMetrics per window.
type Bundle struct {
	Windows map[domain.TimeWindow]WindowMetrics
}

// Resolve returns the raw value for a windowed signal in the given window,
// or nil when the window or the value is absent. Derived kinds always
// resolve to nil here; they live in Derived, not in the bundle.
func (b Bundle) Resolve(kind Kind, window domain.TimeWindow) *float64 {
	metrics, ok := b.Windows[window]
	if !ok {
		return nil
	}
	switch kind {
	case KindSubscriptionSharePct:
		return metrics.SubscriptionSharePct
	case KindCreditUtilizationPct:
		return metrics.CreditUtilizationPct
	case KindSavingsMonths:
		return metrics.SavingsMonths
	case KindPayGapDays:
		return metrics.PayGapDays
	case KindIncomeTxCount:
		return metrics.IncomeTxCount
	default:
		return nil
	}
}

// Derived holds the window-independent signals fetched from the account
// aggregator at evaluation time. Both values are nullable: a user with no
// relevant accounts simply has no value.
type Derived struct {
	TransactionHistoryDays *float64
	CreditTotalLimits      *float64
}

// Resolve returns the raw value for a derived signal, or nil for windowed
// kinds and absent values.
func (d Derived) Resolve(kind Kind) *float64 {
	switch kind {
	case KindTransactionHistoryDays:
		return d.TransactionHistoryDays
	case KindCreditTotalLimits:
		return d.CreditTotalLimits
	default:
		return nil
	}
}

// Float is a convenience for building nullable signal values in tests and
// adapters.
func Float(v float64) *float64 { return &v }
