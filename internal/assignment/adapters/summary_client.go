// Package adapters provides concrete implementations of the assignment and
// match ports: HTTP clients for the real collaborators and deterministic
// stubs for local wiring and tests.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"compass/internal/signals"
	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
)

// SummaryClient fetches windowed behavioral summaries from the
// transaction-analytics service over HTTP.
type SummaryClient struct {
	baseURL string
	client  *http.Client
}

func NewSummaryClient(baseURL string, client *http.Client) *SummaryClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SummaryClient{baseURL: baseURL, client: client}
}

// summaryResponse mirrors the collaborator's wire format. Every metric is
// nullable: the service omits what it cannot compute.
type summaryResponse struct {
	Windows map[string]struct {
		SubscriptionSharePct *float64 `json:"subscription_share_pct"`
		CreditUtilizationPct *float64 `json:"credit_utilization_pct"`
		SavingsMonths        *float64 `json:"savings_months"`
		PayGapDays           *float64 `json:"pay_gap_days"`
		IncomeTxCount        *float64 `json:"income_tx_count"`
	} `json:"windows"`
}

func (c *SummaryClient) FetchBundle(ctx context.Context, userID domain.UserID, referenceDate time.Time) (signals.Bundle, error) {
	url := fmt.Sprintf("%s/v1/users/%s/behavior-summary?reference_date=%s",
		c.baseURL, userID, referenceDate.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return signals.Bundle{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "build summary request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return signals.Bundle{}, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "behavioral-summary service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return signals.Bundle{}, domainerrors.Newf(domainerrors.CodeUnavailable, "behavioral-summary service returned %d", resp.StatusCode)
	}

	var body summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return signals.Bundle{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "decode summary response")
	}

	bundle := signals.Bundle{Windows: make(map[domain.TimeWindow]signals.WindowMetrics, len(body.Windows))}
	for raw, metrics := range body.Windows {
		window, err := domain.ParseTimeWindow(raw)
		if err != nil {
			// Unknown windows in the payload are skipped rather than fatal;
			// the collaborator may grow windows this core does not know.
			continue
		}
		bundle.Windows[window] = signals.WindowMetrics{
			SubscriptionSharePct: metrics.SubscriptionSharePct,
			CreditUtilizationPct: metrics.CreditUtilizationPct,
			SavingsMonths:        metrics.SavingsMonths,
			PayGapDays:           metrics.PayGapDays,
			IncomeTxCount:        metrics.IncomeTxCount,
		}
	}
	return bundle, nil
}
