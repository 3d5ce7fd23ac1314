package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
)

// AggregatorClient resolves the window-independent derived signals from the
// account/transaction aggregator over HTTP. A 404 means the user has no
// relevant accounts, which is absence, not failure.
type AggregatorClient struct {
	baseURL string
	client  *http.Client
}

func NewAggregatorClient(baseURL string, client *http.Client) *AggregatorClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &AggregatorClient{baseURL: baseURL, client: client}
}

type aggregatesResponse struct {
	TransactionHistoryDays *float64 `json:"transaction_history_days"`
	CreditTotalLimits      *float64 `json:"credit_total_limits"`
}

func (c *AggregatorClient) TransactionHistoryDays(ctx context.Context, userID domain.UserID, referenceDate time.Time) (*float64, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("%s/v1/users/%s/aggregates?reference_date=%s",
		c.baseURL, userID, referenceDate.Format("2006-01-02")))
	if err != nil || body == nil {
		return nil, err
	}
	return body.TransactionHistoryDays, nil
}

func (c *AggregatorClient) CreditTotalLimits(ctx context.Context, userID domain.UserID) (*float64, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("%s/v1/users/%s/aggregates", c.baseURL, userID))
	if err != nil || body == nil {
		return nil, err
	}
	return body.CreditTotalLimits, nil
}

func (c *AggregatorClient) fetch(ctx context.Context, url string) (*aggregatesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "build aggregates request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "account aggregator unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, domainerrors.Newf(domainerrors.CodeUnavailable, "account aggregator returned %d", resp.StatusCode)
	}

	var body aggregatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "decode aggregates response")
	}
	return &body, nil
}
