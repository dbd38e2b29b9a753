// Package client implements the API client side of the funding contract: a
// donate call that retries transient failures under a single idempotency key,
// and an override store reconciled against every authoritative response.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/funderr/crowdfund-api/internal/core/domain"
	"github.com/funderr/crowdfund-api/internal/core/ports"
)

const (
	donateRetries = 3
	retryBackoff  = 500 * time.Millisecond
)

// Client talks to the crowdfunding API on behalf of an authenticated user.
type Client struct {
	baseURL   string
	token     string
	http      *http.Client
	backoff   time.Duration
	Overrides *OverrideStore
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:   baseURL,
		token:     token,
		http:      &http.Client{Timeout: 10 * time.Second},
		backoff:   retryBackoff,
		Overrides: NewOverrideStore(),
	}
}

type donatePayload struct {
	Amount float64 `json:"amount"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// Donate submits one logical contribution. A single idempotency key is minted
// up front and reused across retries, so a response lost in transit cannot
// credit the contribution twice. On success the campaign's override is
// cleared; after exhausting retries the assumed total is recorded as a pending
// override and the transport error is returned.
func (c *Client) Donate(ctx context.Context, campaign *domain.Campaign, amount float64) (*ports.DonationResult, error) {
	key := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt < donateRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << attempt):
			}
		}

		result, retryable, err := c.donateOnce(ctx, campaign.ID, amount, key)
		if err == nil {
			if result.Funded {
				c.Overrides.RecordDeleted(campaign.ID)
			} else {
				c.Overrides.Reconcile(campaign.ID)
			}
			return result, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		if ctx.Err() != nil {
			break
		}
	}

	// The server may or may not have applied the contribution; keep the
	// assumed total as an advisory override until the next authoritative read.
	c.Overrides.RecordPending(campaign.ID, campaign.Raised+amount)
	return nil, fmt.Errorf("donate to %s: %w", campaign.ID, lastErr)
}

// donateOnce performs a single attempt. Transport errors and 5xx responses are
// retryable; any 4xx verdict is final.
func (c *Client) donateOnce(ctx context.Context, campaignID string, amount float64, key string) (*ports.DonationResult, bool, error) {
	body, err := json.Marshal(donatePayload{Amount: amount})
	if err != nil {
		return nil, false, err
	}

	url := fmt.Sprintf("%s/v1/campaigns/%s/donate", c.baseURL, campaignID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Idempotency-Key", key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("server error: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		var envelope errorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = resp.Status
		}
		return nil, false, fmt.Errorf("donation rejected: %s", envelope.Error)
	}

	var result ports.DonationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, fmt.Errorf("decode donation result: %w", err)
	}
	return &result, false, nil
}
