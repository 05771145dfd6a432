// Package index is the client for the external full-text index. The index
// owns ranking and tokenization and only ever returns ordered identifiers;
// authoritative field data lives in the relational store.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bzuer/ethnos-api/internal/domain"
	"github.com/bzuer/ethnos-api/internal/metrics"
)

// DefaultTimeout bounds one index lookup. The index deadline is deliberately
// short: its unavailability is what triggers the store fallback, and a
// fallback that waits too long defeats the purpose.
const DefaultTimeout = 2 * time.Second

// IDPage is an ordered identifier page from the index. Empty IDs with a
// zero Total is a valid "no matches" outcome, not an error.
type IDPage struct {
	IDs         []int64
	Total       int
	QueryTimeMS int64
}

// Config holds index client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the index over HTTP JSON.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	timeout time.Duration
}

// NewClient creates an index client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

type searchRequest struct {
	Query   string            `json:"query"`
	Kind    string            `json:"kind"`
	Filters map[string]string `json:"filters,omitempty"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

type searchResponse struct {
	IDs         []int64 `json:"ids"`
	Total       int     `json:"total"`
	QueryTimeMS int64   `json:"query_time_ms"`
}

// SearchIDs asks the index for ranked identifiers matching the query.
// Transport failures, timeouts and non-2xx statuses all wrap
// domain.ErrIndexUnavailable so callers can fall back uniformly.
func (c *Client) SearchIDs(
	ctx context.Context, entityKind, query string, filters map[string]string, limit, offset int,
) (IDPage, error) {
	body, err := json.Marshal(searchRequest{
		Query:   query,
		Kind:    entityKind,
		Filters: filters,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return IDPage{}, fmt.Errorf("encode index request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return IDPage{}, fmt.Errorf("build index request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.IndexRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return IDPage{}, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return IDPage{}, fmt.Errorf("%w: index returned status %d", domain.ErrIndexUnavailable, resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return IDPage{}, fmt.Errorf("%w: decode index response: %w", domain.ErrIndexUnavailable, err)
	}

	return IDPage{IDs: out.IDs, Total: out.Total, QueryTimeMS: out.QueryTimeMS}, nil
}

// Ping probes index availability for health reporting.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build index request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("index ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("index ping: status %d", resp.StatusCode)
	}
	return nil
}
