// Package client fetches the latest governance analysis from the API. Every
// attempt first pings the liveness endpoint so that a sleeping deployment
// starts waking up before the real request is sent.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"dganalyzer/internal/metrics"
	"dganalyzer/internal/models"
	"dganalyzer/internal/retry"
)

// DefaultWarmupTimeout bounds the liveness ping made before each attempt.
const DefaultWarmupTimeout = 10 * time.Second

const userAgent = "DGViewer/1.0"

// maxBodySize caps how much of a latest response is read.
const maxBodySize = 32 << 20

// Client reads the latest analysis over HTTP.
type Client struct {
	http          *http.Client
	baseURL       string
	policy        retry.Policy
	warmupTimeout time.Duration
}

// New creates a client for the API at baseURL using the given retry policy.
func New(baseURL string, policy retry.Policy) *Client {
	return &Client{
		http:          &http.Client{},
		baseURL:       strings.TrimRight(baseURL, "/"),
		policy:        policy,
		warmupTimeout: DefaultWarmupTimeout,
	}
}

// WithWarmupTimeout overrides the liveness ping timeout.
func (c *Client) WithWarmupTimeout(d time.Duration) *Client {
	c.warmupTimeout = d
	return c
}

// BaseURL returns the API base the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HealthURL is the liveness endpoint used for warmup.
func (c *Client) HealthURL() string {
	return c.baseURL + "/health"
}

// LatestURL is the endpoint that serves the current record.
func (c *Client) LatestURL() string {
	return c.baseURL + "/governance/latest"
}

// FetchLatest returns the current record or the empty sentinel. Transport
// failures, non-2xx answers and undecodable bodies are retried per the
// client's policy; the last failure is returned when all attempts fail.
func (c *Client) FetchLatest(ctx context.Context) (*models.LatestResponse, error) {
	policy := c.policy
	prepare := policy.Prepare
	// The warmup has its own timeout; the attempt timeout covers only the
	// latest request.
	policy.Prepare = func(ctx context.Context, attempt int) {
		if prepare != nil {
			prepare(ctx, attempt)
		}
		c.warmup(ctx)
	}

	var latest *models.LatestResponse
	err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		resp, err := c.fetch(ctx)
		if err != nil {
			metrics.RecordFetchAttempt("error")
			return err
		}
		metrics.RecordFetchAttempt("ok")
		latest = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", c.LatestURL(), err)
	}
	return latest, nil
}

// warmup pings the liveness endpoint and ignores the outcome.
func (c *Client) warmup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.warmupTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, c.HealthURL())
	if err != nil {
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func (c *Client) fetch(ctx context.Context) (*models.LatestResponse, error) {
	req, err := c.newRequest(ctx, c.LatestURL())
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var latest models.LatestResponse
	if err := json.Unmarshal(body, &latest); err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	latest.Analysis = unwrapAnalysis(latest.Analysis)
	return &latest, nil
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// unwrapAnalysis decodes an analysis that arrived as a JSON string. A string
// that is not itself JSON is kept under "_raw" so it can still be shown.
func unwrapAnalysis(raw json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, `"`) {
		return raw
	}

	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return raw
	}
	inner := strings.TrimSpace(s)
	if json.Valid([]byte(inner)) {
		return json.RawMessage(inner)
	}

	wrapped, err := json.Marshal(map[string]string{"_raw": s})
	if err != nil {
		return raw
	}
	return wrapped
}
