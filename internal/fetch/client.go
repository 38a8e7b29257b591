// Package fetch retrieves raw quiz-performance JSON from remote endpoints.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abhisek/quizlens/internal/logger"
)

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

// Client performs blocking JSON fetches.
type Client struct {
	httpClient *http.Client
}

// New returns a Client with the given request timeout.
func New(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// NewWithHTTPClient returns a Client using hc, mainly for tests.
func NewWithHTTPClient(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

// Load GETs endpoint and decodes the body into a generic JSON value: a
// map[string]any for an object, a []any for an array. Numbers are kept
// as json.Number so integer fields survive unchanged.
func (c *Client) Load(ctx context.Context, endpoint string) (any, error) {
	log := logger.FromContext(ctx).WithPrefix("fetch").WithField("endpoint", endpoint)

	log.Debug("fetching payload")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBody))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}

	switch payload.(type) {
	case map[string]any, []any:
	default:
		return nil, fmt.Errorf("decode %s: expected JSON object or array, got %T", endpoint, payload)
	}

	log.Info("fetched payload in %v", time.Since(start))
	return payload, nil
}

// LoadOrNil is Load with the pipeline's failure policy applied: errors are
// logged and reported as an absent payload.
func (c *Client) LoadOrNil(ctx context.Context, endpoint string) any {
	payload, err := c.Load(ctx, endpoint)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("fetch").Error("error loading data from %s: %v", endpoint, err)
		return nil
	}
	return payload
}
