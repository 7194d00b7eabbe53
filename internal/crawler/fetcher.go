// Package crawler fetches legacy article pages and extracts their content.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"shamir/internal/config"
	"shamir/internal/metrics"
	"shamir/internal/throttle"
	"shamir/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Fetcher performs one GET per call after a mandatory politeness delay.
// It never retries; callers decide what a failure means.
type Fetcher struct {
	client       *http.Client
	headers      *utils.HTTPHelper
	throttle     *throttle.Throttle
	attempts     *AttemptLog
	metrics      *metrics.Metrics
	bufferSizeKb int
}

// NewFetcher creates a fetcher from the fetch section of cfg. A nil sleep
// uses real time.
func NewFetcher(cfg *config.Config, m *metrics.Metrics, sleep throttle.SleepFunc) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.FetchTimeout(),
		},
		headers:      utils.NewHTTPHelper(cfg.Fetch.UserAgent),
		throttle:     throttle.New(cfg.FetchDelay(), sleep),
		attempts:     NewAttemptLog(),
		metrics:      m,
		bufferSizeKb: cfg.Fetch.BufferSizeKb,
	}
}

// FetchWithMetrics returns (content, statusCode, duration, error).
func (f *Fetcher) FetchWithMetrics(ctx context.Context, url string) (string, int, time.Duration, error) {
	if err := f.throttle.Wait(ctx); err != nil {
		return "", 0, 0, err
	}

	startTime := time.Now()
	content, status, err := f.do(ctx, url)
	duration := time.Since(startTime)

	f.attempts.Record(url, status, duration, err)
	f.metrics.IncFetched(status)

	return content, status, duration, err
}

// Fetch returns the body of url as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	content, _, _, err := f.FetchWithMetrics(ctx, url)

	return content, err
}

// Attempts returns the ledger of every fetch made by this fetcher.
func (f *Fetcher) Attempts() *AttemptLog {
	return f.attempts
}

func (f *Fetcher) do(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = f.headers.BuildHeaders(nil)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// bufferSizeKb is in KB, convert to bytes
	limit := int64(f.bufferSizeKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}
