// Package transport downloads raw playlist text over HTTP with bounded
// retries, linear backoff, optional progress reporting, and an optional
// stale-cache fallback.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alorle/m3u-ingest/cache"
	"github.com/alorle/m3u-ingest/circuitbreaker"
	"github.com/alorle/m3u-ingest/config"
	"github.com/alorle/m3u-ingest/logging"
	"github.com/alorle/m3u-ingest/metrics"
)

// ErrInvalidURL is returned for URLs rejected before any network call
var ErrInvalidURL = errors.New("invalid source URL")

// Transport fetches playlist text with retry, backoff and cache fallback
type Transport struct {
	client      *http.Client
	probeClient *http.Client
	storage     cache.Storage
	breaker     circuitbreaker.CircuitBreaker
	logger      *logging.Logger

	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	cacheTTL       time.Duration
	userAgent      string
}

// New creates a Transport from the given configuration.
// storage and logger are optional; pass nil to disable caching or logging.
func New(cfg *config.IngestConfig, storage cache.Storage, logger *logging.Logger) *Transport {
	return &Transport{
		client:         newHTTPClient(cfg.FetchTimeout),
		probeClient:    newHTTPClient(cfg.ProbeTimeout),
		storage:        storage,
		logger:         logger,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		cacheTTL:       cfg.CacheTTL,
		userAgent:      cfg.UserAgent,
	}
}

// NewWithBreaker creates a Transport whose fetch cycles are guarded by a
// circuit breaker dedicated to the given source.
func NewWithBreaker(cfg *config.IngestConfig, storage cache.Storage, logger *logging.Logger, source string) *Transport {
	t := New(cfg, storage, logger)
	t.breaker = circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CBFailureThreshold,
		Timeout:          cfg.CBTimeout,
		HalfOpenRequests: cfg.CBHalfOpenRequests,
		Logger:           logger,
		Source:           source,
	})
	return t
}

// newHTTPClient creates an HTTP client with secure transport defaults
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}
}

// Fetch downloads the playlist at url with bounded retries
func (t *Transport) Fetch(ctx context.Context, rawURL string) (string, error) {
	return t.fetch(ctx, rawURL, nil)
}

// FetchWithProgress behaves like Fetch and reports download progress
func (t *Transport) FetchWithProgress(ctx context.Context, rawURL string, onProgress ProgressFunc) (string, error) {
	return t.fetch(ctx, rawURL, onProgress)
}

func (t *Transport) fetch(ctx context.Context, rawURL string, onProgress ProgressFunc) (string, error) {
	if err := validateURL(rawURL); err != nil {
		return "", err
	}

	tracker := newProgressTracker(onProgress)

	var body string
	run := func() error {
		var err error
		body, err = t.fetchWithRetry(ctx, rawURL, tracker)
		return err
	}

	if t.breaker != nil {
		if err := t.breaker.Execute(run); err != nil {
			return "", err
		}
		return body, nil
	}

	if err := run(); err != nil {
		return "", err
	}
	return body, nil
}

// fetchWithRetry runs up to maxAttempts independent requests, sleeping a
// linearly growing delay between attempts. The final attempt's error is
// returned verbatim.
func (t *Transport) fetchWithRetry(ctx context.Context, rawURL string, tracker *progressTracker) (string, error) {
	source := sourceLabel(rawURL)

	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := t.backoff(attempt - 1)
			if t.logger != nil {
				t.logger.LogFetchRetry(rawURL, attempt, delay, lastErr.Error())
			}
			metrics.RecordFetchRetry(source)

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		if t.logger != nil {
			t.logger.LogFetchAttempt(rawURL, attempt)
		}
		metrics.RecordFetchAttempt(source)

		body, err := t.doAttempt(ctx, rawURL, tracker)
		if err == nil {
			tracker.finish()
			return body, nil
		}
		lastErr = err

		// A cancelled context aborts any pending retry
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	if t.logger != nil {
		t.logger.LogFetchFailed(rawURL, t.maxAttempts, lastErr.Error())
	}
	metrics.RecordFetchFailure(source, "exhausted")

	return "", lastErr
}

// backoff returns the delay before retry n (1-based): linear growth from
// the initial backoff, capped at the maximum.
func (t *Transport) backoff(n int) time.Duration {
	delay := t.initialBackoff * time.Duration(n)
	if delay > t.maxBackoff {
		delay = t.maxBackoff
	}
	return delay
}

// doAttempt performs a single request. Success requires a 2xx status and a
// non-empty body.
func (t *Transport) doAttempt(ctx context.Context, rawURL string, tracker *progressTracker) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP request returned status %d: %s", resp.StatusCode, resp.Status)
	}

	// Each attempt starts a fresh reader; the shared tracker keeps the
	// reported fraction monotonic across attempts.
	reader := tracker.reader(resp.Body, resp.ContentLength)

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if len(content) == 0 {
		return "", fmt.Errorf("empty response body")
	}

	return string(content), nil
}

// TestConnection performs a single HEAD probe without retries
func (t *Transport) TestConnection(ctx context.Context, rawURL string) (bool, error) {
	if err := validateURL(rawURL); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.probeClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("probe failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}

// FetchWithCacheFallback fetches the playlist, updating the cache on
// success. When every attempt fails, cached content still within the
// configured TTL is served instead; expired entries are never served.
func (t *Transport) FetchWithCacheFallback(ctx context.Context, rawURL string, onProgress ProgressFunc) (string, bool, error) {
	body, err := t.fetch(ctx, rawURL, onProgress)
	if err == nil {
		if t.storage != nil {
			if setErr := t.storage.Set(cache.KeyForURL(rawURL), []byte(body)); setErr != nil && t.logger != nil {
				t.logger.Warn("Failed to update playlist cache", map[string]interface{}{
					"source": rawURL,
					"error":  setErr.Error(),
				})
			}
		}
		return body, false, nil
	}

	// A cancelled fetch yields no result, cached or otherwise
	if t.storage == nil || ctx.Err() != nil {
		return "", false, err
	}

	key := cache.KeyForURL(rawURL)
	entry, cacheErr := t.storage.Get(key)
	if cacheErr != nil {
		return "", false, fmt.Errorf("upstream fetch failed and no cache available: %w", err)
	}

	expired, expErr := t.storage.IsExpired(key, t.cacheTTL)
	if expErr != nil || expired {
		return "", false, fmt.Errorf("upstream fetch failed and cached playlist exceeded its ttl: %w", err)
	}

	if t.logger != nil {
		t.logger.LogCacheFallback(rawURL, entry.FetchedAt)
	}
	return string(entry.Content), true, nil
}

// validateURL rejects empty or non-HTTP URLs before any network call
func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return nil
}

// sourceLabel reduces a URL to its host for metric labels, keeping
// credentials and paths out of the label set
func sourceLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
