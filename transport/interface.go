package transport

import "context"

// ProgressFunc receives a download progress fraction in [0, 1].
// Invocations are monotonically non-decreasing; a final call with 1 is
// guaranteed on success. Callbacks are best-effort: a panicking callback
// never aborts the underlying fetch.
type ProgressFunc func(fraction float64)

// Interface defines the contract for fetching raw playlist text
type Interface interface {
	// Fetch downloads the playlist at url with bounded retries.
	// Returns the body text or the final attempt's error verbatim.
	Fetch(ctx context.Context, url string) (string, error)

	// FetchWithProgress behaves like Fetch and reports download progress
	// through onProgress (may be nil).
	FetchWithProgress(ctx context.Context, url string, onProgress ProgressFunc) (string, error)

	// FetchWithCacheFallback fetches the playlist like FetchWithProgress,
	// serving cached content still within its TTL when every attempt fails.
	// Returns: content, fromCache, error
	FetchWithCacheFallback(ctx context.Context, url string, onProgress ProgressFunc) (string, bool, error)

	// TestConnection performs a single lightweight probe without retries.
	// Returns true when the source answered with a 2xx status.
	TestConnection(ctx context.Context, url string) (bool, error)
}
