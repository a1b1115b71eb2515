package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alorle/m3u-ingest/domain"
	"github.com/alorle/m3u-ingest/logging"
	"github.com/alorle/m3u-ingest/metrics"
	"github.com/alorle/m3u-ingest/transport"
)

// URLBuilder abstracts the external credential collaborator that knows how
// to assemble the playlist URL
type URLBuilder interface {
	// BuildURL returns the playlist URL or an error when the configured
	// source is unusable (rejected immediately, never retried)
	BuildURL() (string, error)
}

// URLBuilderFunc adapts a plain function to the URLBuilder interface
type URLBuilderFunc func() (string, error)

// BuildURL implements URLBuilder
func (f URLBuilderFunc) BuildURL() (string, error) {
	return f()
}

// StaticURL returns a URLBuilder for an already-known playlist URL
func StaticURL(url string) URLBuilder {
	return URLBuilderFunc(func() (string, error) {
		return url, nil
	})
}

// ContentData is the combined result of a full ingestion run
type ContentData struct {
	Channels   []domain.Channel `json:"channels"`
	Movies     []domain.Movie   `json:"movies"`
	Errors     []string         `json:"errors,omitempty"`
	TotalItems int              `json:"total_items"`

	// FromCache is true when the upstream fetch failed and the playlist
	// was served from the transport's cache instead
	FromCache bool `json:"from_cache,omitempty"`
}

// Ingestor runs the full fetch-and-parse pipeline. Each Ingest call owns
// its own parser state, so concurrent calls for different sources are safe.
type Ingestor struct {
	transport transport.Interface
	logger    *logging.Logger
}

// New creates an Ingestor on top of the given transport.
// logger is optional.
func New(t transport.Interface, logger *logging.Logger) *Ingestor {
	return &Ingestor{transport: t, logger: logger}
}

// Ingest fetches the playlist named by urlBuilder and parses it into
// ContentData. onProgress may be nil. A cancelled fetch yields no partial
// result; per-line parse errors are returned inside ContentData instead of
// failing the call. When the transport carries a cache, a failed fetch
// falls back to cached playlist text still within its TTL.
func (i *Ingestor) Ingest(ctx context.Context, urlBuilder URLBuilder, onProgress transport.ProgressFunc) (*ContentData, error) {
	session := uuid.NewString()

	url, err := urlBuilder.BuildURL()
	if err != nil {
		return nil, fmt.Errorf("building playlist URL: %w", err)
	}

	text, fromCache, err := i.transport.FetchWithCacheFallback(ctx, url, onProgress)
	if err != nil {
		return nil, err
	}

	result := Parse(text)

	if i.logger != nil {
		i.logger.LogParseSummary(session, len(result.Channels), len(result.Movies), len(result.Errors))
	}

	data := &ContentData{
		Channels:   result.Channels,
		Movies:     result.Movies,
		Errors:     result.Errors,
		TotalItems: len(result.Channels) + len(result.Movies),
		FromCache:  fromCache,
	}
	metrics.SetLastIngestItems(data.TotalItems)

	return data, nil
}
