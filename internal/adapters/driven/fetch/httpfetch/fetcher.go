// Package httpfetch provides a rate-limited HTTP fetcher for remote
// pages and documents.
package httpfetch

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultBurst     = 2
	DefaultUserAgent = "engage-crawler/1.0"
	DefaultTimeout   = 120 * time.Second
)

// Config holds configuration for the HTTP fetcher.
type Config struct {
	// RequestsPerSecond is the sustained request rate against the
	// remote site (default: domain.DefaultRequestsPerSecond).
	RequestsPerSecond float64

	// Burst is the token bucket burst size (default: 2).
	Burst int

	// UserAgent identifies the crawler (default: engage-crawler/1.0).
	UserAgent string

	// Timeout is the per-request timeout (default: 120s). Agenda
	// packets run to tens of megabytes.
	Timeout time.Duration
}

// Fetcher downloads remote resources with token bucket rate limiting.
// A single Fetcher is shared by the crawler and document ingest so the
// limit applies to all traffic against the site.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher creates a rate-limited HTTP fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = domain.DefaultRequestsPerSecond
	}
	if cfg.Burst == 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads the resource at url, honoring the rate limit.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, "", &domain.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", &domain.FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &domain.FetchError{URL: url, Err: err}
	}

	return body, mediaType(resp.Header.Get("Content-Type")), nil
}

// mediaType strips parameters from a Content-Type header value, e.g.
// "text/html; charset=utf-8" becomes "text/html".
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		if i := strings.Index(contentType, ";"); i >= 0 {
			contentType = contentType[:i]
		}
		return strings.TrimSpace(contentType)
	}
	return mt
}
