package driven

import "context"

// Fetcher retrieves remote resources over HTTP. Implementations handle
// politeness (rate limiting, user agent) and surface failures as
// *domain.FetchError.
type Fetcher interface {
	// Fetch downloads the resource at url. It returns the body and the
	// response Content-Type with any parameters stripped, e.g.
	// "application/pdf".
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}
