package driven

import (
	"context"
	"net/http"
	"net/url"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport performs HTTP requests on behalf of core services.
// Retries, timeouts and cancellation are the implementation's concern.
type Transport interface {
	// Get fetches rawURL.
	Get(ctx context.Context, rawURL string) (*Response, error)

	// PostForm posts form as application/x-www-form-urlencoded. Header
	// values are added to the request, e.g. basic credentials.
	PostForm(ctx context.Context, rawURL string, form url.Values, header http.Header) (*Response, error)
}
