// Package httpclient implements driven.Transport over net/http.
package httpclient

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/vkauth/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.Transport = (*Client)(nil)

const (
	// DefaultTimeout bounds a whole request, body included.
	DefaultTimeout = 30 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 10 << 20

	userAgent = "vkauth"
)

// Client sends requests with an http.Client and reads bodies in full.
type Client struct {
	http *http.Client
}

// New creates a transport with DefaultTimeout.
func New() *Client {
	return NewWithClient(&http.Client{Timeout: DefaultTimeout})
}

// NewWithClient wraps an existing http.Client, e.g. one built by
// oauth2.NewClient or an httptest server.
func NewWithClient(c *http.Client) *Client {
	return &Client{http: c}
}

// Get fetches rawURL.
func (c *Client) Get(ctx context.Context, rawURL string) (*driven.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

// PostForm posts form url-encoded.
func (c *Client) PostForm(
	ctx context.Context,
	rawURL string,
	form url.Values,
	header http.Header,
) (*driven.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*driven.Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	// net/http only decompresses when it asked for gzip itself.
	if !resp.Uncompressed && strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		defer zr.Close()
		body = zr
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &driven.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
