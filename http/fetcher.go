// Package http provides an HTTP-based implementation of kdoc.Fetcher used by
// the native mirror.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/kdoc"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the mirror to servers.
const DefaultUserAgent = "kdocset (+https://github.com/fwojciec/kdoc)"

// Ensure Fetcher implements kdoc.Fetcher at compile time.
var _ kdoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves resources using HTTP GET requests.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the resource at url. HTML bodies are decoded to UTF-8
// according to the declared or sniffed charset; other bodies are returned
// as served. A 404 or 410 response returns ENOTFOUND.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*kdoc.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, kdoc.Errorf(kdoc.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	res := &kdoc.Resource{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
	}

	var body io.Reader = resp.Body
	if res.IsHTML() {
		body, err = charset.NewReader(resp.Body, res.ContentType)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", url, err)
		}
	}

	res.Body, err = io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return res, nil
}
