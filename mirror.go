package kdoc

import (
	"context"
	"mime"
)

// Mirror copies a documentation site into a local directory.
type Mirror interface {
	// Fetch mirrors the site reachable from url into destDir.
	// The mirroring options are fixed by the implementation.
	Fetch(ctx context.Context, url, destDir string) error
}

// Resource is a fetched document or asset.
type Resource struct {
	URL         string
	ContentType string
	Body        []byte
}

// IsHTML reports whether the resource is an HTML document.
func (r *Resource) IsHTML() bool {
	return hasMediaType(r.ContentType, "text/html") || hasMediaType(r.ContentType, "application/xhtml+xml")
}

// Fetcher retrieves resources over the network.
type Fetcher interface {
	// Fetch returns the resource at url.
	// Returns ENOTFOUND if the server reports the resource missing.
	Fetch(ctx context.Context, url string) (*Resource, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// MirrorProgress reports progress during a native mirror.
type MirrorProgress struct {
	URL       string
	Completed int
	Queued    int
	Error     error
}

// MirrorProgressFunc is called as resources are processed.
type MirrorProgressFunc func(MirrorProgress)

func hasMediaType(contentType, want string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == want
}
