package mock

import (
	"context"

	"github.com/fwojciec/kdoc"
)

// Compile-time interface verification.
var (
	_ kdoc.Mirror        = (*Mirror)(nil)
	_ kdoc.Fetcher       = (*Fetcher)(nil)
	_ kdoc.DomainLimiter = (*DomainLimiter)(nil)
)

// Mirror is a mock implementation of kdoc.Mirror.
type Mirror struct {
	FetchFn func(ctx context.Context, url, destDir string) error
}

func (m *Mirror) Fetch(ctx context.Context, url, destDir string) error {
	return m.FetchFn(ctx, url, destDir)
}

// Fetcher is a mock implementation of kdoc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*kdoc.Resource, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*kdoc.Resource, error) {
	return f.FetchFn(ctx, url)
}

// DomainLimiter is a mock implementation of kdoc.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
