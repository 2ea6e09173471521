// Package crawl provides a native mirror of a documentation site for
// machines without wget. It follows the same fixed options as the wget
// mirror: recursive, page requisites, no parent, adjusted extensions,
// converted links and no host directory.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fwojciec/kdoc"
	"github.com/fwojciec/kdoc/fs"
	"github.com/fwojciec/kdoc/goquery"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ kdoc.Mirror = (*Mirror)(nil)

// DefaultConcurrency is the number of resources fetched at once.
const DefaultConcurrency = 4

// Frontier configuration for mirroring.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 100000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.0001
)

// Mirror copies a documentation site into a local directory.
type Mirror struct {
	Fetcher     kdoc.Fetcher
	RateLimiter kdoc.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration

	// MaxResources stops the mirror after this many resources have been
	// processed. Zero means no limit.
	MaxResources int

	// Progress, if set, is called after each resource from the calling
	// goroutine.
	Progress kdoc.MirrorProgressFunc

	// Logger, if set, receives retry messages.
	Logger LogFunc
}

// Result holds the outcome of a mirror.
type Result struct {
	Saved  int
	Failed int
	Bytes  int
}

// outcome is the result of mirroring a single resource.
type outcome struct {
	link  kdoc.DiscoveredLink
	links []kdoc.DiscoveredLink
	bytes int
	err   error
}

// Fetch mirrors the site reachable from startURL into destDir.
func (m *Mirror) Fetch(ctx context.Context, startURL, destDir string) error {
	_, err := m.Run(ctx, startURL, destDir)
	return err
}

// Run mirrors the site reachable from startURL into destDir and reports
// what was saved. A start URL that cannot be fetched, a write failure or a
// canceled context ends the mirror with an error; any other failed resource
// is counted and skipped.
func (m *Mirror) Run(ctx context.Context, startURL, destDir string) (*Result, error) {
	scope, err := NewScope(startURL)
	if err != nil {
		return nil, err
	}

	concurrency := m.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	delays := m.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(kdoc.DiscoveredLink{
		URL:      scope.Start(),
		Priority: kdoc.PriorityPage,
	})

	var result Result
	for frontier.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch := make([]kdoc.DiscoveredLink, 0, concurrency)
		for len(batch) < concurrency {
			if m.MaxResources > 0 && result.Saved+result.Failed+len(batch) >= m.MaxResources {
				break
			}
			link, ok := frontier.Pop()
			if !ok {
				break
			}
			batch = append(batch, link)
		}
		if len(batch) == 0 {
			break
		}

		outcomes := make([]outcome, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, link := range batch {
			g.Go(func() error {
				o, err := m.mirrorOne(gctx, scope, link, destDir, delays)
				outcomes[i] = o
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, o := range outcomes {
			if o.err != nil {
				if o.link.URL == scope.Start() {
					return nil, fmt.Errorf("mirror %s: %w", o.link.URL, o.err)
				}
				result.Failed++
			} else {
				result.Saved++
				result.Bytes += o.bytes
				for _, link := range o.links {
					if scope.Allows(link) {
						frontier.Push(link)
					}
				}
			}

			if m.Progress != nil {
				m.Progress(kdoc.MirrorProgress{
					URL:       o.link.URL,
					Completed: result.Saved + result.Failed,
					Queued:    frontier.Len(),
					Error:     o.err,
				})
			}
		}
	}

	return &result, nil
}

// mirrorOne fetches a single resource and stores it under destDir. The
// returned error is fatal to the mirror; a resource that merely failed to
// download is reported in the outcome.
func (m *Mirror) mirrorOne(ctx context.Context, scope *Scope, link kdoc.DiscoveredLink, destDir string, delays []time.Duration) (outcome, error) {
	o := outcome{link: link}

	u, err := url.Parse(link.URL)
	if err != nil {
		o.err = err
		return o, nil
	}

	if m.RateLimiter != nil {
		if err := m.RateLimiter.Wait(ctx, u.Host); err != nil {
			return o, err
		}
	}

	res, err := FetchWithRetry(ctx, link.URL, m.Fetcher.Fetch, m.Logger, delays)
	if err != nil {
		if ctx.Err() != nil {
			return o, ctx.Err()
		}
		o.err = err
		return o, nil
	}

	isPage := res.IsHTML() && !link.Requisite
	local := LocalPath(u, isPage)
	body := res.Body

	if isPage {
		html := string(res.Body)
		if links, err := goquery.ExtractLinks(html, link.URL); err == nil {
			o.links = links
		}
		if rewritten, err := goquery.RewriteLinks(html, link.URL, scope.Rewriter(local)); err == nil {
			body = []byte(rewritten)
		}
	}

	if err := fs.WriteFile(destDir, local, body); err != nil {
		return o, fmt.Errorf("write %s: %w", local, err)
	}
	o.bytes = len(body)

	return o, nil
}
