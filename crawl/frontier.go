package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/kdoc"
	"github.com/fwojciec/kdoc/bloom"
)

// Compile-time interface verification.
var _ kdoc.URLFrontier = (*Frontier)(nil)

// Frontier is the mirror queue: requisites before pages, first queued first
// served within a priority, each resource URL at most once.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *linkHeap
	seq   uint64
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds a link to the frontier.
// Returns false if the resource has already been queued.
// Fragments and query strings are stripped: the mirror stores one file per
// path, so URLs differing only in those parts name the same resource.
func (f *Frontier) Push(link kdoc.DiscoveredLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.URL = resourceKey(link.URL)
	if !f.seen.Record(link.URL) {
		return false
	}

	f.seq++
	heap.Push(f.queue, queued{link: link, seq: f.seq})
	return true
}

// Pop returns the next link by priority.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (kdoc.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return kdoc.DiscoveredLink{}, false
	}
	q, _ := heap.Pop(f.queue).(queued)
	return q.link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(resourceKey(rawURL))
}

func resourceKey(rawURL string) string {
	url, _, _ := strings.Cut(rawURL, "#")
	url, _, _ = strings.Cut(url, "?")
	return url
}

type queued struct {
	link kdoc.DiscoveredLink
	seq  uint64
}

// linkHeap orders by priority (highest first), then by push order.
type linkHeap []queued

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	if h[i].link.Priority != h[j].link.Priority {
		return h[i].link.Priority > h[j].link.Priority
	}
	return h[i].seq < h[j].seq
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	q, _ := x.(queued)
	*h = append(*h, q)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
