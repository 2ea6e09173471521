// Package bloom provides mirror URL deduplication using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter records which resource URLs a mirror has already queued.
// It is not safe for concurrent use; callers hold their own lock.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Test returns true if the URL might have been recorded.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// Record adds the URL and reports whether it was new.
// A false positive makes a new URL look recorded, so a mirror sized too
// small skips resources rather than fetching them twice.
func (f *Filter) Record(url string) bool {
	return !f.f.TestAndAddString(url)
}

// Len returns the approximate number of recorded URLs.
func (f *Filter) Len() uint {
	return uint(f.f.ApproximatedSize())
}
