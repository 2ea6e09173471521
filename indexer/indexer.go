// Package indexer drives a docset build: it walks the mirrored pages,
// classifies every documentation block and fills the search index.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/kdoc"
	"golang.org/x/sync/errgroup"
)

// Indexer populates an index from a page store.
type Indexer struct {
	Pages  kdoc.PageSource
	Parser kdoc.PageParser
	Store  kdoc.IndexStore

	// Concurrency bounds how many pages are read and parsed at once.
	// Values <= 1 process pages one at a time in walk order.
	Concurrency int

	// OnEntry, if set, is called for every indexable entry in insertion
	// order, duplicates included.
	OnEntry func(kdoc.Entry)
}

// Result holds the outcome of an index run.
type Result struct {
	Pages      int
	Blocks     int
	Entries    int // indexable entries, duplicates included
	Inserted   int
	Duplicates int
	Skipped    int // blocks without signature, kind, or name

	// Digest fingerprints the set of inserted entries. It does not depend
	// on page order, so equal page stores give equal digests.
	Digest uint64
}

// Run resets the index, indexes every page below root, and commits.
// Any error aborts the store and is returned; no partial index is kept.
func (ix *Indexer) Run(ctx context.Context, root string) (_ *Result, err error) {
	if err := ix.Store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset index: %w", err)
	}
	defer func() {
		if err != nil {
			_ = ix.Store.Abort()
		}
	}()

	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		mu     sync.Mutex
		result Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var walkErr error
	for path, err := range ix.Pages.Pages(root) {
		if err != nil {
			walkErr = fmt.Errorf("walk pages: %w", err)
			break
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return ix.indexPage(gctx, root, path, &mu, &result)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := ix.Store.Commit(); err != nil {
		return nil, fmt.Errorf("commit index: %w", err)
	}
	return &result, nil
}

// indexPage reads, parses and classifies one page, then inserts its entries
// while holding mu so that store access stays serialized.
func (ix *Indexer) indexPage(ctx context.Context, root, path string, mu *sync.Mutex, result *Result) error {
	html, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read page: %w", err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return fmt.Errorf("relative path of %s: %w", path, err)
	}

	page, err := ix.Parser.Parse(string(html))
	if err != nil {
		return fmt.Errorf("parse %s: %w", rel, err)
	}
	page.Path = filepath.ToSlash(rel)

	entries, skipped := PageEntries(page)

	mu.Lock()
	defer mu.Unlock()

	result.Pages++
	result.Blocks += len(page.Blocks)
	result.Skipped += skipped

	for _, entry := range entries {
		inserted, err := ix.Store.InsertIfAbsent(ctx, entry)
		if err != nil {
			return fmt.Errorf("insert %s: %w", entry, err)
		}

		result.Entries++
		if inserted {
			result.Inserted++
			result.Digest += entryHash(entry)
		} else {
			result.Duplicates++
		}

		if ix.OnEntry != nil {
			ix.OnEntry(entry)
		}
	}
	return nil
}

// PageEntries classifies every block of a page and returns the indexable
// entries in block order along with the number of blocks that produced
// none. All blocks share the name resolved from the page's breadcrumbs.
func PageEntries(page *kdoc.Page) ([]kdoc.Entry, int) {
	name := kdoc.ResolveName(page.Breadcrumbs)

	var entries []kdoc.Entry
	skipped := 0
	for _, block := range page.Blocks {
		entry := kdoc.Entry{
			Name: name,
			Kind: kdoc.Classify(block.Signature),
			Path: page.Path,
		}
		if entry.Validate() != nil {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}

// entryHash hashes the triple with NUL separators between fields.
func entryHash(e kdoc.Entry) uint64 {
	return xxhash.Sum64String(e.Name + "\x00" + string(e.Kind) + "\x00" + e.Path)
}
