// Package fs provides file-system access to the docset: the mirrored page
// store and the bundle layout.
package fs

import (
	iofs "io/fs"
	"iter"
	"path/filepath"

	"github.com/fwojciec/kdoc"
	"github.com/gobwas/glob"
)

// DefaultPagePattern matches the file names of mirrored pages.
const DefaultPagePattern = "*.html"

// Ensure Walker implements kdoc.PageSource at compile time.
var _ kdoc.PageSource = (*Walker)(nil)

// Walker enumerates page files below a root directory in lexical order.
type Walker struct {
	pattern glob.Glob
}

// Option configures a Walker.
type Option func(*Walker) error

// WithPattern sets the glob pattern page file names must match.
// Defaults to DefaultPagePattern.
func WithPattern(pattern string) Option {
	return func(w *Walker) error {
		g, err := glob.Compile(pattern)
		if err != nil {
			return kdoc.Errorf(kdoc.EINVALID, "invalid page pattern %q: %v", pattern, err)
		}
		w.pattern = g
		return nil
	}
}

// NewWalker creates a new Walker.
func NewWalker(opts ...Option) (*Walker, error) {
	w := &Walker{pattern: glob.MustCompile(DefaultPagePattern)}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Pages yields the path of every matching file below root. The walk is lazy
// and starts over on every range. The first file-system error is yielded
// and ends the sequence.
func (w *Walker) Pages(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !w.pattern.Match(d.Name()) {
				return nil
			}
			if !yield(path, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}
