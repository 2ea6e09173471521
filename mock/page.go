package mock

import (
	"iter"

	"github.com/fwojciec/kdoc"
)

// Compile-time interface verification.
var (
	_ kdoc.PageParser = (*PageParser)(nil)
	_ kdoc.PageSource = (*PageSource)(nil)
)

// PageParser is a mock implementation of kdoc.PageParser.
type PageParser struct {
	ParseFn func(html string) (*kdoc.Page, error)
}

func (p *PageParser) Parse(html string) (*kdoc.Page, error) {
	return p.ParseFn(html)
}

// PageSource is a mock implementation of kdoc.PageSource.
type PageSource struct {
	PagesFn func(root string) iter.Seq2[string, error]
}

func (s *PageSource) Pages(root string) iter.Seq2[string, error] {
	return s.PagesFn(root)
}
