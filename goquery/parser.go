// Package goquery implements HTML parsing for reference pages with
// PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/kdoc"
)

// Selectors used on Kotlin API reference pages.
const (
	PrimaryBlockSelector  = "div.node-page-main"
	OverloadBlockSelector = "div.overload-group"
	SignatureSelector     = "div.signature"
	BreadcrumbSelector    = "div.api-docs-breadcrumbs"

	// BreadcrumbSeparator splits the breadcrumb text into segments.
	BreadcrumbSeparator = "/"
)

// Ensure PageParser implements kdoc.PageParser at compile time.
var _ kdoc.PageParser = (*PageParser)(nil)

// PageParser extracts documentation blocks and breadcrumbs from a page.
type PageParser struct{}

// NewPageParser creates a new PageParser.
func NewPageParser() *PageParser {
	return &PageParser{}
}

// Parse returns every primary and overload block in document order together
// with the page's breadcrumb trail.
func (p *PageParser) Parse(html string) (*kdoc.Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, kdoc.Errorf(kdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	page := &kdoc.Page{
		Breadcrumbs: SplitBreadcrumbs(doc.Find(BreadcrumbSelector).First().Text()),
	}

	doc.Find(PrimaryBlockSelector + ", " + OverloadBlockSelector).Each(func(_ int, sel *goquery.Selection) {
		block := kdoc.Block{Role: kdoc.BlockOverload}
		if sel.Is(PrimaryBlockSelector) {
			block.Role = kdoc.BlockPrimary
		}

		// A block without a signature is kept so callers can count it,
		// but it carries nothing to index.
		if sig := sel.Find(SignatureSelector).First(); sig.Length() > 0 {
			block.Signature = strings.TrimSpace(sig.Text())
		}

		page.Blocks = append(page.Blocks, block)
	})

	return page, nil
}

// SplitBreadcrumbs splits breadcrumb text into trimmed segments.
// Blank text yields no segments.
func SplitBreadcrumbs(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, BreadcrumbSeparator)
	trail := make([]string, 0, len(parts))
	for _, part := range parts {
		trail = append(trail, strings.TrimSpace(part))
	}
	return trail
}
