package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/kdoc"
)

// LinkConfig defines a CSS selector, the attribute holding the URL, and
// whether matches are page requisites.
type LinkConfig struct {
	Selector  string
	Attr      string
	Requisite bool
}

// DefaultLinkConfigs covers navigable pages and the assets a page needs to
// render.
var DefaultLinkConfigs = []LinkConfig{
	{Selector: "a[href]", Attr: "href"},
	{Selector: "link[href]", Attr: "href", Requisite: true},
	{Selector: "script[src]", Attr: "src", Requisite: true},
	{Selector: "img[src]", Attr: "src", Requisite: true},
}

// ExtractLinks parses HTML and returns links resolved against pageURL.
// Links are deduplicated by URL with fragments stripped; a URL seen as a
// requisite stays a requisite. Non-HTTP links are skipped. The returned
// links keep document order of first occurrence per config.
func ExtractLinks(html string, pageURL string) ([]kdoc.DiscoveredLink, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, kdoc.Errorf(kdoc.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, kdoc.Errorf(kdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	// Track seen URLs with their index in the result slice for O(1) updates
	seen := make(map[string]int)
	var links []kdoc.DiscoveredLink

	for _, config := range DefaultLinkConfigs {
		doc.Find(config.Selector).Each(func(_ int, sel *goquery.Selection) {
			ref, exists := sel.Attr(config.Attr)
			if !exists || ref == "" || isNonHTTPLink(ref) {
				return
			}

			resolved := resolveURL(base, ref)
			if resolved == "" {
				return
			}

			link := kdoc.DiscoveredLink{
				URL:       resolved,
				Priority:  kdoc.PriorityPage,
				Requisite: config.Requisite,
			}
			if config.Requisite {
				link.Priority = kdoc.PriorityRequisite
			}

			if idx, ok := seen[resolved]; ok {
				if link.Priority > links[idx].Priority {
					links[idx] = link
				}
				return
			}
			seen[resolved] = len(links)
			links = append(links, link)
		})
	}

	return links, nil
}

// RewriteFunc maps a resolved link to a replacement attribute value.
// The link carries the same URL and Requisite flag ExtractLinks reports.
// Returning false leaves the attribute untouched.
type RewriteFunc func(link kdoc.DiscoveredLink, fragment string) (string, bool)

// RewriteLinks resolves every link attribute against pageURL, applies
// rewrite, and returns the re-rendered document.
func RewriteLinks(html string, pageURL string, rewrite RewriteFunc) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", kdoc.Errorf(kdoc.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", kdoc.Errorf(kdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, config := range DefaultLinkConfigs {
		doc.Find(config.Selector).Each(func(_ int, sel *goquery.Selection) {
			ref, exists := sel.Attr(config.Attr)
			if !exists || ref == "" || isNonHTTPLink(ref) {
				return
			}

			u, err := url.Parse(ref)
			if err != nil {
				return
			}
			fragment := u.Fragment
			resolved := base.ResolveReference(u)
			resolved.Fragment = ""

			link := kdoc.DiscoveredLink{
				URL:       resolved.String(),
				Priority:  kdoc.PriorityPage,
				Requisite: config.Requisite,
			}
			if config.Requisite {
				link.Priority = kdoc.PriorityRequisite
			}

			if replacement, ok := rewrite(link, fragment); ok {
				sel.SetAttr(config.Attr, replacement)
			}
		})
	}

	return doc.Html()
}

// resolveURL resolves a reference against the page URL and strips the
// fragment. Returns empty string if the reference cannot be parsed.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(u)
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a reference is a non-HTTP link that should be skipped.
func isNonHTTPLink(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(ref, "javascript:") ||
		strings.HasPrefix(ref, "mailto:") ||
		strings.HasPrefix(ref, "tel:") ||
		strings.HasPrefix(ref, "data:")
}
