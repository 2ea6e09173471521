package crawl

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/kdoc"
	"github.com/fwojciec/kdoc/goquery"
)

// Scope decides which resources a mirror fetches and where they are stored.
//
// Pages are fetched only from the start URL's directory and below; page
// requisites are fetched from anywhere on the start host. Files are stored
// under their URL path without a host directory.
type Scope struct {
	start  string
	host   string
	prefix string
}

// NewScope returns the scope of a mirror starting at startURL.
func NewScope(startURL string) (*Scope, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, kdoc.Errorf(kdoc.EINVALID, "invalid start URL: %v", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, kdoc.Errorf(kdoc.EINVALID, "start URL must be absolute http(s): %q", startURL)
	}

	prefix := u.Path
	if !strings.HasSuffix(prefix, "/") {
		prefix = path.Dir(prefix)
		if prefix != "/" {
			prefix += "/"
		}
	}

	return &Scope{
		start:  resourceKey(u.String()),
		host:   u.Host,
		prefix: prefix,
	}, nil
}

// Start returns the normalized start URL.
func (s *Scope) Start() string {
	return s.start
}

// Allows reports whether the mirror should fetch link.
func (s *Scope) Allows(link kdoc.DiscoveredLink) bool {
	u, err := url.Parse(link.URL)
	if err != nil {
		return false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host != s.host {
		return false
	}
	if link.Requisite {
		return true
	}
	return strings.HasPrefix(u.Path, s.prefix) || u.Path+"/" == s.prefix
}

// Rewriter returns a goquery.RewriteFunc for the page stored at fromLocal.
// Links the mirror fetches become relative local paths; all others become
// absolute URLs.
func (s *Scope) Rewriter(fromLocal string) goquery.RewriteFunc {
	return func(link kdoc.DiscoveredLink, fragment string) (string, bool) {
		u, err := url.Parse(link.URL)
		if err != nil {
			return "", false
		}
		if !s.Allows(link) {
			u.Fragment = fragment
			return u.String(), true
		}
		to := LocalPath(u, !link.Requisite && looksLikePage(u))
		return RelativeLink(fromLocal, to, fragment), true
	}
}

// LocalPath maps a resource URL to its slash-separated path inside the
// mirror directory. Directory URLs get index.html; HTML resources without
// an .html or .htm extension get .html appended. Query strings are dropped.
func LocalPath(u *url.URL, html bool) string {
	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	if html {
		switch strings.ToLower(path.Ext(p)) {
		case ".html", ".htm":
		default:
			p += ".html"
		}
	}
	return p
}

// RelativeLink returns the link from the file at fromLocal to the file at
// toLocal, both slash-separated mirror paths.
func RelativeLink(fromLocal, toLocal, fragment string) string {
	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(fromLocal)), filepath.FromSlash(toLocal))
	if err != nil {
		rel = toLocal
	}
	ref := &url.URL{Path: filepath.ToSlash(rel), Fragment: fragment}
	return ref.String()
}

func looksLikePage(u *url.URL) bool {
	if strings.HasSuffix(u.Path, "/") {
		return true
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case "", ".html", ".htm":
		return true
	}
	return false
}
