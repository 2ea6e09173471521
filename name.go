package kdoc

import "strings"

// BreadcrumbChromeSegments is the number of leading breadcrumb segments that
// are site navigation rather than part of a symbol name.
const BreadcrumbChromeSegments = 2

// ResolveName builds the fully-qualified symbol name from a page's
// breadcrumb trail. Trails too short to hold a name resolve to "".
func ResolveName(trail []string) string {
	if len(trail) <= BreadcrumbChromeSegments {
		return ""
	}
	return strings.Join(trail[BreadcrumbChromeSegments:], ".")
}
