package kdoc

// LinkPriority represents mirror priority (higher = fetched first).
type LinkPriority int

// Link priority levels for mirror ordering.
const (
	PriorityIgnore    LinkPriority = 0
	PriorityPage      LinkPriority = 50
	PriorityRequisite LinkPriority = 100
)

// DiscoveredLink is a URL found in a mirrored page.
type DiscoveredLink struct {
	URL      string
	Priority LinkPriority

	// Requisite is set for assets a page needs to render (stylesheets,
	// scripts, images) as opposed to navigable pages.
	Requisite bool
}

// URLFrontier manages a mirror queue with deduplication.
type URLFrontier interface {
	// Push adds a link to the frontier.
	// Returns false if the URL has already been seen.
	Push(link DiscoveredLink) bool

	// Pop returns the next URL by priority.
	// Returns false if the frontier is empty.
	Pop() (DiscoveredLink, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}
