package kdoc

import "iter"

// BlockRole identifies the structural marker a block was found by.
type BlockRole string

// Block roles found on reference pages.
const (
	// BlockPrimary holds the page's main declaration.
	BlockPrimary BlockRole = "primary"
	// BlockOverload holds one overload of a same-named member.
	BlockOverload BlockRole = "overload"
)

// Block is a documentation unit inside a page.
type Block struct {
	Role BlockRole

	// Signature is the trimmed declaration text. Empty when the block has
	// no signature element; such blocks produce no entry.
	Signature string
}

// Page is a parsed reference page.
type Page struct {
	Path        string
	Breadcrumbs []string
	Blocks      []Block
}

// PageParser extracts blocks and the breadcrumb trail from page markup.
type PageParser interface {
	// Parse reads one page. Missing sub-elements are tolerated: a page
	// without breadcrumbs has an empty trail, a block without a signature
	// has an empty Signature.
	Parse(html string) (*Page, error)
}

// PageSource enumerates mirrored pages below a root directory.
type PageSource interface {
	// Pages yields page file paths. Every call walks afresh. An error
	// value ends the sequence and fails the run.
	Pages(root string) iter.Seq2[string, error]
}
