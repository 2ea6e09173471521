package kdoc

import "context"

// SymbolKind is the docset entry type of a documented symbol.
type SymbolKind string

// Symbol kinds recorded in the index. KindUnclassified is never stored.
const (
	KindUnclassified SymbolKind = ""
	KindClass        SymbolKind = "Class"
	KindInterface    SymbolKind = "Interface"
	KindFunction     SymbolKind = "Function"
	KindProperty     SymbolKind = "Property"
	KindObject       SymbolKind = "Object"
	KindConstructor  SymbolKind = "Constructor"
	KindEnum         SymbolKind = "Enum"
)

// SymbolKinds returns every kind that may appear in the index.
func SymbolKinds() []SymbolKind {
	return []SymbolKind{
		KindClass,
		KindInterface,
		KindFunction,
		KindProperty,
		KindObject,
		KindConstructor,
		KindEnum,
	}
}

// Entry is one row of the docset index.
type Entry struct {
	Name string     `json:"name"`
	Kind SymbolKind `json:"type"`
	Path string     `json:"path"`
}

// Validate returns an error if the entry cannot be indexed.
func (e *Entry) Validate() error {
	if e.Name == "" {
		return Errorf(EINVALID, "entry name required")
	}
	if e.Kind == KindUnclassified {
		return Errorf(EINVALID, "entry kind required")
	}
	return nil
}

// String renders the entry the way the build reports it.
func (e Entry) String() string {
	return e.Name + " -> " + string(e.Kind) + " -> " + e.Path
}

// IndexStore persists entries with a uniqueness constraint over
// (name, kind, path). Reset discards any previous index and must be called
// once per run before the first insert; Commit makes the run permanent;
// Abort discards it.
type IndexStore interface {
	// Reset drops and recreates the index structure.
	Reset(ctx context.Context) error

	// InsertIfAbsent stores the entry unless an identical one exists.
	// Reports whether a row was added. Entries failing Validate are
	// ignored without error.
	InsertIfAbsent(ctx context.Context, entry Entry) (bool, error)

	Commit() error
	Abort() error
}

// EntryFilter represents a filter for reading back committed entries.
type EntryFilter struct {
	Name *string     `json:"name"`
	Kind *SymbolKind `json:"type"`
	Path *string     `json:"path"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
