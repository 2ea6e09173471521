package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// Docset describes the on-disk layout of a docset bundle.
type Docset struct {
	Root string
}

// NewDocset returns the layout of the bundle at root (e.g. "kotlin.docset").
func NewDocset(root string) *Docset {
	return &Docset{Root: root}
}

// ResourcesDir holds the index and the documents.
func (d *Docset) ResourcesDir() string {
	return filepath.Join(d.Root, "Contents", "Resources")
}

// DocumentsDir is where the mirrored site lives.
func (d *Docset) DocumentsDir() string {
	return filepath.Join(d.ResourcesDir(), "Documents")
}

// IndexPath is the SQLite search index.
func (d *Docset) IndexPath() string {
	return filepath.Join(d.ResourcesDir(), "docSet.dsidx")
}

// PlistPath is the bundle's Info.plist.
func (d *Docset) PlistPath() string {
	return filepath.Join(d.Root, "Contents", "Info.plist")
}

// ResetDir removes dir and everything in it, then recreates it empty.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// WriteFile writes data to root/rel, creating parent directories.
// rel must be slash separated and stay inside root.
func WriteFile(root, rel string, data []byte) error {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return &os.PathError{Op: "write", Path: rel, Err: os.ErrInvalid}
	}

	fullPath := filepath.Join(root, clean)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, data, 0644)
}
