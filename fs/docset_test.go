package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/kdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocset_Layout(t *testing.T) {
	t.Parallel()

	d := fs.NewDocset("kotlin.docset")

	assert.Equal(t, filepath.Join("kotlin.docset", "Contents", "Resources", "Documents"), d.DocumentsDir())
	assert.Equal(t, filepath.Join("kotlin.docset", "Contents", "Resources", "docSet.dsidx"), d.IndexPath())
	assert.Equal(t, filepath.Join("kotlin.docset", "Contents", "Info.plist"), d.PlistPath())
}

// Story: Output Directory Reset
// Every build starts from an empty documents directory

func TestResetDir_RemovesPreviousContent(t *testing.T) {
	t.Parallel()

	// Given a directory with content from a previous run
	dir := filepath.Join(t.TempDir(), "Documents")
	writeTree(t, dir, "old/page.html")

	// When I reset it
	err := fs.ResetDir(dir)

	// Then it exists and is empty
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResetDir_CreatesMissingParents(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "kotlin.docset", "Contents", "Resources", "Documents")

	require.NoError(t, fs.ResetDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()

		err := fs.WriteFile(root, "api/latest/jvm/stdlib/index.html", []byte("hi"))

		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(root, "api", "latest", "jvm", "stdlib", "index.html"))
		require.NoError(t, err)
		assert.Equal(t, "hi", string(data))
	})

	t.Run("rejects paths escaping the root", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()

		assert.Error(t, fs.WriteFile(root, "../outside.html", []byte("x")))
		assert.Error(t, fs.WriteFile(root, "", []byte("x")))
	})
}
