package main_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/kdoc"
	main "github.com/fwojciec/kdoc/cmd/kdocset"
	"github.com/fwojciec/kdoc/etree"
	"github.com/fwojciec/kdoc/fs"
	"github.com/fwojciec/kdoc/mock"
	"github.com/fwojciec/kdoc/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceURL = "https://kotlinlang.org/api/latest/jvm/stdlib/index.html"

const classPage = `<html><body>
<div class="api-docs-breadcrumbs">Docs / Root / kotlin / Foo</div>
<div class="node-page-main"><div class="signature">public class Foo</div></div>
</body></html>`

const funPage = `<html><body>
<div class="api-docs-breadcrumbs">Docs / Root / kotlin / Bar</div>
<div class="overload-group"><div class="signature">fun bar()</div></div>
<div class="overload-group"><div class="signature">fun bar()</div></div>
</body></html>`

const rootPage = `<html><body>
<div class="api-docs-breadcrumbs">Docs / Root</div>
<div class="node-page-main"><div class="signature">class Root</div></div>
</body></html>`

// pageMirror returns a mirror that writes the given pages below its
// destination directory.
func pageMirror(t *testing.T, pages map[string]string) *mock.Mirror {
	t.Helper()
	return &mock.Mirror{
		FetchFn: func(ctx context.Context, url, destDir string) error {
			assert.Equal(t, sourceURL, url)
			for rel, html := range pages {
				if err := fs.WriteFile(destDir, rel, []byte(html)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newMain(t *testing.T, mirror kdoc.Mirror) (*main.Main, *fs.Docset) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "kotlin.docset")
	m := &main.Main{
		Config: main.Config{
			DocsetRoot: root,
			SourceURL:  sourceURL,
		},
		Mirror: mirror,
	}
	return m, fs.NewDocset(root)
}

func indexedEntries(t *testing.T, docset *fs.Docset) []kdoc.Entry {
	t.Helper()
	db := sqlite.NewDB(docset.IndexPath())
	require.NoError(t, db.Open())
	defer db.Close()

	entries, err := sqlite.NewIndexStore(db).FindEntries(context.Background(), kdoc.EntryFilter{})
	require.NoError(t, err)
	return entries
}

// Story: Building the Kotlin Docset
// A single invocation mirrors the reference, indexes it and writes metadata

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("builds index and reports every entry", func(t *testing.T) {
		t.Parallel()

		// Given a mirror serving a class page, an overloaded function page
		// and a page whose breadcrumbs resolve to no name
		m, docset := newMain(t, pageMirror(t, map[string]string{
			"api/latest/jvm/stdlib/kotlin/-foo/index.html": classPage,
			"api/latest/jvm/stdlib/kotlin/bar.html":        funPage,
			"api/latest/jvm/stdlib/index.html":             rootPage,
		}))
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		// When the program runs without arguments
		err := m.Run(context.Background(), nil, stdout, stderr)

		// Then every accepted entry is printed, duplicates included
		require.NoError(t, err)
		assert.Equal(t, []string{
			"kotlin.Foo -> Class -> api/latest/jvm/stdlib/kotlin/-foo/index.html",
			"kotlin.Bar -> Function -> api/latest/jvm/stdlib/kotlin/bar.html",
			"kotlin.Bar -> Function -> api/latest/jvm/stdlib/kotlin/bar.html",
		}, lines(stdout.String()))

		// And the index holds one row per distinct triple
		assert.ElementsMatch(t, []kdoc.Entry{
			{Name: "kotlin.Foo", Kind: kdoc.KindClass, Path: "api/latest/jvm/stdlib/kotlin/-foo/index.html"},
			{Name: "kotlin.Bar", Kind: kdoc.KindFunction, Path: "api/latest/jvm/stdlib/kotlin/bar.html"},
		}, indexedEntries(t, docset))

		// And the bundle metadata points at the landing page
		values, err := etree.ReadPlist(docset.PlistPath())
		require.NoError(t, err)
		assert.Equal(t, "api/latest/jvm/stdlib/index.html", values[etree.KeyIndexFilePath])
		assert.Equal(t, "true", values[etree.KeyIsDashDocset])
	})

	t.Run("clears documents from a previous build", func(t *testing.T) {
		t.Parallel()

		m, docset := newMain(t, pageMirror(t, map[string]string{
			"api/latest/jvm/stdlib/kotlin/-foo/index.html": classPage,
		}))
		stale := filepath.Join(docset.DocumentsDir(), "stale.html")
		require.NoError(t, fs.WriteFile(docset.DocumentsDir(), "stale.html", []byte(classPage)))

		err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.NoFileExists(t, stale)
		assert.Len(t, indexedEntries(t, docset), 1)
	})

	t.Run("mirror failure stops before indexing", func(t *testing.T) {
		t.Parallel()

		m, docset := newMain(t, &mock.Mirror{
			FetchFn: func(ctx context.Context, url, destDir string) error {
				return errors.New("network unreachable")
			},
		})
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "network unreachable")
		assert.Empty(t, stdout.String())
		assert.NoFileExists(t, docset.IndexPath())
		assert.NoFileExists(t, docset.PlistPath())
	})

	t.Run("rejects arguments", func(t *testing.T) {
		t.Parallel()

		called := false
		m, _ := newMain(t, &mock.Mirror{
			FetchFn: func(ctx context.Context, url, destDir string) error {
				called = true
				return nil
			},
		})

		err := m.Run(context.Background(), []string{"extra"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Equal(t, kdoc.EINVALID, kdoc.ErrorCode(err))
		assert.False(t, called, "no work is done when arguments are given")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		called := false
		m, _ := newMain(t, &mock.Mirror{
			FetchFn: func(ctx context.Context, url, destDir string) error {
				called = true
				return nil
			},
		})
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "kdocset")
		assert.Contains(t, stdout.String(), "KDOC_DOCSET")
		assert.False(t, called)
	})

	t.Run("debug logging goes to stderr with a run id", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t, pageMirror(t, map[string]string{
			"api/latest/jvm/stdlib/kotlin/-foo/index.html": classPage,
		}))
		m.Config.Debug = true
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "run=")
		assert.Contains(t, stderr.String(), "index commit")
		assert.Contains(t, stderr.String(), "index built")
		assert.NotContains(t, stdout.String(), "level=")
	})

	t.Run("rejects unknown mirror mode", func(t *testing.T) {
		t.Parallel()

		root := filepath.Join(t.TempDir(), "kotlin.docset")
		m := &main.Main{Config: main.Config{DocsetRoot: root, SourceURL: sourceURL, Mirror: "curl"}}

		err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, kdoc.EINVALID, kdoc.ErrorCode(err))
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg := main.ConfigFromEnv(func(string) string { return "" })

		assert.Equal(t, main.Config{
			DocsetRoot: main.DefaultDocset,
			SourceURL:  main.DefaultSourceURL,
			Mirror:     main.MirrorAuto,
		}, cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		env := map[string]string{
			"KDOC_DOCSET": "/tmp/out.docset",
			"KDOC_MIRROR": "native",
			"KDOC_DEBUG":  "1",
		}
		cfg := main.ConfigFromEnv(func(k string) string { return env[k] })

		assert.Equal(t, "/tmp/out.docset", cfg.DocsetRoot)
		assert.Equal(t, main.MirrorNative, cfg.Mirror)
		assert.True(t, cfg.Debug)
	})

	t.Run("ignores unparseable debug value", func(t *testing.T) {
		t.Parallel()

		cfg := main.ConfigFromEnv(func(k string) string {
			if k == "KDOC_DEBUG" {
				return "verbose"
			}
			return ""
		})

		assert.False(t, cfg.Debug)
	})
}

// lines splits output into lines. Pages are walked in lexical order, so
// kotlin/-foo comes before kotlin/bar.
func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}
