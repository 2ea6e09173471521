package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/kdoc"
	"github.com/fwojciec/kdoc/crawl"
	"github.com/fwojciec/kdoc/etree"
	"github.com/fwojciec/kdoc/fs"
	"github.com/fwojciec/kdoc/goquery"
	kdochttp "github.com/fwojciec/kdoc/http"
	"github.com/fwojciec/kdoc/indexer"
	kdocslog "github.com/fwojciec/kdoc/slog"
	"github.com/fwojciec/kdoc/sqlite"
	"github.com/fwojciec/kdoc/wget"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", errorText(err))
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration. Set before calling Run().
	Config Config

	// Mirror replaces the mirror chosen from Config. Used by tests.
	Mirror kdoc.Mirror

	// SQLite database holding the search index.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main configured from the environment.
func NewMain() *Main {
	return &Main{
		Config: ConfigFromEnv(os.Getenv),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run parses args and builds the docset. The command takes no arguments;
// only a help request is accepted.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("kdocset"),
		kong.Description(description),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return kdoc.Errorf(kdoc.EINVALID, "%v. Run 'kdocset --help' for usage", err)
	}

	defer m.Close()
	return m.build(ctx, stdout, stderr)
}

// build runs the pipeline: reset the documents directory, mirror the
// reference, rebuild the index, then write the bundle metadata.
func (m *Main) build(ctx context.Context, stdout, stderr io.Writer) error {
	cfg := m.Config
	logger := newLogger(cfg, stderr)
	docset := fs.NewDocset(cfg.DocsetRoot)

	if err := fs.ResetDir(docset.DocumentsDir()); err != nil {
		return fmt.Errorf("reset %s: %w", docset.DocumentsDir(), err)
	}

	mirror, finish, err := m.newMirror(cfg, stderr, logger)
	if err != nil {
		return err
	}
	err = mirror.Fetch(ctx, cfg.SourceURL, docset.DocumentsDir())
	finish()
	if err != nil {
		return fmt.Errorf("mirror %s: %w", cfg.SourceURL, err)
	}

	m.DB = sqlite.NewDB(docset.IndexPath())
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open index at %q: %w", docset.IndexPath(), err)
	}

	var store kdoc.IndexStore = sqlite.NewIndexStore(m.DB)
	if cfg.Debug {
		store = kdocslog.NewLoggingIndexStore(store, logger)
	}

	walker, err := fs.NewWalker()
	if err != nil {
		return err
	}

	ix := &indexer.Indexer{
		Pages:  walker,
		Parser: goquery.NewPageParser(),
		Store:  store,
		OnEntry: func(e kdoc.Entry) {
			fmt.Fprintln(stdout, e)
		},
	}

	begin := time.Now()
	result, err := ix.Run(ctx, docset.DocumentsDir())
	if err != nil {
		return err
	}
	logger.Info("index built",
		"pages", result.Pages,
		"blocks", result.Blocks,
		"inserted", result.Inserted,
		"duplicates", result.Duplicates,
		"skipped", result.Skipped,
		"digest", fmt.Sprintf("%016x", result.Digest),
		"duration", time.Since(begin),
	)

	info := etree.Info{
		Identifier:     bundleIdentifier,
		Name:           bundleName,
		PlatformFamily: platformFamily,
		IndexFilePath:  indexFilePath(cfg.SourceURL),
	}
	if err := etree.WritePlist(docset.PlistPath(), info); err != nil {
		return fmt.Errorf("write %s: %w", docset.PlistPath(), err)
	}
	return nil
}

// newMirror picks the mirror for cfg. The returned finish func must be
// called once the mirror returns.
func (m *Main) newMirror(cfg Config, stderr io.Writer, logger *slog.Logger) (kdoc.Mirror, func(), error) {
	noop := func() {}
	if m.Mirror != nil {
		return m.wrapMirror(m.Mirror, cfg, logger), noop, nil
	}

	switch cfg.Mirror {
	case MirrorAuto, MirrorWget:
		w := wget.NewMirror(wget.WithOutput(stderr, stderr))
		if w.Available() {
			return m.wrapMirror(w, cfg, logger), noop, nil
		}
		if cfg.Mirror == MirrorWget {
			return nil, nil, kdoc.Errorf(kdoc.EUNAVAILABLE, "wget not found on PATH; set %s=%s to use the built-in mirror", envMirror, MirrorNative)
		}
		logger.Info("wget not found, using built-in mirror")
	case MirrorNative:
	default:
		return nil, nil, kdoc.Errorf(kdoc.EINVALID, "unknown %s value %q (want %s or %s)", envMirror, cfg.Mirror, MirrorWget, MirrorNative)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(stderr),
		progressbar.OptionSetDescription("Mirroring"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	var fetcher kdoc.Fetcher = kdochttp.NewFetcher()
	if cfg.Debug {
		fetcher = kdocslog.NewLoggingFetcher(fetcher, logger)
	}

	native := &crawl.Mirror{
		Fetcher:     fetcher,
		RateLimiter: crawl.NewDomainLimiter(crawl.DefaultRequestsPerSecond),
		Concurrency: crawl.DefaultConcurrency,
		Progress: func(p kdoc.MirrorProgress) {
			if p.Error != nil {
				logger.Warn("skipped resource", "url", p.URL, "err", p.Error)
			}
			bar.Describe(fmt.Sprintf("Mirroring (%d queued)", p.Queued))
			_ = bar.Add(1)
		},
		Logger: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	}

	finish := func() {
		_ = bar.Finish()
	}
	return m.wrapMirror(native, cfg, logger), finish, nil
}

func (m *Main) wrapMirror(mirror kdoc.Mirror, cfg Config, logger *slog.Logger) kdoc.Mirror {
	if cfg.Debug {
		return kdocslog.NewLoggingMirror(mirror, logger)
	}
	return mirror
}

// newLogger returns a text logger on stderr tagged with a run id when
// debugging, and a logger that discards everything otherwise.
func newLogger(cfg Config, stderr io.Writer) *slog.Logger {
	if !cfg.Debug {
		return slog.New(slog.DiscardHandler)
	}
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler).With("run", uuid.NewString())
}

// indexFilePath is the docset's landing page: the local path the mirror
// stores the source URL under.
func indexFilePath(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	return crawl.LocalPath(u, true)
}

// errorText returns the message shown to the user for err.
func errorText(err error) string {
	if kdoc.ErrorCode(err) == kdoc.EINTERNAL {
		return err.Error()
	}
	return kdoc.ErrorMessage(err)
}
