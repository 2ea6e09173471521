package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kdoc"
)

// Ensure decorators implement their interfaces.
var (
	_ kdoc.Mirror  = (*LoggingMirror)(nil)
	_ kdoc.Fetcher = (*LoggingFetcher)(nil)
)

// LoggingMirror wraps a Mirror with logging.
type LoggingMirror struct {
	next   kdoc.Mirror
	logger *slog.Logger
}

// NewLoggingMirror creates a new LoggingMirror.
func NewLoggingMirror(next kdoc.Mirror, logger *slog.Logger) *LoggingMirror {
	return &LoggingMirror{next: next, logger: logger}
}

// Fetch delegates to the wrapped mirror and logs the operation.
func (m *LoggingMirror) Fetch(ctx context.Context, url, destDir string) (err error) {
	m.logger.Info("mirror start", "url", url, "dest", destDir)
	defer func(begin time.Time) {
		m.logger.Info("mirror",
			"url", url,
			"dest", destDir,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Fetch(ctx, url, destDir)
}

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   kdoc.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next kdoc.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *kdoc.Resource, err error) {
	defer func(begin time.Time) {
		var size int
		var contentType string
		if res != nil {
			size = len(res.Body)
			contentType = res.ContentType
		}
		f.logger.Debug("fetch",
			"url", url,
			"type", contentType,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
