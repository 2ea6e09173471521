// Package slog provides logging decorators for kdoc services.
package slog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/kdoc"
)

// Ensure LoggingIndexStore implements kdoc.IndexStore.
var _ kdoc.IndexStore = (*LoggingIndexStore)(nil)

// LoggingIndexStore wraps an IndexStore with logging. Individual inserts
// are logged at debug level; the commit reports the run's totals.
type LoggingIndexStore struct {
	next       kdoc.IndexStore
	logger     *slog.Logger
	begin      time.Time
	inserted   atomic.Int64
	duplicates atomic.Int64
}

// NewLoggingIndexStore creates a new LoggingIndexStore.
func NewLoggingIndexStore(next kdoc.IndexStore, logger *slog.Logger) *LoggingIndexStore {
	return &LoggingIndexStore{next: next, logger: logger}
}

// Reset delegates to the wrapped store and logs the operation.
func (s *LoggingIndexStore) Reset(ctx context.Context) (err error) {
	s.begin = time.Now()
	defer func(begin time.Time) {
		s.logger.Info("index reset",
			"duration", time.Since(begin),
			"err", err,
		)
	}(s.begin)
	return s.next.Reset(ctx)
}

// InsertIfAbsent delegates to the wrapped store and logs the entry.
func (s *LoggingIndexStore) InsertIfAbsent(ctx context.Context, entry kdoc.Entry) (inserted bool, err error) {
	defer func() {
		if err == nil {
			if inserted {
				s.inserted.Add(1)
			} else {
				s.duplicates.Add(1)
			}
		}
		s.logger.Debug("index insert",
			"name", entry.Name,
			"kind", entry.Kind,
			"path", entry.Path,
			"inserted", inserted,
			"err", err,
		)
	}()
	return s.next.InsertIfAbsent(ctx, entry)
}

// Commit delegates to the wrapped store and logs the run's totals.
func (s *LoggingIndexStore) Commit() (err error) {
	defer func() {
		s.logger.Info("index commit",
			"inserted", s.inserted.Load(),
			"ignored", s.duplicates.Load(),
			"duration", time.Since(s.begin),
			"err", err,
		)
	}()
	return s.next.Commit()
}

// Abort delegates to the wrapped store and logs the rollback.
func (s *LoggingIndexStore) Abort() (err error) {
	defer func() {
		s.logger.Warn("index abort",
			"inserted", s.inserted.Load(),
			"err", err,
		)
	}()
	return s.next.Abort()
}
