package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/kdoc"
)

// Schema statements of the docset search index. DROP ... IF EXISTS keeps the
// first run, when no index exists yet, from failing.
const (
	dropIndexTable   = `DROP TABLE IF EXISTS searchIndex`
	createIndexTable = `CREATE TABLE searchIndex(id INTEGER PRIMARY KEY, name TEXT, type TEXT, path TEXT)`
	createAnchor     = `CREATE UNIQUE INDEX anchor ON searchIndex (name, type, path)`
	insertEntry      = `INSERT OR IGNORE INTO searchIndex(name, type, path) VALUES (?, ?, ?)`
)

// Compile-time interface verification.
var _ kdoc.IndexStore = (*IndexStore)(nil)

type runState int

const (
	stateIdle runState = iota
	stateOpen
	stateDone
)

// IndexStore implements kdoc.IndexStore using SQLite.
//
// A run happens inside one transaction: Reset begins it and rebuilds the
// schema, Commit persists it, Abort rolls it back and leaves the previous
// index untouched. An IndexStore serves a single run.
type IndexStore struct {
	db *DB

	mu    sync.Mutex
	state runState
	tx    *sql.Tx
	stmt  *sql.Stmt
}

// NewIndexStore creates a new IndexStore.
func NewIndexStore(db *DB) *IndexStore {
	return &IndexStore{db: db}
}

// Reset drops any previous index and recreates it with a uniqueness
// constraint over (name, type, path). Returns ECONFLICT if called twice.
func (s *IndexStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateIdle {
		return kdoc.Errorf(kdoc.ECONFLICT, "index already reset for this run")
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, stmt := range []string{dropIndexTable, createIndexTable, createAnchor} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to reset index: %w", err)
		}
	}

	insert, err := tx.PrepareContext(ctx, insertEntry)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}

	s.tx = tx
	s.stmt = insert
	s.state = stateOpen
	return nil
}

// InsertIfAbsent adds the entry unless an identical row exists.
// Entries without a name or kind are ignored.
func (s *IndexStore) InsertIfAbsent(ctx context.Context, entry kdoc.Entry) (bool, error) {
	if entry.Validate() != nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateOpen {
		return false, kdoc.Errorf(kdoc.EINVALID, "index not reset")
	}

	res, err := s.stmt.ExecContext(ctx, entry.Name, string(entry.Kind), entry.Path)
	if err != nil {
		return false, fmt.Errorf("failed to insert %q: %w", entry.Name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Commit persists the run.
func (s *IndexStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateOpen {
		return kdoc.Errorf(kdoc.EINVALID, "no index run to commit")
	}
	s.state = stateDone

	_ = s.stmt.Close()
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

// Abort discards the run. It is a no-op when nothing is pending.
func (s *IndexStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateOpen {
		return nil
	}
	s.state = stateDone

	_ = s.stmt.Close()
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back index: %w", err)
	}
	return nil
}

// FindEntries reads committed entries matching the filter in insertion
// order. It must not be called while a run is open.
func (s *IndexStore) FindEntries(ctx context.Context, filter kdoc.EntryFilter) ([]kdoc.Entry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT name, type, path FROM searchIndex WHERE 1=1")

	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Kind != nil {
		query.WriteString(" AND type = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.Path != nil {
		query.WriteString(" AND path = ?")
		args = append(args, *filter.Path)
	}

	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]kdoc.Entry, 0)
	for rows.Next() {
		var e kdoc.Entry
		var kind string
		if err := rows.Scan(&e.Name, &kind, &e.Path); err != nil {
			return nil, err
		}
		e.Kind = kdoc.SymbolKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
