// Package gavdb provides read-only access to the Maven Central metadata
// database (mavendb.sqlite).
//
// The database is built out-of-band and distributed outside version control;
// as of August 2025 it is 26 GB. This package never writes to it: the file
// is opened read-only with query_only set, and during upstream maintenance
// windows the file may disappear or be replaced wholesale. Queries during
// that window return ErrUnavailable, and a filesystem watch reopens the
// pool once a new file shows up.
package gavdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	_ "modernc.org/sqlite"
)

// Sentinel errors returned by query methods.
var (
	// ErrNotFound means no row matched the query.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means the database file is missing or unreadable,
	// typically during a maintenance swap.
	ErrUnavailable = errors.New("database unavailable")
)

// maxReadConns bounds the read pool. The file is opened read-only so
// readers never contend on locks; 8 connections covers typical VPS core
// counts without ballooning the per-connection page cache.
const maxReadConns = 8

// perfPragmas tune each connection for large read-only scans. Values come
// from the upstream database build notes:
//   - cache_size 100,000 pages at 4 KiB = 400 MB
//   - mmap_size 512 MB
//   - journal_size_limit 32 MB
var perfPragmas = []string{
	"query_only(1)",
	"journal_mode(DELETE)",
	"synchronous(NORMAL)",
	"cache_size(100000)",
	"journal_size_limit(33554432)",
	"mmap_size(536870912)",
	"temp_store(MEMORY)",
}

// DB is a handle to the metadata database. It survives the backing file
// being swapped out: Reopen replaces the pool atomically and in-flight
// queries on the old pool drain naturally.
type DB struct {
	path string

	mu sync.RWMutex
	db *sql.DB // nil while unavailable
}

// Open creates a DB handle for the given path. The file not existing is
// not an error: the handle starts unavailable and Reopen (or the watcher)
// attaches once the file appears.
func Open(path string) (*DB, error) {
	d := &DB{path: path}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}
	if err := d.Reopen(); err != nil {
		return nil, err
	}
	return d, nil
}

// dsn builds the modernc.org/sqlite connection string. Pragmas go in the
// DSN so every pooled connection gets them, not just the first.
func (d *DB) dsn() string {
	var b strings.Builder
	b.WriteString("file:")
	b.WriteString(d.path)
	b.WriteString("?mode=ro")
	for _, p := range perfPragmas {
		b.WriteString("&_pragma=")
		b.WriteString(p)
	}
	return b.String()
}

// Reopen (re)opens the connection pool against the current file. Safe to
// call concurrently with queries.
func (d *DB) Reopen() error {
	db, err := sql.Open("sqlite", d.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxReadConns)
	db.SetMaxIdleConns(maxReadConns)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.mu.Lock()
	old := d.db
	d.db = db
	d.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// MarkUnavailable detaches the pool. Subsequent queries return
// ErrUnavailable until Reopen succeeds.
func (d *DB) MarkUnavailable() {
	d.mu.Lock()
	old := d.db
	d.db = nil
	d.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

// Available reports whether a pool is currently attached.
func (d *DB) Available() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db != nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close releases the connection pool.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// conn returns the current pool or ErrUnavailable.
func (d *DB) conn() (*sql.DB, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.db == nil {
		return nil, ErrUnavailable
	}
	return d.db, nil
}

// Watch monitors the database file and keeps the handle in sync with
// maintenance swaps: removal or rename detaches the pool, creation or
// write of a new file reopens it. Runs until ctx is cancelled.
//
// The watch is on the containing directory: the upstream publisher
// replaces the file via rename, which a watch on the file itself would
// lose track of.
func (d *DB) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(d.path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}
	base := filepath.Base(d.path)
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				switch {
				case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
					slog.InfoContext(ctx, "Database file removed, entering maintenance mode", "path", d.path)
					d.MarkUnavailable()
				case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
					if err := d.Reopen(); err != nil {
						slog.WarnContext(ctx, "Database file changed but reopen failed", "path", d.path, "err", err)
						continue
					}
					slog.InfoContext(ctx, "Database file reopened", "path", d.path)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.WarnContext(ctx, "Error watching database file", "err", err)
			}
		}
	}()
	return nil
}
