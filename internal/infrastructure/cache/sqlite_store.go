// Package cache persists accepted query → command pairs in SQLite.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/pkg/filesystem"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

const (
	// FileName is the database file created under ~/.aishell.
	FileName = "command_cache.db"

	// fixed-width so that last_used sorts lexically in time order
	storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
	sqliteTimeLayout = "2006-01-02 15:04:05"
)

const schema = `CREATE TABLE IF NOT EXISTS commands (
	query TEXT PRIMARY KEY,
	command TEXT NOT NULL,
	explanation TEXT,
	usage_count INTEGER DEFAULT 1,
	last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteStore is the query cache. Keys are matched exactly and case-sensitively.
// Entries are never evicted.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// DefaultPath returns ~/.aishell/command_cache.db.
func DefaultPath() string {
	return filepath.Join(filesystem.UserHomeDir(), ".aishell", FileName)
}

// Open creates (or opens) the cache database at path.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	// a single connection serializes writers, matching the single-writer model
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

// Get returns the cached entry for query. A hit increments usage_count and
// refreshes last_used; a miss leaves the table untouched.
func (s *SQLiteStore) Get(ctx context.Context, query string) (domain.CacheEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("begin cache read: %w", err)
	}
	defer tx.Rollback()

	entry := domain.CacheEntry{Query: query}
	var explanation sql.NullString
	var lastUsed string
	err = tx.QueryRowContext(ctx,
		`SELECT command, explanation, usage_count, last_used FROM commands WHERE query = ?`,
		query,
	).Scan(&entry.Command, &explanation, &entry.UsageCount, &lastUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("read cache entry: %w", err)
	}

	now := s.now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE commands SET usage_count = usage_count + 1, last_used = ? WHERE query = ?`,
		formatTime(now), query,
	); err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("update cache usage: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("commit cache read: %w", err)
	}

	entry.Explanation = explanation.String
	entry.UsageCount++
	entry.LastUsed = now
	return entry, true, nil
}

// Save upserts an accepted pair. Overwriting an existing key increments usage_count.
func (s *SQLiteStore) Save(ctx context.Context, query, command, explanation string) error {
	if query == "" || command == "" {
		return fmt.Errorf("save cache entry: query and command are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO commands (query, command, explanation, usage_count, last_used)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(query) DO UPDATE SET
			command = excluded.command,
			explanation = excluded.explanation,
			usage_count = usage_count + 1,
			last_used = excluded.last_used`,
		query, command, nullString(explanation), formatTime(s.now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("save cache entry: %w", err)
	}
	return nil
}

// Entries lists cached pairs, most recently used first. A limit of zero lists everything.
func (s *SQLiteStore) Entries(ctx context.Context, limit int) ([]domain.CacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT query, command, explanation, usage_count, last_used FROM commands ORDER BY last_used DESC, query ASC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CacheEntry
	for rows.Next() {
		var entry domain.CacheEntry
		var explanation sql.NullString
		var lastUsed string
		if err := rows.Scan(&entry.Query, &entry.Command, &explanation, &entry.UsageCount, &lastUsed); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		entry.Explanation = explanation.String
		entry.LastUsed = parseTime(lastUsed)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear deletes every cached entry.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM commands"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.Format(storedTimeLayout)
}

// parseTime accepts both our own RFC3339 values and SQLite's CURRENT_TIMESTAMP layout.
func parseTime(value string) time.Time {
	if t, err := time.Parse(storedTimeLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(sqliteTimeLayout, value); err == nil {
		return t
	}
	return time.Time{}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

var _ ports.CacheRepository = (*SQLiteStore)(nil)
