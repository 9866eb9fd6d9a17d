package httpcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/apex/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists cached responses to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite cache database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets a watch process and one-off renders share the file.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Debug("sqlite cache opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS responses (
			key       TEXT PRIMARY KEY,
			response  BLOB NOT NULL,
			stored_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_stored ON responses(stored_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:30], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	var (
		body     []byte
		storedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT response, stored_at FROM responses WHERE key = ?`, key,
	).Scan(&body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache: %w", err)
	}
	return &Entry{Key: key, Response: body, StoredAt: time.Unix(0, storedAt)}, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (key, response, stored_at) VALUES (?,?,?)`,
		e.Key, e.Response, e.StoredAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE stored_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var (
		st             Stats
		oldest, newest sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(response)), 0), MIN(stored_at), MAX(stored_at) FROM responses`,
	).Scan(&st.Entries, &st.Bytes, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	if oldest.Valid {
		st.Oldest = time.Unix(0, oldest.Int64)
	}
	if newest.Valid {
		st.Newest = time.Unix(0, newest.Int64)
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	log.Debug("closing sqlite cache")
	return s.db.Close()
}
