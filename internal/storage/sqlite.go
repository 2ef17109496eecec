package storage

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 1

// SQLite stores entries in a single table of a SQLite database.
type SQLite struct {
	db       *sql.DB
	path     string
	interval time.Duration

	hub      *Hub
	pollOnce sync.Once
	pollCtx  context.Context
	stopPoll context.CancelFunc
}

// NewSQLite opens (and migrates) the database at path. A positive interval
// enables polling for commits made by other connections.
func NewSQLite(path string, interval time.Duration) (*SQLite, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, wrap("open", "", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, wrap("open", "", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrap("open", "", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &SQLite{
		db:       db,
		path:     path,
		interval: interval,
		hub:      NewHub(),
		pollCtx:  ctx,
		stopPoll: cancel,
	}
	if err := s.migrate(); err != nil {
		cancel()
		db.Close()
		return nil, wrap("migrate", "", err)
	}

	return s, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + path + "?" + q.Encode()
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close stops the change poller and closes the database connection.
func (s *SQLite) Close() error {
	s.stopPoll()
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}
	if version >= currentSchemaVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLite) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS entries (
			name TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) All(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM entries ORDER BY name")
	if err != nil {
		return nil, wrap("read", "", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, wrap("read", "", err)
		}
		out[name] = []byte(value)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("read", "", err)
	}

	return out, nil
}

func (s *SQLite) Get(ctx context.Context, name string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM entries WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get", name, err)
	}
	return []byte(value), nil
}

func (s *SQLite) Set(ctx context.Context, name string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, name, string(value))
	return wrap("set", name, err)
}

func (s *SQLite) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE name = ?", name)
	return wrap("delete", name, err)
}

func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM entries")
	return wrap("clear", "", err)
}

// Watch subscribes to change hints. Hints are driven by PRAGMA data_version
// on a dedicated connection, which changes on every commit made through
// any other connection, including this process's pool.
func (s *SQLite) Watch(ctx context.Context) (<-chan struct{}, error) {
	if s.interval > 0 {
		var startErr error
		s.pollOnce.Do(func() {
			conn, err := s.db.Conn(s.pollCtx)
			if err != nil {
				startErr = wrap("watch", "", err)
				return
			}
			last, err := dataVersion(s.pollCtx, conn)
			if err != nil {
				conn.Close()
				startErr = wrap("watch", "", err)
				return
			}
			go s.poll(s.pollCtx, conn, last)
		})
		if startErr != nil {
			return nil, startErr
		}
	}
	return s.hub.Subscribe(ctx), nil
}

func (s *SQLite) poll(ctx context.Context, conn *sql.Conn, last int64) {
	defer conn.Close()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		v, err := dataVersion(ctx, conn)
		if err != nil || v == last {
			continue
		}
		last = v
		s.hub.Notify()
	}
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v)
	return v, err
}
