package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
)

// SQLiteCacheStore cache records in a single SQLite table
type SQLiteCacheStore struct {
	db *sql.DB
}

// NewSQLiteCacheStore opens (creating if needed) the database at dbPath
func NewSQLiteCacheStore(dbPath string) (*SQLiteCacheStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// single writer, concurrent searches serialize here instead of hitting SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := createCacheSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteCacheStore{db: db}, nil
}

func createCacheSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS search_cache (
	key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteCacheStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM search_cache WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *SQLiteCacheStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO search_cache (key, payload, updated_at) VALUES (?, ?, ?)`,
		key, value, time.Now())
	return err
}

func (s *SQLiteCacheStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM search_cache WHERE key = ?`, key)
	return err
}

func (s *SQLiteCacheStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM search_cache WHERE key = ?`, key).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
