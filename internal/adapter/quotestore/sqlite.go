package quotestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS quote_cache (
	ticker     TEXT PRIMARY KEY,
	fetch_time INTEGER NOT NULL,
	data       TEXT NOT NULL
)`

// SQLiteStore keeps entries in a single sqlite table, one row per ticker
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create quote_cache table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, ticker string) (*domain.QuoteCacheEntry, error) {
	var (
		fetchTime int64
		data      string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT fetch_time, data FROM quote_cache WHERE ticker = ?`, ticker,
	).Scan(&fetchTime, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get quote cache for %s: %w", ticker, err)
	}

	var quotes []domain.Quote
	if err := json.Unmarshal([]byte(data), &quotes); err != nil {
		return nil, fmt.Errorf("failed to decode quote cache for %s: %w", ticker, err)
	}

	return &domain.QuoteCacheEntry{
		Ticker:    ticker,
		FetchTime: time.Unix(fetchTime, 0),
		Quotes:    quotes,
	}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, entry *domain.QuoteCacheEntry) error {
	quotes := entry.Quotes
	if quotes == nil {
		quotes = []domain.Quote{}
	}
	data, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("failed to encode quote cache for %s: %w", entry.Ticker, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quote_cache (ticker, fetch_time, data) VALUES (?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET fetch_time = excluded.fetch_time, data = excluded.data
	`, entry.Ticker, entry.FetchTime.Unix(), string(data))
	if err != nil {
		return fmt.Errorf("failed to put quote cache for %s: %w", entry.Ticker, err)
	}
	return nil
}
