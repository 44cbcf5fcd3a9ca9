// Package quotestore holds the domain.QuoteStore implementations
package quotestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// FileStore keeps one JSON document per ticker in a directory
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted there
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create quote cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file an entry for ticker is stored in
func (s *FileStore) Path(ticker string) string {
	// tickers never contain path separators in practice, but keep the file inside dir
	name := strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(ticker)
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Get(ctx context.Context, ticker string) (*domain.QuoteCacheEntry, error) {
	data, err := os.ReadFile(s.Path(ticker))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read quote cache for %s: %w", ticker, err)
	}

	var entry domain.QuoteCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode quote cache for %s: %w", ticker, err)
	}
	return &entry, nil
}

// Put writes the entry to a temporary file and renames it over the old one
func (s *FileStore) Put(ctx context.Context, entry *domain.QuoteCacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode quote cache for %s: %w", entry.Ticker, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".quotes-*")
	if err != nil {
		return fmt.Errorf("failed to write quote cache for %s: %w", entry.Ticker, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write quote cache for %s: %w", entry.Ticker, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write quote cache for %s: %w", entry.Ticker, err)
	}

	if err := os.Rename(tmp.Name(), s.Path(entry.Ticker)); err != nil {
		return fmt.Errorf("failed to write quote cache for %s: %w", entry.Ticker, err)
	}
	return nil
}
