package quotestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// Backend names accepted by New
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// New builds the store selected by backend. The returned closer releases
// the store's resources and is never nil.
func New(backend, dir, dbPath string) (domain.QuoteStore, io.Closer, error) {
	switch backend {
	case BackendFile, "":
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "fondfolio-quotes")
		}
		store, err := NewFileStore(dir)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	case BackendSQLite:
		if dbPath == "" {
			dbPath = filepath.Join(os.TempDir(), "fondfolio-quotes.db")
		}
		store, err := NewSQLiteStore(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case BackendMemory:
		return NewMemoryStore(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown quote cache backend %q", backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
