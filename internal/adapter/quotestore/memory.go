package quotestore

import (
	"context"
	"sync"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// MemoryStore keeps entries in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.QuoteCacheEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]domain.QuoteCacheEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, ticker string) (*domain.QuoteCacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[ticker]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	entry.Quotes = append([]domain.Quote(nil), entry.Quotes...)
	return &entry, nil
}

func (s *MemoryStore) Put(ctx context.Context, entry *domain.QuoteCacheEntry) error {
	stored := *entry
	stored.Quotes = append([]domain.Quote(nil), entry.Quotes...)

	s.mu.Lock()
	s.entries[entry.Ticker] = stored
	s.mu.Unlock()
	return nil
}
