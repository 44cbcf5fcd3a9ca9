package quotes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/simaogato/fondfolio-backend/internal/domain"
	"github.com/simaogato/fondfolio-backend/internal/usecase/gapfill"
)

// Option configures a Cache
type Option func(*Cache)

// WithClock sets the time source used for fetch times and staleness checks
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLocation sets the location in which the staleness wall clock rules are evaluated
func WithLocation(loc *time.Location) Option {
	return func(c *Cache) {
		c.loc = loc
	}
}

// WithStaleFallback serves an expired entry when its refresh fails instead of
// returning the fetch error
func WithStaleFallback(enabled bool) Option {
	return func(c *Cache) {
		c.staleFallback = enabled
	}
}

// Cache serves quote series per ticker, backed by a QuoteStore and refreshed
// from a QuoteSource according to IsExpired.
// Concurrent loads of the same ticker share one store read / remote fetch.
type Cache struct {
	Source domain.QuoteSource
	Store  domain.QuoteStore

	log           zerolog.Logger
	now           func() time.Time
	loc           *time.Location
	staleFallback bool

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]*domain.QuoteCacheEntry
}

// NewCache creates a new Cache instance
func NewCache(source domain.QuoteSource, store domain.QuoteStore, log zerolog.Logger, opts ...Option) *Cache {
	c := &Cache{
		Source:  source,
		Store:   store,
		log:     log.With().Str("component", "quote_cache").Logger(),
		now:     time.Now,
		loc:     time.Local,
		entries: make(map[string]*domain.QuoteCacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetQuotes returns the quote series of ticker, oldest first and gap-free.
// Logic:
//  1. No cached entry: fetch from the source and cache it
//  2. Cached but expired: refetch and overwrite the cache
//  3. Otherwise serve the cached entry
//
// Returns ErrInvalidTicker when nothing is cached and the source has no data,
// and a *SourceFetchError when an expired entry cannot be refreshed (the
// cached entry is left untouched).
func (c *Cache) GetQuotes(ctx context.Context, ticker string) ([]domain.Quote, error) {
	v, err := c.shared(ctx, ticker, c.load)
	if err != nil {
		return nil, err
	}

	entry := v.(*domain.QuoteCacheEntry)
	return gapfill.FillGaps(normalize(entry.Quotes)), nil
}

// Refresh unconditionally refetches ticker and overwrites its cache entry
func (c *Cache) Refresh(ctx context.Context, ticker string) error {
	_, err := c.shared(ctx, ticker, c.fetch)
	return err
}

// shared runs work once per ticker for all concurrent callers.
// The work runs detached from any single caller's cancellation; each caller
// stops waiting when its own ctx is done.
func (c *Cache) shared(ctx context.Context, ticker string, work func(context.Context, string) (*domain.QuoteCacheEntry, error)) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(ticker, func() (interface{}, error) {
		return work(detached, ticker)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) load(ctx context.Context, ticker string) (*domain.QuoteCacheEntry, error) {
	entry := c.cached(ctx, ticker)

	if entry == nil {
		fresh, err := c.fetch(ctx, ticker)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTicker) {
				return nil, err
			}
			return nil, errors.Join(fmt.Errorf("%w: %s", domain.ErrInvalidTicker, ticker), err)
		}
		return fresh, nil
	}

	if IsExpired(entry, c.now().In(c.loc)) {
		fresh, err := c.fetch(ctx, ticker)
		if err != nil {
			if c.staleFallback {
				c.log.Warn().Err(err).Str("ticker", ticker).
					Time("fetch_time", entry.FetchTime).
					Msg("Refresh failed, serving stale quotes")
				return entry, nil
			}
			return nil, err
		}
		return fresh, nil
	}

	return entry, nil
}

// cached returns the in-process entry or the stored one, nil when there is none
func (c *Cache) cached(ctx context.Context, ticker string) *domain.QuoteCacheEntry {
	c.mu.RLock()
	entry, ok := c.entries[ticker]
	c.mu.RUnlock()
	if ok {
		return entry
	}

	entry, err := c.Store.Get(ctx, ticker)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to read quote cache, treating as miss")
		}
		return nil
	}

	c.remember(ticker, entry)
	return entry
}

// fetch gets a fresh entry from the source and overwrites the cache.
// Nothing is written when the fetch fails.
func (c *Cache) fetch(ctx context.Context, ticker string) (*domain.QuoteCacheEntry, error) {
	entry, err := c.Source.FetchQuotes(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(entry.Quotes) == 0 {
		return nil, fmt.Errorf("%w: source returned no quotes for %s", domain.ErrInvalidTicker, ticker)
	}

	entry.Ticker = ticker
	if entry.FetchTime.IsZero() {
		entry.FetchTime = c.now()
	}

	if err := c.Store.Put(ctx, entry); err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Cache write failed (ignored)")
	}
	c.remember(ticker, entry)

	c.log.Debug().Str("ticker", ticker).Int("quotes", len(entry.Quotes)).Msg("Quotes fetched")
	return entry, nil
}

func (c *Cache) remember(ticker string, entry *domain.QuoteCacheEntry) {
	c.mu.Lock()
	c.entries[ticker] = entry
	c.mu.Unlock()
}

// normalize returns the quotes sorted by ascending date without duplicate dates.
// The source lists newest first.
func normalize(quotes []domain.Quote) []domain.Quote {
	sorted := make([]domain.Quote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	unique := make([]domain.Quote, 0, len(sorted))
	for _, q := range sorted {
		if len(unique) > 0 && unique[len(unique)-1].Date == q.Date {
			continue
		}
		unique = append(unique, q)
	}
	return unique
}
