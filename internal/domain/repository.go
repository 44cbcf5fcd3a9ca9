package domain

import (
	"context"

	"github.com/google/uuid"
)

// PortfolioRepository defines the interface for portfolio document persistence
type PortfolioRepository interface {
	// Get loads the portfolio owned by userID
	Get(ctx context.Context, userID int64) (*Portfolio, error)

	// Save overwrites the whole portfolio document
	Save(ctx context.Context, portfolio *Portfolio) error

	// ListTickers returns every ticker registered in any portfolio, without duplicates
	ListTickers(ctx context.Context) ([]string, error)
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	// GetByID retrieves a user by its ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// Create creates a new user with an empty portfolio and returns its ID
	Create(ctx context.Context, user *User) (int64, error)
}

// SessionRepository defines the interface for session persistence operations
type SessionRepository interface {
	// Get retrieves a session by key
	Get(ctx context.Context, key uuid.UUID) (*Session, error)

	// Replace deletes all sessions of session.UserID and stores session
	Replace(ctx context.Context, session *Session) error

	// Delete removes the session with the given key
	Delete(ctx context.Context, key uuid.UUID) error
}

// QuoteSource fetches a complete quote series for a ticker from a remote service
type QuoteSource interface {
	FetchQuotes(ctx context.Context, ticker string) (*QuoteCacheEntry, error)
}

// QuoteStore is a keyed store of cached quote series.
// Get returns ErrCacheMiss when nothing is stored for ticker.
type QuoteStore interface {
	Get(ctx context.Context, ticker string) (*QuoteCacheEntry, error)
	Put(ctx context.Context, entry *QuoteCacheEntry) error
}

// QuoteProvider returns the ascending, gap-free quote series of a ticker
type QuoteProvider interface {
	GetQuotes(ctx context.Context, ticker string) ([]Quote, error)
}
