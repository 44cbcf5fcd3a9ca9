package quotes

import (
	"time"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

const (
	// CloseHour is the hour of day after which the daily close price is considered published
	CloseHour = 18

	// MinRefreshInterval is the minimum age of a cache entry before it may be refetched
	MinRefreshInterval = 30 * time.Minute
)

// IsExpired reports whether a cached entry must be refetched at instant now.
// An entry is fresh when:
//   - now falls on a weekend (no new close prices), or
//   - it was fetched after CloseHour today, or
//   - it was fetched less than MinRefreshInterval ago.
//
// Every other entry is expired. Wall clock rules are evaluated in now's location.
func IsExpired(entry *domain.QuoteCacheEntry, now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	closeOfDay := time.Date(now.Year(), now.Month(), now.Day(), CloseHour, 0, 0, 0, now.Location())
	if entry.FetchTime.After(closeOfDay) {
		return false
	}

	if now.Sub(entry.FetchTime) < MinRefreshInterval {
		return false
	}

	return true
}
