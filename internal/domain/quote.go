package domain

import (
	"encoding/json"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Quote is one day's price record for a ticker
// Immutable once fetched
type Quote struct {
	Date   civil.Date      `json:"quote_date"`
	Ticker string          `json:"ticker"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
	Value  decimal.Decimal `json:"value"`
}

// QuoteCacheEntry is the unit stored per ticker by a QuoteStore.
// It is overwritten wholesale on refresh.
type QuoteCacheEntry struct {
	Ticker    string
	FetchTime time.Time
	Quotes    []Quote
}

type quoteCacheEntryJSON struct {
	Ticker    string  `json:"ticker"`
	FetchTime int64   `json:"fetch_time"`
	Quotes    []Quote `json:"quotes"`
}

// MarshalJSON stores fetch_time as integer epoch seconds
func (e QuoteCacheEntry) MarshalJSON() ([]byte, error) {
	quotes := e.Quotes
	if quotes == nil {
		quotes = []Quote{}
	}
	return json.Marshal(quoteCacheEntryJSON{
		Ticker:    e.Ticker,
		FetchTime: e.FetchTime.Unix(),
		Quotes:    quotes,
	})
}

func (e *QuoteCacheEntry) UnmarshalJSON(data []byte) error {
	var raw quoteCacheEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Ticker = raw.Ticker
	e.FetchTime = time.Unix(raw.FetchTime, 0)
	e.Quotes = raw.Quotes
	return nil
}
