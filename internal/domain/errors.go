package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTicker is returned when no quote data can be obtained for a ticker,
	// neither from the cache nor from the remote source
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrMalformedQuotes is returned when a quote response cannot be parsed
	// (missing header, missing close column, bad date)
	ErrMalformedQuotes = errors.New("malformed quote data")

	// ErrInvalidPrice is returned for a zero or negative closing price
	ErrInvalidPrice = errors.New("closing price must be positive")

	// ErrQuoteDateNotFound is returned when a fund's first deposit date has no quote entry
	ErrQuoteDateNotFound = errors.New("no quote found for first deposit date")

	ErrDuplicateDeposit = errors.New("a deposit for that date is already registered")
	ErrDepositNotFound  = errors.New("deposit not found")
	ErrInvalidAmount    = errors.New("deposit amount must not be negative")

	ErrDuplicateFund = errors.New("portfolio already contains fund")
	ErrUnknownFund   = errors.New("fund is not registered in the portfolio")
	ErrInvalidFund   = errors.New("fund ticker cannot be empty")

	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidSession    = errors.New("invalid session key")

	// ErrNotEnoughData is returned when a chart has fewer than two points to draw
	ErrNotEnoughData = errors.New("not enough data points")

	// ErrCacheMiss is returned by a QuoteStore when nothing is cached for a ticker
	ErrCacheMiss = errors.New("quote cache miss")
)

// SourceFetchError reports a failed remote quote fetch (transport error or non-200 status)
type SourceFetchError struct {
	Ticker     string
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *SourceFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch quotes for %s from %s: status %d", e.Ticker, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch quotes for %s from %s: %v", e.Ticker, e.URL, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}
