// Package netfonds fetches daily paper history from a CSV quote service
package netfonds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

const (
	DefaultURLTemplate = "http://norma.netfonds.no/paperhistory.php?paper={ticker}&csv_format=csv"
	DefaultTimeout     = 15 * time.Second
	DefaultRateLimit   = 5 // requests per second

	tickerPlaceholder = "{ticker}"
)

// Client implements domain.QuoteSource against a templated CSV endpoint
type Client struct {
	urlTemplate string
	httpClient  *http.Client
	limiter     *rate.Limiter
	log         zerolog.Logger
	now         func() time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithURLTemplate sets the URL template; "{ticker}" is replaced by the escaped ticker
func WithURLTemplate(template string) ClientOption {
	return func(c *Client) {
		c.urlTemplate = template
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log.With().Str("client", "netfonds").Logger()
	}
}

// WithClock sets the time source used to stamp fetch times
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new quote source client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		urlTemplate: DefaultURLTemplate,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:     zerolog.Nop(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// URL returns the address quotes for ticker are fetched from
func (c *Client) URL(ticker string) string {
	return strings.ReplaceAll(c.urlTemplate, tickerPlaceholder, url.QueryEscape(ticker))
}

// FetchQuotes performs one GET for ticker and parses the CSV body.
// Transport failures and non-200 statuses are returned as *domain.SourceFetchError.
// Quotes are returned in source order (newest first).
func (c *Client) FetchQuotes(ctx context.Context, ticker string) (*domain.QuoteCacheEntry, error) {
	addr := c.URL(ticker)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.SourceFetchError{Ticker: ticker, URL: addr, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, &domain.SourceFetchError{Ticker: ticker, URL: addr, Err: err}
	}

	fetchTime := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.SourceFetchError{Ticker: ticker, URL: addr, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().Str("ticker", ticker).Str("status", resp.Status).Msg("GET quotes")

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.SourceFetchError{Ticker: ticker, URL: addr, StatusCode: resp.StatusCode}
	}

	quotes, err := ParseCSV(resp.Body, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quotes for %s: %w", ticker, err)
	}

	return &domain.QuoteCacheEntry{
		Ticker:    ticker,
		FetchTime: fetchTime,
		Quotes:    quotes,
	}, nil
}
