package refresh

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// Refresher forces a refetch of one ticker's quotes
type Refresher interface {
	Refresh(ctx context.Context, ticker string) error
}

// Job warms the quote cache for every ticker held in any portfolio,
// so the first summary after the market closes does not wait on the source
type Job struct {
	PortfolioRepo domain.PortfolioRepository
	Refresher     Refresher
	QuoteSuffix   string

	log zerolog.Logger
}

// NewJob creates a new refresh job
func NewJob(portfolioRepo domain.PortfolioRepository, refresher Refresher, quoteSuffix string, log zerolog.Logger) *Job {
	return &Job{
		PortfolioRepo: portfolioRepo,
		Refresher:     refresher,
		QuoteSuffix:   quoteSuffix,
		log:           log.With().Str("job", "quote_refresh").Logger(),
	}
}

// Name returns the job name
func (j *Job) Name() string {
	return "quote_refresh"
}

// Run refreshes every ticker. A failing ticker does not stop the others;
// all failures are returned joined.
func (j *Job) Run(ctx context.Context) error {
	tickers, err := j.PortfolioRepo.ListTickers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tickers: %w", err)
	}

	var errs []error
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if err := j.Refresher.Refresh(ctx, ticker+j.QuoteSuffix); err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote refresh failed")
			errs = append(errs, fmt.Errorf("%s: %w", ticker, err))
		}
	}

	j.log.Info().
		Int("tickers", len(tickers)).
		Int("failed", len(errs)).
		Msg("Quote refresh finished")

	return errors.Join(errs...)
}
