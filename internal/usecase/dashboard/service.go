package dashboard

import (
	"context"
	"fmt"

	"github.com/simaogato/fondfolio-backend/internal/domain"
	"github.com/simaogato/fondfolio-backend/internal/usecase/aggregator"
	"github.com/simaogato/fondfolio-backend/internal/usecase/valuation"
)

// DashboardService handles dashboard-related operations
type DashboardService struct {
	PortfolioRepo domain.PortfolioRepository
	Quotes        domain.QuoteProvider
	QuoteSuffix   string
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(portfolioRepo domain.PortfolioRepository, quotes domain.QuoteProvider, quoteSuffix string) *DashboardService {
	return &DashboardService{
		PortfolioRepo: portfolioRepo,
		Quotes:        quotes,
		QuoteSuffix:   quoteSuffix,
	}
}

// GetSummary values every fund of the user's portfolio
// Logic:
//   - One summary per fund, ordered by ticker, quotes fetched as ticker+QuoteSuffix
//   - The combined "Portfolio" summary is appended last
//
// Any fund that cannot be valued fails the whole summary.
func (s *DashboardService) GetSummary(ctx context.Context, userID int64) ([]domain.FundSummary, error) {
	portfolio, err := s.PortfolioRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	funds := make([]domain.FundSummary, 0, len(portfolio.Funds))
	for _, ticker := range portfolio.Tickers() {
		fund := portfolio.Funds[ticker]

		quotes, err := s.Quotes.GetQuotes(ctx, ticker+s.QuoteSuffix)
		if err != nil {
			return nil, fmt.Errorf("failed to get quotes for %s: %w", ticker, err)
		}

		summary, err := valuation.Summarize(fund, quotes)
		if err != nil {
			return nil, fmt.Errorf("failed to value %s: %w", ticker, err)
		}
		funds = append(funds, summary)
	}

	return aggregator.BuildSummary(funds, portfolio), nil
}

// RenderChart draws the combined portfolio development as a PNG
func (s *DashboardService) RenderChart(ctx context.Context, userID int64) ([]byte, error) {
	summary, err := s.GetSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	combined := summary[len(summary)-1]
	return RenderDevelopmentChart(combined.Development)
}
