package investment

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// DepositInput is one fund's share of a deposit batch
type DepositInput struct {
	Ticker string
	Amount decimal.Decimal
}

// InvestmentService registers funds and records deposits on a user's portfolio
type InvestmentService struct {
	PortfolioRepo domain.PortfolioRepository
	Quotes        domain.QuoteProvider
	QuoteSuffix   string
}

// NewInvestmentService creates a new InvestmentService instance
func NewInvestmentService(portfolioRepo domain.PortfolioRepository, quotes domain.QuoteProvider, quoteSuffix string) *InvestmentService {
	return &InvestmentService{
		PortfolioRepo: portfolioRepo,
		Quotes:        quotes,
		QuoteSuffix:   quoteSuffix,
	}
}

// AddFund registers a new fund in the user's portfolio
// Logic:
//   - The ticker must not already be registered (ErrDuplicateFund)
//   - The quote source must know the ticker (ErrInvalidTicker otherwise)
//   - The portfolio document is saved as a whole
func (s *InvestmentService) AddFund(ctx context.Context, userID int64, ticker, name string) error {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return domain.ErrInvalidFund
	}

	portfolio, err := s.PortfolioRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get portfolio: %w", err)
	}

	if _, exists := portfolio.Funds[ticker]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateFund, ticker)
	}

	if _, err := s.Quotes.GetQuotes(ctx, ticker+s.QuoteSuffix); err != nil {
		return fmt.Errorf("failed to verify quotes for %s: %w", ticker, err)
	}

	if err := portfolio.AddFund(ticker, name); err != nil {
		return err
	}

	if err := s.PortfolioRepo.Save(ctx, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}

	return nil
}

// AddDeposits records one deposit per fund on date.
// The batch is all-or-nothing: nothing is saved when any deposit is rejected.
func (s *InvestmentService) AddDeposits(ctx context.Context, userID int64, date civil.Date, deposits []DepositInput) error {
	if !date.IsValid() {
		return fmt.Errorf("invalid deposit date %s", date)
	}

	portfolio, err := s.PortfolioRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get portfolio: %w", err)
	}

	for _, d := range deposits {
		if err := portfolio.Deposit(d.Ticker, date, d.Amount); err != nil {
			return fmt.Errorf("failed to add deposit for %s: %w", d.Ticker, err)
		}
	}

	if err := s.PortfolioRepo.Save(ctx, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}

	return nil
}

// DeleteDeposits removes the deposit made on date from each listed fund.
// The batch is all-or-nothing like AddDeposits.
func (s *InvestmentService) DeleteDeposits(ctx context.Context, userID int64, date civil.Date, tickers []string) error {
	portfolio, err := s.PortfolioRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get portfolio: %w", err)
	}

	for _, ticker := range tickers {
		if err := portfolio.DeleteDeposit(ticker, date); err != nil {
			return fmt.Errorf("failed to delete deposit for %s: %w", ticker, err)
		}
	}

	if err := s.PortfolioRepo.Save(ctx, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}

	return nil
}
