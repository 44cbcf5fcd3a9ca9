package domain

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Portfolio is the collection of a user's funds, keyed by ticker
type Portfolio struct {
	UserID int64
	Funds  map[string]*Fund
}

// NewPortfolio creates an empty portfolio for a user
func NewPortfolio(userID int64) *Portfolio {
	return &Portfolio{
		UserID: userID,
		Funds:  make(map[string]*Fund),
	}
}

// Fund returns the fund registered under ticker
func (p *Portfolio) Fund(ticker string) (*Fund, error) {
	fund, ok := p.Funds[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFund, ticker)
	}
	return fund, nil
}

// Tickers returns the registered tickers in ascending order
func (p *Portfolio) Tickers() []string {
	tickers := make([]string, 0, len(p.Funds))
	for ticker := range p.Funds {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}

// AddFund registers a new fund with an empty ledger
func (p *Portfolio) AddFund(ticker, name string) error {
	if _, exists := p.Funds[ticker]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFund, ticker)
	}

	fund, err := NewFund(ticker, name, nil)
	if err != nil {
		return err
	}
	p.Funds[ticker] = fund
	return nil
}

// Deposit registers a deposit on the fund identified by ticker
func (p *Portfolio) Deposit(ticker string, date civil.Date, amount decimal.Decimal) error {
	fund, err := p.Fund(ticker)
	if err != nil {
		return err
	}
	return fund.AddDeposit(amount, date)
}

// DeleteDeposit removes the deposit made on date from the fund identified by ticker
func (p *Portfolio) DeleteDeposit(ticker string, date civil.Date) error {
	fund, err := p.Fund(ticker)
	if err != nil {
		return err
	}
	return fund.DeleteDeposit(date)
}

// DepositsOn returns the portfolio-wide deposit total for date,
// computed from the fund-level ledgers
func (p *Portfolio) DepositsOn(date civil.Date) decimal.Decimal {
	total := decimal.Zero
	for _, fund := range p.Funds {
		total = total.Add(fund.DepositOn(date))
	}
	return total
}
