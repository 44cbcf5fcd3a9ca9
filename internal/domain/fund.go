package domain

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Deposit is an amount of cash put into a fund on a given day
type Deposit struct {
	Date   civil.Date      `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Fund is a tracked investment identified by its ticker.
// A fund owns its deposit ledger; the ledger is kept sorted by date
// and holds at most one deposit per date.
type Fund struct {
	Ticker   string
	Name     string
	Deposits []Deposit
}

// NewFund creates a fund with the given ledger.
// Returns ErrInvalidFund for an empty ticker and ErrDuplicateDeposit if two deposits share a date.
func NewFund(ticker, name string, deposits []Deposit) (*Fund, error) {
	if ticker == "" {
		return nil, ErrInvalidFund
	}

	f := &Fund{Ticker: ticker, Name: name}
	for _, d := range deposits {
		if err := f.AddDeposit(d.Amount, d.Date); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// AddDeposit registers a deposit and keeps the ledger sorted by date
func (f *Fund) AddDeposit(amount decimal.Decimal, date civil.Date) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if f.hasDepositOn(date) {
		return fmt.Errorf("%w: %s on %s", ErrDuplicateDeposit, f.Ticker, date)
	}

	f.Deposits = append(f.Deposits, Deposit{Date: date, Amount: amount})
	sort.SliceStable(f.Deposits, func(i, j int) bool {
		return f.Deposits[i].Date.Before(f.Deposits[j].Date)
	})
	return nil
}

// DeleteDeposit removes the deposit registered on date.
// Fails with ErrDepositNotFound unless exactly one deposit was removed.
func (f *Fund) DeleteDeposit(date civil.Date) error {
	kept := make([]Deposit, 0, len(f.Deposits))
	for _, d := range f.Deposits {
		if d.Date != date {
			kept = append(kept, d)
		}
	}

	if removed := len(f.Deposits) - len(kept); removed != 1 {
		return fmt.Errorf("%w: %s on %s (%d matched)", ErrDepositNotFound, f.Ticker, date, removed)
	}
	f.Deposits = kept
	return nil
}

// DepositOn returns the sum of all deposits made on date (zero if none)
func (f *Fund) DepositOn(date civil.Date) decimal.Decimal {
	total := decimal.Zero
	for _, d := range f.Deposits {
		if d.Date == date {
			total = total.Add(d.Amount)
		}
	}
	return total
}

// FirstDeposit returns the earliest deposit, false if the ledger is empty
func (f *Fund) FirstDeposit() (Deposit, bool) {
	if len(f.Deposits) == 0 {
		return Deposit{}, false
	}
	first := f.Deposits[0]
	for _, d := range f.Deposits[1:] {
		if d.Date.Before(first.Date) {
			first = d
		}
	}
	return first, true
}

func (f *Fund) hasDepositOn(date civil.Date) bool {
	for _, d := range f.Deposits {
		if d.Date == date {
			return true
		}
	}
	return false
}
