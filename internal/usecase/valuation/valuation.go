package valuation

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// NoDepositWindow is the number of most recent quotes valuated for a fund without deposits
const NoDepositWindow = 10

// Valuate replays the fund's deposits against its quote series.
// Logic:
//  1. Window: from the quote matching the first deposit date (searching backward,
//     so the most recent match wins) to the end of the series. Without deposits the
//     window is the last NoDepositWindow quotes.
//  2. For each day i: growth_i = close_i / close_{i-1} (1 on the first day),
//     cash_i = cash_{i-1} * growth_i + deposit_i
//
// Quotes must be ascending and gap-free (see gapfill.FillGaps).
// Returns ErrQuoteDateNotFound when the first deposit date is not in the series and
// ErrInvalidPrice when a closing price that would be divided by is not positive.
func Valuate(fund *domain.Fund, quotes []domain.Quote) ([]domain.DevelopmentRow, error) {
	window, err := evaluationWindow(fund, quotes)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.DevelopmentRow, 0, len(window))
	cash := decimal.Zero

	for i, q := range window {
		deposit := fund.DepositOn(q.Date)

		if i > 0 {
			prevClose := window[i-1].Close
			if !prevClose.IsPositive() {
				return nil, fmt.Errorf("%w: %s on %s is %s", domain.ErrInvalidPrice, fund.Ticker, window[i-1].Date, prevClose)
			}
			// multiply before dividing so exact ratios stay exact
			cash = cash.Mul(q.Close).Div(prevClose)
		}
		cash = cash.Add(deposit)

		rows = append(rows, domain.DevelopmentRow{
			Date:    q.Date,
			Value:   cash,
			Deposit: deposit,
		})
	}

	return rows, nil
}

// Summarize valuates the fund and totals the deposits inside the evaluation window
func Summarize(fund *domain.Fund, quotes []domain.Quote) (domain.FundSummary, error) {
	rows, err := Valuate(fund, quotes)
	if err != nil {
		return domain.FundSummary{}, err
	}

	return domain.FundSummary{
		Ticker:         fund.Ticker,
		Name:           fund.Name,
		Development:    rows,
		TotalDeposited: TotalDeposited(rows),
	}, nil
}

// TotalDeposited sums the deposit column of a development curve
func TotalDeposited(rows []domain.DevelopmentRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Deposit)
	}
	return total
}

func evaluationWindow(fund *domain.Fund, quotes []domain.Quote) ([]domain.Quote, error) {
	first, ok := fund.FirstDeposit()
	if !ok {
		start := len(quotes) - NoDepositWindow
		if start < 0 {
			start = 0
		}
		return quotes[start:], nil
	}

	idx := findLastQuoteIndex(quotes, first.Date)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s has no quote on %s", domain.ErrQuoteDateNotFound, fund.Ticker, first.Date)
	}
	return quotes[idx:], nil
}

// findLastQuoteIndex searches from the end of the series and returns the index of
// the most recent quote dated date, -1 if there is none
func findLastQuoteIndex(quotes []domain.Quote, date civil.Date) int {
	for i := len(quotes) - 1; i >= 0; i-- {
		if quotes[i].Date == date {
			return i
		}
	}
	return -1
}
