package aggregator

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// DepositLedger reports the portfolio-wide amount deposited on a date
type DepositLedger interface {
	DepositsOn(date civil.Date) decimal.Decimal
}

// Aggregate merges the development curves of several funds into one combined curve.
// Logic:
//  1. For each row of each fund, add value and deposit into the accumulator row with
//     the same date, or append the row if the date is new
//  2. Sort the accumulator by date
//  3. Total deposited = sum over every date in the result of ledger.DepositsOn(date)
//
// The total is taken from the fund-level ledgers rather than the merged rows.
// Input rows are not mutated.
func Aggregate(developments map[string][]domain.DevelopmentRow, ledger DepositLedger) ([]domain.DevelopmentRow, decimal.Decimal) {
	combined := make([]domain.DevelopmentRow, 0)
	index := make(map[civil.Date]int)

	for _, rows := range developments {
		for _, row := range rows {
			if i, ok := index[row.Date]; ok {
				combined[i].Value = combined[i].Value.Add(row.Value)
				combined[i].Deposit = combined[i].Deposit.Add(row.Deposit)
				continue
			}
			index[row.Date] = len(combined)
			combined = append(combined, row)
		}
	}

	sort.Slice(combined, func(i, j int) bool {
		return combined[i].Date.Before(combined[j].Date)
	})

	total := decimal.Zero
	for _, row := range combined {
		total = total.Add(ledger.DepositsOn(row.Date))
	}

	return combined, total
}

// BuildSummary returns the individual fund summaries followed by the synthetic
// combined portfolio entry
func BuildSummary(funds []domain.FundSummary, ledger DepositLedger) []domain.FundSummary {
	developments := make(map[string][]domain.DevelopmentRow, len(funds))
	for _, f := range funds {
		developments[f.Ticker] = f.Development
	}

	combined, total := Aggregate(developments, ledger)

	result := make([]domain.FundSummary, 0, len(funds)+1)
	result = append(result, funds...)
	result = append(result, domain.FundSummary{
		Ticker:         domain.PortfolioTicker,
		Name:           domain.PortfolioTicker,
		Development:    combined,
		TotalDeposited: total,
	})
	return result
}
