package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// PortfolioTicker is the ticker and name of the synthetic combined summary entry
const PortfolioTicker = "Portfolio"

// DevelopmentRow is one day of a value curve
type DevelopmentRow struct {
	Date    civil.Date      `json:"date"`
	Value   decimal.Decimal `json:"value"`   // cumulative monetary value
	Deposit decimal.Decimal `json:"deposit"` // amount deposited on that date
}

// FundSummary is the serializable valuation result of one fund (or of the whole portfolio)
type FundSummary struct {
	Ticker         string           `json:"ticker"`
	Name           string           `json:"name"`
	Development    []DevelopmentRow `json:"development"`
	TotalDeposited decimal.Decimal  `json:"total_deposited"`
}
