package domain

// PortfolioDocument is the persisted shape of a portfolio.
// It is written back as a whole on every change.
type PortfolioDocument struct {
	UserID int64          `json:"user_id"`
	Funds  []FundDocument `json:"funds"`
}

// FundDocument is the persisted shape of a fund
type FundDocument struct {
	Ticker   string    `json:"ticker"`
	Name     string    `json:"name"`
	Deposits []Deposit `json:"deposits"`
}

// Document converts the portfolio into its persisted shape, funds ordered by ticker
func (p *Portfolio) Document() PortfolioDocument {
	doc := PortfolioDocument{
		UserID: p.UserID,
		Funds:  make([]FundDocument, 0, len(p.Funds)),
	}

	for _, ticker := range p.Tickers() {
		fund := p.Funds[ticker]
		deposits := make([]Deposit, len(fund.Deposits))
		copy(deposits, fund.Deposits)

		doc.Funds = append(doc.Funds, FundDocument{
			Ticker:   fund.Ticker,
			Name:     fund.Name,
			Deposits: deposits,
		})
	}
	return doc
}

// PortfolioFromDocument rebuilds a portfolio from its persisted shape.
// Duplicate tickers and duplicate deposit dates are rejected.
func PortfolioFromDocument(doc PortfolioDocument) (*Portfolio, error) {
	p := NewPortfolio(doc.UserID)

	for _, fd := range doc.Funds {
		if err := p.AddFund(fd.Ticker, fd.Name); err != nil {
			return nil, err
		}
		fund := p.Funds[fd.Ticker]
		for _, d := range fd.Deposits {
			if err := fund.AddDeposit(d.Amount, d.Date); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}
