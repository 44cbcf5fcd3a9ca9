package valuation

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fondfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jan(d int) civil.Date {
	return civil.Date{Year: 2016, Month: 1, Day: d}
}

// series builds consecutive daily quotes starting on jan(1)
func series(closes ...string) []domain.Quote {
	quotes := make([]domain.Quote, 0, len(closes))
	for i, c := range closes {
		quotes = append(quotes, domain.Quote{
			Date:   jan(1).AddDays(i),
			Ticker: "T1",
			Close:  decimal.RequireFromString(c),
		})
	}
	return quotes
}

func fund(t *testing.T, deposits ...domain.Deposit) *domain.Fund {
	t.Helper()
	f, err := domain.NewFund("T1", "Test Fund", deposits)
	require.NoError(t, err)
	return f
}

func assertRow(t *testing.T, row domain.DevelopmentRow, date civil.Date, value, deposit string) {
	t.Helper()
	assert.Equal(t, date, row.Date)
	assert.True(t, decimal.RequireFromString(value).Equal(row.Value),
		"value on %s: got %s, expected %s", date, row.Value, value)
	assert.True(t, decimal.RequireFromString(deposit).Equal(row.Deposit),
		"deposit on %s: got %s, expected %s", date, row.Deposit, deposit)
}

func TestValuate_SingleDeposit(t *testing.T) {
	f := fund(t, domain.Deposit{Date: jan(1), Amount: decimal.NewFromInt(1000)})

	rows, err := Valuate(f, series("100", "110", "99"))

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assertRow(t, rows[0], jan(1), "1000", "1000")
	assertRow(t, rows[1], jan(2), "1100", "0")
	assertRow(t, rows[2], jan(3), "990", "0")
}

func TestValuate_WindowStartsAtFirstDeposit(t *testing.T) {
	f := fund(t,
		domain.Deposit{Date: jan(3), Amount: decimal.NewFromInt(100)},
		domain.Deposit{Date: jan(4), Amount: decimal.NewFromInt(50)},
	)

	rows, err := Valuate(f, series("10", "20", "40", "20", "30"))

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assertRow(t, rows[0], jan(3), "100", "100")
	// 100 * 20/40 + 50
	assertRow(t, rows[1], jan(4), "100", "50")
	// 100 * 30/20
	assertRow(t, rows[2], jan(5), "150", "0")
}

func TestValuate_NoDeposits(t *testing.T) {
	closes := make([]string, 0, 15)
	for i := 1; i <= 15; i++ {
		closes = append(closes, decimal.NewFromInt(int64(i)).String())
	}
	quotes := series(closes...)

	rows, err := Valuate(fund(t), quotes)

	require.NoError(t, err)
	require.Len(t, rows, NoDepositWindow)
	for i, row := range rows {
		assert.Equal(t, quotes[5+i].Date, row.Date)
		assert.True(t, row.Value.IsZero())
		assert.True(t, row.Deposit.IsZero())
	}
}

func TestValuate_NoDepositsShortSeries(t *testing.T) {
	rows, err := Valuate(fund(t), series("1", "2", "3"))

	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestValuate_QuoteDateNotFound(t *testing.T) {
	f := fund(t, domain.Deposit{Date: jan(20), Amount: decimal.NewFromInt(100)})

	rows, err := Valuate(f, series("100", "110"))

	assert.ErrorIs(t, err, domain.ErrQuoteDateNotFound)
	assert.Nil(t, rows)
}

func TestValuate_PrefersMostRecentMatchingQuote(t *testing.T) {
	f := fund(t, domain.Deposit{Date: jan(2), Amount: decimal.NewFromInt(100)})
	quotes := []domain.Quote{
		{Date: jan(1), Close: decimal.NewFromInt(10)},
		{Date: jan(2), Close: decimal.NewFromInt(10)},
		{Date: jan(2), Close: decimal.NewFromInt(20)},
		{Date: jan(3), Close: decimal.NewFromInt(40)},
	}

	rows, err := Valuate(f, quotes)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assertRow(t, rows[0], jan(2), "100", "100")
	assertRow(t, rows[1], jan(3), "200", "0")
}

func TestValuate_ZeroPreviousClose(t *testing.T) {
	f := fund(t, domain.Deposit{Date: jan(1), Amount: decimal.NewFromInt(100)})

	_, err := Valuate(f, series("0", "10"))

	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestSummarize(t *testing.T) {
	f := fund(t,
		domain.Deposit{Date: jan(1), Amount: decimal.NewFromInt(1000)},
		domain.Deposit{Date: jan(3), Amount: decimal.NewFromInt(500)},
	)

	summary, err := Summarize(f, series("100", "110", "99", "99"))

	require.NoError(t, err)
	assert.Equal(t, "T1", summary.Ticker)
	assert.Equal(t, "Test Fund", summary.Name)
	assert.Len(t, summary.Development, 4)
	assert.True(t, decimal.NewFromInt(1500).Equal(summary.TotalDeposited))
	// 990 + 500
	assert.True(t, decimal.NewFromInt(1490).Equal(summary.Development[3].Value))
}

func TestSummarize_PropagatesError(t *testing.T) {
	f := fund(t, domain.Deposit{Date: jan(9), Amount: decimal.NewFromInt(1)})

	_, err := Summarize(f, series("1"))

	assert.ErrorIs(t, err, domain.ErrQuoteDateNotFound)
}
