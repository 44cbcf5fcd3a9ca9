package domain

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) civil.Date {
	return civil.Date{Year: 2016, Month: 1, Day: d}
}

func TestNewFund(t *testing.T) {
	tests := []struct {
		name     string
		ticker   string
		deposits []Deposit
		wantErr  error
	}{
		{
			name:    "Empty ticker should fail",
			ticker:  "",
			wantErr: ErrInvalidFund,
		},
		{
			name:   "Unsorted ledger is sorted",
			ticker: "T1",
			deposits: []Deposit{
				{Date: day(3), Amount: decimal.NewFromInt(30)},
				{Date: day(1), Amount: decimal.NewFromInt(10)},
			},
		},
		{
			name:   "Duplicate deposit dates should fail",
			ticker: "T1",
			deposits: []Deposit{
				{Date: day(1), Amount: decimal.NewFromInt(10)},
				{Date: day(1), Amount: decimal.NewFromInt(20)},
			},
			wantErr: ErrDuplicateDeposit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fund, err := NewFund(tt.ticker, "Fund", tt.deposits)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, fund)
				return
			}
			require.NoError(t, err)
			assert.Len(t, fund.Deposits, len(tt.deposits))
			for i := 1; i < len(fund.Deposits); i++ {
				assert.True(t, fund.Deposits[i-1].Date.Before(fund.Deposits[i].Date))
			}
		})
	}
}

func TestFund_AddDeposit_Duplicate(t *testing.T) {
	fund, err := NewFund("T1", "Fund", nil)
	require.NoError(t, err)

	require.NoError(t, fund.AddDeposit(decimal.NewFromInt(100), day(2)))
	err = fund.AddDeposit(decimal.NewFromInt(200), day(2))

	assert.ErrorIs(t, err, ErrDuplicateDeposit)
	assert.Len(t, fund.Deposits, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(fund.Deposits[0].Amount))
}

func TestFund_AddDeposit_KeepsLedgerSorted(t *testing.T) {
	fund, err := NewFund("T1", "Fund", nil)
	require.NoError(t, err)

	for _, d := range []int{5, 1, 9, 3, 7} {
		require.NoError(t, fund.AddDeposit(decimal.NewFromInt(int64(d)), day(d)))
	}

	dates := make([]civil.Date, 0, len(fund.Deposits))
	for _, d := range fund.Deposits {
		dates = append(dates, d.Date)
	}
	assert.Equal(t, []civil.Date{day(1), day(3), day(5), day(7), day(9)}, dates)
}

func TestFund_AddDeposit_NegativeAmount(t *testing.T) {
	fund, err := NewFund("T1", "Fund", nil)
	require.NoError(t, err)

	err = fund.AddDeposit(decimal.NewFromInt(-1), day(1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, fund.Deposits)

	// zero is accepted
	assert.NoError(t, fund.AddDeposit(decimal.Zero, day(1)))
}

func TestFund_DeleteDeposit(t *testing.T) {
	fund, err := NewFund("T1", "Fund", []Deposit{
		{Date: day(1), Amount: decimal.NewFromInt(10)},
		{Date: day(2), Amount: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)

	err = fund.DeleteDeposit(day(3))
	assert.ErrorIs(t, err, ErrDepositNotFound)
	assert.Len(t, fund.Deposits, 2)

	require.NoError(t, fund.DeleteDeposit(day(1)))
	assert.Len(t, fund.Deposits, 1)
	assert.Equal(t, day(2), fund.Deposits[0].Date)

	err = fund.DeleteDeposit(day(1))
	assert.ErrorIs(t, err, ErrDepositNotFound)
}

func TestFund_DepositOn(t *testing.T) {
	fund := &Fund{
		Ticker: "T1",
		// ledgers built outside AddDeposit may hold coinciding dates; they are summed
		Deposits: []Deposit{
			{Date: day(1), Amount: decimal.NewFromInt(10)},
			{Date: day(1), Amount: decimal.NewFromInt(5)},
			{Date: day(2), Amount: decimal.NewFromInt(20)},
		},
	}

	assert.True(t, decimal.NewFromInt(15).Equal(fund.DepositOn(day(1))))
	assert.True(t, decimal.NewFromInt(20).Equal(fund.DepositOn(day(2))))
	assert.True(t, decimal.Zero.Equal(fund.DepositOn(day(3))))
}

func TestFund_FirstDeposit(t *testing.T) {
	fund := &Fund{Ticker: "T1"}
	_, ok := fund.FirstDeposit()
	assert.False(t, ok)

	fund.Deposits = []Deposit{{Date: day(4)}, {Date: day(2)}, {Date: day(8)}}
	first, ok := fund.FirstDeposit()
	assert.True(t, ok)
	assert.Equal(t, day(2), first.Date)
}
