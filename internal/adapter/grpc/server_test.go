package grpc

import (
	"context"
	"net"
	"sync"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/fondfolio-backend/internal/domain"
	"github.com/simaogato/fondfolio-backend/internal/usecase/dashboard"
	"github.com/simaogato/fondfolio-backend/internal/usecase/investment"
)

// memoryPortfolios stores portfolio documents like the Postgres repository does
type memoryPortfolios struct {
	mu   sync.Mutex
	docs map[int64]domain.PortfolioDocument
}

func (r *memoryPortfolios) Get(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[userID]
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}
	return domain.PortfolioFromDocument(doc)
}

func (r *memoryPortfolios) Save(ctx context.Context, p *domain.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[p.UserID] = p.Document()
	return nil
}

func (r *memoryPortfolios) ListTickers(ctx context.Context) ([]string, error) {
	return nil, nil
}

// staticQuotes serves three days of quotes for T1.FOND only
type staticQuotes struct{}

func (staticQuotes) GetQuotes(ctx context.Context, ticker string) ([]domain.Quote, error) {
	if ticker != "T1.FOND" {
		return nil, domain.ErrInvalidTicker
	}
	closes := []int64{100, 110, 99}
	quotes := make([]domain.Quote, len(closes))
	for i, c := range closes {
		quotes[i] = domain.Quote{
			Date:   civil.Date{Year: 2016, Month: 1, Day: i + 1},
			Ticker: ticker,
			Close:  decimal.NewFromInt(c),
		}
	}
	return quotes, nil
}

func startServer(t *testing.T) *PortfolioServiceClient {
	t.Helper()

	repo := &memoryPortfolios{docs: map[int64]domain.PortfolioDocument{7: {UserID: 7}}}
	srv := NewServer(
		investment.NewInvestmentService(repo, staticQuotes{}, ".FOND"),
		dashboard.NewDashboardService(repo, staticQuotes{}, ".FOND"),
	)

	lis := bufconn.Listen(1 << 20)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(AuthInterceptor(fakeSessions{})))
	RegisterPortfolioServiceServer(grpcServer, srv)
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewPortfolioServiceClient(conn)
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", validToken)
}

func mustStruct(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestServer_FundLifecycle(t *testing.T) {
	client := startServer(t)
	ctx := authed()

	_, err := client.AddFund(ctx, mustStruct(t, map[string]interface{}{"ticker": "T1", "name": "Fund one"}))
	require.NoError(t, err)

	_, err = client.AddDeposits(ctx, mustStruct(t, map[string]interface{}{
		"date":  "2016-01-01",
		"fonds": []interface{}{map[string]interface{}{"ticker": "T1", "amount": 1000}},
	}))
	require.NoError(t, err)

	resp, err := client.GetSummary(ctx, &structpb.Struct{})
	require.NoError(t, err)

	funds := resp.Fields["funds"].GetListValue().GetValues()
	require.Len(t, funds, 2)
	fund := funds[0].GetStructValue().AsMap()
	assert.Equal(t, "T1", fund["ticker"])
	development := fund["development"].([]interface{})
	require.Len(t, development, 3)
	assert.Equal(t, float64(990), development[2].(map[string]interface{})["value"])
	assert.Equal(t, "Portfolio", funds[1].GetStructValue().AsMap()["ticker"])

	_, err = client.DeleteDeposits(ctx, mustStruct(t, map[string]interface{}{
		"date":    "2016-01-01",
		"tickers": []interface{}{"T1"},
	}))
	require.NoError(t, err)
}

func TestServer_Errors(t *testing.T) {
	client := startServer(t)
	ctx := authed()

	tests := []struct {
		name string
		call func() error
		code codes.Code
	}{
		{
			name: "Unauthenticated",
			call: func() error {
				_, err := client.GetSummary(context.Background(), &structpb.Struct{})
				return err
			},
			code: codes.Unauthenticated,
		},
		{
			name: "Unknown ticker at the source",
			call: func() error {
				_, err := client.AddFund(ctx, mustStruct(t, map[string]interface{}{"ticker": "NOPE", "name": "x"}))
				return err
			},
			code: codes.FailedPrecondition,
		},
		{
			name: "Deposit on unregistered fund",
			call: func() error {
				_, err := client.AddDeposits(ctx, mustStruct(t, map[string]interface{}{
					"date":  "2016-01-01",
					"fonds": []interface{}{map[string]interface{}{"ticker": "T9", "amount": 1}},
				}))
				return err
			},
			code: codes.NotFound,
		},
		{
			name: "Bad date",
			call: func() error {
				_, err := client.DeleteDeposits(ctx, mustStruct(t, map[string]interface{}{"date": "yesterday"}))
				return err
			},
			code: codes.InvalidArgument,
		},
		{
			name: "Deposit without amount",
			call: func() error {
				_, err := client.AddDeposits(ctx, mustStruct(t, map[string]interface{}{
					"date":  "2016-01-01",
					"fonds": []interface{}{map[string]interface{}{"ticker": "T1"}},
				}))
				return err
			},
			code: codes.InvalidArgument,
		},
		{
			name: "Negative deposit",
			call: func() error {
				_, err := client.AddDeposits(ctx, mustStruct(t, map[string]interface{}{
					"date":  "2016-01-01",
					"fonds": []interface{}{map[string]interface{}{"ticker": "T1", "amount": -5}},
				}))
				return err
			},
			code: codes.InvalidArgument,
		},
		{
			name: "Missing name",
			call: func() error {
				_, err := client.AddFund(ctx, mustStruct(t, map[string]interface{}{"ticker": "T1"}))
				return err
			},
			code: codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{err: domain.ErrDuplicateDeposit, code: codes.AlreadyExists},
		{err: domain.ErrDepositNotFound, code: codes.NotFound},
		{err: domain.ErrQuoteDateNotFound, code: codes.FailedPrecondition},
		{err: &domain.SourceFetchError{Ticker: "T1", StatusCode: 500}, code: codes.Unavailable},
		{err: domain.ErrInvalidAmount, code: codes.InvalidArgument},
		{err: assert.AnError, code: codes.Internal},
	}

	for _, tt := range tests {
		st, _ := status.FromError(mapError(tt.err))
		assert.Equal(t, tt.code, st.Code(), tt.err.Error())
	}
	assert.NoError(t, mapError(nil))
}
