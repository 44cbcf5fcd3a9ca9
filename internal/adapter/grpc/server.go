package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/fondfolio-backend/internal/domain"
	"github.com/simaogato/fondfolio-backend/internal/usecase/dashboard"
	"github.com/simaogato/fondfolio-backend/internal/usecase/investment"
)

// Server implements the PortfolioService gRPC server
type Server struct {
	UnimplementedPortfolioServiceServer

	InvestmentService *investment.InvestmentService
	DashboardService  *dashboard.DashboardService
}

// NewServer creates a new gRPC server instance
func NewServer(investmentService *investment.InvestmentService, dashboardService *dashboard.DashboardService) *Server {
	return &Server{
		InvestmentService: investmentService,
		DashboardService:  dashboardService,
	}
}

type addFundRequest struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

type addDepositsRequest struct {
	Date  string `json:"date"`
	Fonds []struct {
		Ticker string           `json:"ticker"`
		Amount *decimal.Decimal `json:"amount"`
	} `json:"fonds"`
}

type deleteDepositsRequest struct {
	Date    string   `json:"date"`
	Tickers []string `json:"tickers"`
}

// GetSummary handles the GetSummary RPC; the response is {"funds": [...]}
func (s *Server) GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.DashboardService.GetSummary(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{"funds": summary})
}

// AddFund handles the AddFund RPC
func (s *Server) AddFund(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var in addFundRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}
	if in.Ticker == "" || in.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "ticker and name are required")
	}

	if err := s.InvestmentService.AddFund(ctx, userID, in.Ticker, in.Name); err != nil {
		return nil, mapError(err)
	}
	return &structpb.Struct{}, nil
}

// AddDeposits handles the AddDeposits RPC
func (s *Server) AddDeposits(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var in addDepositsRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	deposits := make([]investment.DepositInput, 0, len(in.Fonds))
	for _, f := range in.Fonds {
		if f.Ticker == "" || f.Amount == nil {
			return nil, status.Error(codes.InvalidArgument, "every fond needs ticker and amount")
		}
		if f.Amount.IsNegative() {
			return nil, status.Error(codes.InvalidArgument, "amount must not be negative")
		}
		deposits = append(deposits, investment.DepositInput{Ticker: f.Ticker, Amount: *f.Amount})
	}

	if err := s.InvestmentService.AddDeposits(ctx, userID, date, deposits); err != nil {
		return nil, mapError(err)
	}
	return &structpb.Struct{}, nil
}

// DeleteDeposits handles the DeleteDeposits RPC
func (s *Server) DeleteDeposits(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var in deleteDepositsRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	if err := s.InvestmentService.DeleteDeposits(ctx, userID, date, in.Tickers); err != nil {
		return nil, mapError(err)
	}
	return &structpb.Struct{}, nil
}

func requireUser(ctx context.Context) (int64, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "missing session")
	}
	return userID, nil
}

func parseDate(value string) (civil.Date, error) {
	date, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, status.Errorf(codes.InvalidArgument, "invalid date %q: must be YYYY-MM-DD", value)
	}
	return date, nil
}

// fromStruct decodes a Struct into v through its JSON form
func fromStruct(req *structpb.Struct, v interface{}) error {
	data, err := json.Marshal(req.AsMap())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

// toStruct encodes v into a Struct through its JSON form
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError maps the domain error taxonomy onto gRPC status codes
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var fetchErr *domain.SourceFetchError
	code := codes.Internal

	switch {
	case errors.Is(err, domain.ErrInvalidSession):
		code = codes.Unauthenticated
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidFund):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrUnknownFund),
		errors.Is(err, domain.ErrDepositNotFound),
		errors.Is(err, domain.ErrPortfolioNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrDuplicateFund),
		errors.Is(err, domain.ErrDuplicateDeposit):
		code = codes.AlreadyExists
	case errors.Is(err, domain.ErrInvalidTicker),
		errors.Is(err, domain.ErrQuoteDateNotFound),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrNotEnoughData):
		code = codes.FailedPrecondition
	case errors.As(err, &fetchErr),
		errors.Is(err, domain.ErrMalformedQuotes):
		code = codes.Unavailable
	}

	return status.Error(code, fmt.Sprint(err))
}
