package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/simaogato/fondfolio-backend/internal/domain"
	"github.com/simaogato/fondfolio-backend/internal/usecase/investment"
)

// SessionService resolves api keys
type SessionService interface {
	Authenticate(ctx context.Context, key string) (int64, error)
	UserInfo(ctx context.Context, key string) (*domain.User, error)
	Logout(ctx context.Context, key string) error
}

// InvestmentService mutates portfolios
type InvestmentService interface {
	AddFund(ctx context.Context, userID int64, ticker, name string) error
	AddDeposits(ctx context.Context, userID int64, date civil.Date, deposits []investment.DepositInput) error
	DeleteDeposits(ctx context.Context, userID int64, date civil.Date, tickers []string) error
}

// DashboardService values portfolios
type DashboardService interface {
	GetSummary(ctx context.Context, userID int64) ([]domain.FundSummary, error)
	RenderChart(ctx context.Context, userID int64) ([]byte, error)
}

// Config holds server configuration
type Config struct {
	Port        int
	Log         zerolog.Logger
	Sessions    SessionService
	Investments InvestmentService
	Dashboard   DashboardService
	DevMode     bool
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	port   int

	sessions    SessionService
	investments InvestmentService
	dashboard   DashboardService
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "http").Logger(),
		port:        cfg.Port,
		sessions:    cfg.Sessions,
		investments: cfg.Investments,
		dashboard:   cfg.Dashboard,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", apiKeyHeader},
		MaxAge:         300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5, "application/json"))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/logout", s.handleLogout)
		r.Get("/userinfo", s.handleUserInfo)

		r.Get("/summary", s.handleSummary)
		r.Get("/summary/chart.png", s.handleSummaryChart)

		r.Post("/addfond", s.handleAddFund)
		r.Put("/deposit", s.handleAddDeposits)
		r.Delete("/deposit", s.handleDeleteDeposits)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
