package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/fondfolio-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/fondfolio-backend/internal/adapter/http"
	"github.com/simaogato/fondfolio-backend/internal/adapter/quotesource/netfonds"
	"github.com/simaogato/fondfolio-backend/internal/adapter/quotestore"
	"github.com/simaogato/fondfolio-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/fondfolio-backend/internal/config"
	"github.com/simaogato/fondfolio-backend/internal/logger"
	"github.com/simaogato/fondfolio-backend/internal/scheduler"
	"github.com/simaogato/fondfolio-backend/internal/usecase/dashboard"
	"github.com/simaogato/fondfolio-backend/internal/usecase/investment"
	"github.com/simaogato/fondfolio-backend/internal/usecase/quotes"
	"github.com/simaogato/fondfolio-backend/internal/usecase/refresh"
	"github.com/simaogato/fondfolio-backend/internal/usecase/seeder"
	"github.com/simaogato/fondfolio-backend/internal/usecase/session"
)

const (
	refreshTimeout  = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
	logger.SetGlobalLogger(log)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	loc, err := cfg.Server.Location()
	if err != nil {
		return err
	}

	// 1. Setup Database
	db, err := postgres.NewDB(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// 2. Initialize Repositories
	portfolioRepo := postgres.NewPortfolioRepository(db)
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	// 3. Quote pipeline: remote source, persistent store, in-memory cache
	store, storeCloser, err := quotestore.New(cfg.Cache.Backend, cfg.Cache.Dir, cfg.Cache.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open quote store: %w", err)
	}
	defer storeCloser.Close()

	source := netfonds.NewClient(
		netfonds.WithURLTemplate(cfg.Quotes.URL),
		netfonds.WithTimeout(cfg.Quotes.GetTimeout()),
		netfonds.WithRateLimit(cfg.Quotes.RateLimit),
		netfonds.WithLogger(log),
	)
	quoteCache := quotes.NewCache(source, store, log,
		quotes.WithLocation(loc),
		quotes.WithStaleFallback(cfg.Cache.StaleFallback),
	)

	// 4. Initialize Services (Use Cases)
	sessionService := session.NewSessionService(userRepo, sessionRepo)
	investmentService := investment.NewInvestmentService(portfolioRepo, quoteCache, cfg.Quotes.Suffix)
	dashboardService := dashboard.NewDashboardService(portfolioRepo, quoteCache, cfg.Quotes.Suffix)

	if cfg.DevMode {
		userID, err := seeder.NewDevSeeder(userRepo, sessionService).Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed dev user: %w", err)
		}
		log.Warn().
			Int64("user_id", userID).
			Str("api_key", seeder.DevSessionKey.String()).
			Msg("Dev mode: seeded development session")
	}

	// 5. Background quote refresh
	sched := scheduler.New(log, loc, refreshTimeout)
	refreshJob := refresh.NewJob(portfolioRepo, quoteCache, cfg.Quotes.Suffix, log)
	if err := sched.AddJob(cfg.Refresh.Schedule, refreshJob); err != nil {
		return fmt.Errorf("failed to schedule quote refresh: %w", err)
	}
	sched.Start()

	// warm the quote cache once at startup; failures are logged by the scheduler
	go func() { _ = sched.RunNow(refreshJob) }()

	// 6. Start HTTP Server
	httpServer := httpadapter.New(httpadapter.Config{
		Port:        cfg.Server.HTTPPort,
		Log:         log,
		Sessions:    sessionService,
		Investments: investmentService,
		Dashboard:   dashboardService,
		DevMode:     cfg.DevMode,
	})

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// 7. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.UnaryInterceptor(grpcadapter.AuthInterceptor(sessionService)),
	)
	grpcadapter.RegisterPortfolioServiceServer(grpcServer, grpcadapter.NewServer(investmentService, dashboardService))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen on %d: %w", cfg.Server.GRPCPort, err)
	}

	go func() {
		log.Info().Int("port", cfg.Server.GRPCPort).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(log, errCh)

	sched.Stop()
	grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	log.Info().Msg("HTTP server stopped")

	return nil
}

// waitForShutdown blocks until SIGTERM or SIGINT arrives or a listener fails
func waitForShutdown(log zerolog.Logger, errCh <-chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")
	case err := <-errCh:
		log.Error().Err(err).Msg("Listener failed, shutting down")
	}
}
