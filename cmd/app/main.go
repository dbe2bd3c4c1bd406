package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"mastersol/configs"
	"mastersol/internal/adapter"
	delivery "mastersol/internal/delivery/http"
	"mastersol/internal/delivery/ops"
	"mastersol/internal/infra"
	"mastersol/internal/middleware"
	"mastersol/internal/mockdata"
	"mastersol/internal/observability"
	"mastersol/internal/repository"
	"mastersol/internal/service"
	"mastersol/internal/usecase"
	"mastersol/internal/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()
	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := utils.SetLocation(cfg.Server.Timezone); err != nil {
		log.Warn().Err(err).Str("tz", cfg.Server.Timezone).Msg("unknown timezone, log lines use UTC")
	}

	startedAt := time.Now()
	log.Info().Str("env", cfg.Server.Env).Msg("Master-Sol starting...")

	// Mock data
	store, err := mockdata.NewStore(cfg.Auth.DemoPasscode, bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed mock data")
	}
	log.Info().Int("users", len(store.GetAll())).Msg("[OK] Mock data loaded")

	metrics := observability.NewMetrics("mastersol")

	// Text generation
	gemini := adapter.NewGeminiClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Timeout)
	if cfg.AI.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, insight requests will return fallback text")
	}
	insight := service.NewInsightService(gemini, cfg.AI.Model, metrics)

	// Dashboard sessions
	dashboard := usecase.NewDashboardService(store, store, repository.NewSessionRepository(), insight, cfg.Simulation, usecase.Options{
		Metrics: metrics,
	})

	// Housekeeping
	housekeeper := infra.NewHousekeeper(dashboard, metrics, cfg.Auth.SessionTTL, cfg.Cron.SessionSweep)
	if err := housekeeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start housekeeper")
	}

	// API server
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	e := echo.New()
	e.HideBanner = true
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		Auth:             auth,
		AuthHandler:      delivery.NewAuthHandler(dashboard, auth, cfg.IsProduction()),
		UserHandler:      delivery.NewUserHandler(dashboard),
		BotHandler:       delivery.NewBotHandler(dashboard),
		ForensicsHandler: delivery.NewForensicsHandler(dashboard),
		AdminHandler:     delivery.NewAdminHandler(dashboard),
		StreamHandler:    delivery.NewStreamHandler(dashboard),
	})

	// Ops server
	opsSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.OpsPort),
		Handler:      ops.NewRouter(dashboard, metrics.Handler(), startedAt),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Wait for interrupt signal to gracefully shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Info().Str("addr", addr).Msg("API server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", opsSrv.Addr).Msg("ops server listening")
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		housekeeper.Stop()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("API server forced to shutdown")
		}
		if err := opsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("ops server forced to shutdown")
		}
		dashboard.Shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("[OK] Server exited gracefully")
}

// setupLogger uses console output in development and JSON in production
func setupLogger(cfg *configs.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
}
