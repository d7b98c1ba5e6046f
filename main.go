package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/msomdec/factcheck/internal/config"
	"github.com/msomdec/factcheck/internal/domain"
	"github.com/msomdec/factcheck/internal/extract"
	"github.com/msomdec/factcheck/internal/handler"
	"github.com/msomdec/factcheck/internal/llm"
	"github.com/msomdec/factcheck/internal/repository/mongodb"
	"github.com/msomdec/factcheck/internal/repository/sqlite"
	"github.com/msomdec/factcheck/internal/service"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := openDatabase(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "driver", cfg.StoreDriver)

	analyzer := llm.New(llm.Config{
		Token:     cfg.HFToken,
		BaseURL:   cfg.LLMBaseURL,
		Model:     cfg.LLMModel,
		Timeout:   cfg.LLMTimeout,
		CacheSize: cfg.LLMCacheSize,
	})
	limiter := service.PerMinute(cfg.AnalysisRatePerMinute, cfg.AnalysisBurst)

	authService := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost)
	historyService := service.NewHistoryService(db.Users())
	analysisService := service.NewAnalysisService(extract.New(cfg.FetchTimeout), analyzer, historyService, limiter)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, analysisService, historyService, cfg.CookieSecure)
	mux.HandleFunc("GET /readyz", handler.HandleReadyz(db))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.RequestLogger(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		return sqlite.New(cfg.DatabasePath)
	}
	return mongodb.New(ctx, cfg.MongoURI, cfg.DBName, cfg.CollectionName)
}
