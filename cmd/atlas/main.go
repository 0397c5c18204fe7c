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

	"github.com/atlas-pos/atlas-pos/internal/app"
	"github.com/atlas-pos/atlas-pos/internal/catalog"
	"github.com/atlas-pos/atlas-pos/internal/checkout"
	"github.com/atlas-pos/atlas-pos/internal/journal"
	"github.com/atlas-pos/atlas-pos/internal/ledger"
	"github.com/atlas-pos/atlas-pos/internal/platform/cache"
	"github.com/atlas-pos/atlas-pos/internal/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	// Serving with partial data is worse than not serving; any load
	// failure is fatal.
	catalogStore, err := catalog.Open(cfg.CatalogPath())
	if err != nil {
		logger.Error("open catalog", slog.Any("error", err))
		os.Exit(1)
	}
	ledgerStore, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		logger.Error("open ledger", slog.Any("error", err))
		os.Exit(1)
	}
	journalStore, err := journal.Open(cfg.JournalPath())
	if err != nil {
		logger.Error("open journal", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("data loaded",
		slog.Int("products", catalogStore.Len()),
		slog.Int("stock_entries", len(ledgerStore.List())),
		slog.Int("sales", journalStore.Len()),
	)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportCache := report.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := report.NewService(catalogStore, journalStore, reportCache)
	reportHandler := report.NewHandler(logger, reportService)

	checkoutService := checkout.NewService(logger, catalogStore, ledgerStore, journalStore, reportCache, checkout.ServiceConfig{
		PersistTimeout: cfg.PersistTimeout,
	})
	idempotencyGuard := checkout.NewIdempotencyGuard(redisClient, cfg.IdempotencyTTL)
	checkoutHandler := checkout.NewHandler(logger, checkoutService, idempotencyGuard)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		CatalogHandler:  catalog.NewHandler(logger, catalogStore),
		StockHandler:    ledger.NewHandler(logger, ledgerStore),
		CheckoutHandler: checkoutHandler,
		SalesHandler:    journal.NewHandler(logger, journalStore),
		ReportHandler:   reportHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
