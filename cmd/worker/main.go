package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/fenestra-works/fenestra/internal/app"
	"github.com/fenestra-works/fenestra/internal/inventory"
	"github.com/fenestra-works/fenestra/internal/invoices"
	"github.com/fenestra-works/fenestra/internal/observability"
	"github.com/fenestra-works/fenestra/internal/platform/cache"
	"github.com/fenestra-works/fenestra/internal/platform/db"
	"github.com/fenestra-works/fenestra/internal/quotes"
	"github.com/fenestra-works/fenestra/internal/shared"
	"github.com/fenestra-works/fenestra/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	audit := shared.NewAuditLogger(pool)
	idem := shared.NewIdempotencyStore(pool)

	inventorySvc := inventory.NewService(inventory.NewRepository(pool), audit, idem)
	invoiceSvc := invoices.NewService(invoices.NewRepository(pool), audit)

	quoteSvc := quotes.NewService(quotes.NewRepository(pool), quotes.Deps{
		Ledger:   quotes.NewLedgerAdapter(inventorySvc),
		Invoices: quotes.NewInvoiceAdapter(invoiceSvc),
		Audit:    audit,
		Logger:   logger,
		Rates: quotes.Rates{
			Installation: cfg.QuoteInstallationRate,
			Tax:          cfg.QuoteTaxRate,
		},
		SideEffectTimeout: cfg.SideEffectTimeout,
		Locks:             shared.NewTransitionLock(redisClient, cfg.QuoteLockTTL),
	})

	expiryHandler := jobs.NewQuoteExpiryHandler(quoteSvc, logger, metrics)
	expiryTask, err := jobs.NewQuoteExpiryTask(jobs.QuoteExpiryPayload{})
	if err != nil {
		logger.Error("build expiry task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeQuoteExpiry, Handler: expiryHandler},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every " + cfg.ExpirySweepInterval.String(), Task: expiryTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
