package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/fenestra-works/fenestra/internal/audit"
	"github.com/fenestra-works/fenestra/internal/inventory"
	"github.com/fenestra-works/fenestra/internal/invoices"
	"github.com/fenestra-works/fenestra/internal/observability"
	"github.com/fenestra-works/fenestra/internal/quotes"
	"github.com/fenestra-works/fenestra/internal/shared"
	"github.com/fenestra-works/fenestra/internal/surveys"
	"github.com/fenestra-works/fenestra/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Metrics *observability.Metrics
	Jobs    *jobs.Handler
}

// NewRouter constructs the chi.Router with Fenestra defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	auditLog := shared.NewAuditLogger(params.Pool)
	idem := shared.NewIdempotencyStore(params.Pool)

	inventoryRepo := inventory.NewRepository(params.Pool)
	inventorySvc := inventory.NewService(inventoryRepo, auditLog, idem)
	inventoryHandler := inventory.NewHandler(params.Logger, inventorySvc)

	invoiceSvc := invoices.NewService(invoices.NewRepository(params.Pool), auditLog)
	invoiceHandler := invoices.NewHandler(params.Logger, invoiceSvc)

	auditSvc := audit.NewService(audit.NewRepository(params.Pool))
	auditHandler := audit.NewHandler(params.Logger, auditSvc)

	surveysRepo := surveys.NewRepository(params.Pool)
	surveysHandler := surveys.NewHandler(params.Logger, surveysRepo)

	quoteDeps := quotes.Deps{
		Surveys:  surveysRepo,
		Ledger:   quotes.NewLedgerAdapter(inventorySvc),
		Invoices: quotes.NewInvoiceAdapter(invoiceSvc),
		Audit:    auditLog,
		Logger:   params.Logger,
		Rates:    quotes.DefaultRates(),
	}
	if params.Config != nil {
		quoteDeps.Rates = quotes.Rates{
			Installation: params.Config.QuoteInstallationRate,
			Tax:          params.Config.QuoteTaxRate,
		}
		quoteDeps.SideEffectTimeout = params.Config.SideEffectTimeout
	}
	if params.Redis != nil {
		ttl := 30 * time.Second
		if params.Config != nil && params.Config.QuoteLockTTL > 0 {
			ttl = params.Config.QuoteLockTTL
		}
		quoteDeps.Locks = shared.NewTransitionLock(params.Redis, ttl)
	}
	quotes.MountRoutes(r, params.Pool, params.Logger, quoteDeps)

	r.Route("/inventory", inventoryHandler.MountRoutes)
	r.Route("/invoices", invoiceHandler.MountRoutes)
	r.Route("/surveys", surveysHandler.MountRoutes)
	r.Route("/audit", auditHandler.MountRoutes)

	if params.Jobs != nil {
		r.Route("/jobs", params.Jobs.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
