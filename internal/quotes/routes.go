package quotes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MountRoutes wires the quotation domain under the given router.
func MountRoutes(r chi.Router, pool *pgxpool.Pool, logger *slog.Logger, deps Deps) {
	repo := NewRepository(pool)
	if deps.Logger == nil {
		deps.Logger = logger
	}
	svc := NewService(repo, deps)
	handler := NewHandler(logger, svc)

	r.Route("/quotes", func(r chi.Router) {
		handler.MountRoutes(r)
	})
}
