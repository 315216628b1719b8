package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fenestra-works/fenestra/internal/observability"
	"github.com/fenestra-works/fenestra/internal/quotes"
)

// QuoteExpirer is the part of the quote service the sweep needs.
type QuoteExpirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

var _ QuoteExpirer = (*quotes.Service)(nil)

// QuoteExpiryHandler processes TaskTypeQuoteExpiry tasks.
type QuoteExpiryHandler struct {
	service QuoteExpirer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewQuoteExpiryHandler constructs the handler.
func NewQuoteExpiryHandler(service QuoteExpirer, logger *slog.Logger, metrics *observability.Metrics) *QuoteExpiryHandler {
	return &QuoteExpiryHandler{service: service, logger: logger, metrics: metrics}
}

// ProcessTask expires quotes whose validity window has passed.
func (h *QuoteExpiryHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload QuoteExpiryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	asOf := payload.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	expired, err := h.service.ExpireStale(ctx, asOf)
	if err != nil {
		h.metrics.ObserveJob(TaskTypeQuoteExpiry, "error")
		if h.logger != nil {
			h.logger.Error("quote expiry sweep failed",
				slog.Int("expired", expired), slog.Any("error", err))
		}
		return err
	}

	h.metrics.ObserveJob(TaskTypeQuoteExpiry, "ok")
	if h.logger != nil && expired > 0 {
		h.logger.Info("quote expiry sweep",
			slog.Int("expired", expired), slog.Time("as_of", asOf))
	}
	return nil
}
