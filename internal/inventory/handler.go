package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the hold ledger.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers hold ledger routes. The ledger is read-only over HTTP:
// holds are taken and released by quotation lifecycle transitions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/holds", h.handleList)
	r.Get("/holds/quote/{quoteID}", h.handleGetByQuote)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Limit: 100}
	q := r.URL.Query()
	if s := q.Get("quote_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "quote_id must be a UUID")
			return
		}
		filter.QuoteID = &id
	}
	if s := q.Get("status"); s != "" {
		status := HoldStatus(s)
		if status != HoldStatusHeld && status != HoldStatusReleased {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown hold status "+strconv.Quote(s))
			return
		}
		filter.Status = &status
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 1000 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be between 0 and 1000")
			return
		}
		filter.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "offset must not be negative")
			return
		}
		filter.Offset = n
	}

	holds, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list holds failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if holds == nil {
		holds = []Hold{}
	}
	httpx.JSON(w, http.StatusOK, holds)
}

func (h *Handler) handleGetByQuote(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(chi.URLParam(r, "quoteID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "path parameter quoteID must be a UUID")
		return
	}

	hold, err := h.service.GetByQuote(r.Context(), quoteID)
	if err != nil {
		if errors.Is(err, ErrHoldNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get hold failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, hold)
}
