package invoices

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/platform/httpx"
)

// Handler serves invoices read-only; creation happens through quote
// conversion.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the invoice handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Get("/quote/{quoteID}", h.handleGetByQuote)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := 50, 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 1000 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be between 0 and 1000")
			return
		}
		limit = n
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "offset must not be negative")
			return
		}
		offset = n
	}

	invoices, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list invoices failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "path parameter id must be a UUID")
		return
	}
	h.respondInvoice(w, r, func() (*Invoice, error) {
		return h.service.Get(r.Context(), id)
	})
}

func (h *Handler) handleGetByQuote(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(chi.URLParam(r, "quoteID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "path parameter quoteID must be a UUID")
		return
	}
	h.respondInvoice(w, r, func() (*Invoice, error) {
		return h.service.GetByQuote(r.Context(), quoteID)
	})
}

func (h *Handler) respondInvoice(w http.ResponseWriter, r *http.Request, fn func() (*Invoice, error)) {
	inv, err := fn()
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get invoice failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}
