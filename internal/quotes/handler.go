package quotes

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/platform/httpx"
	"github.com/fenestra-works/fenestra/internal/surveys"
)

// Handler wires HTTP endpoints for the quotation module.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the quotation handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers quotation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/rate-table", h.handleRateTable)
	r.Post("/from-survey/{surveyID}", h.handleFromSurvey)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleUpdate)
		r.Get("/history", h.handleHistory)
		r.Post("/send", h.handleSend)
		r.Post("/request-discount", h.handleRequestDiscount)
		r.Post("/approve-discount", h.handleApproveDiscount)
		r.Post("/approve", h.handleApprove)
		r.Post("/reject", h.handleReject)
		r.Post("/override", h.handleOverride)
		r.Post("/convert-to-invoice", h.handleConvert)
	})
}

type listResponse struct {
	Quotes []Quotation `json:"quotes"`
	Stats  Stats       `json:"stats"`
}

type fromSurveyResponse struct {
	Quote   *Quotation   `json:"quote"`
	Skipped []ImportSkip `json:"skipped,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	quotes, stats, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, r, "list quotations", err)
		return
	}
	if quotes == nil {
		quotes = []Quotation{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Quotes: quotes, Stats: stats})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	q, err := h.service.Create(r.Context(), req, actorFrom(r))
	if err != nil {
		h.respondError(w, r, "create quotation", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *Handler) handleFromSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := h.parseUUID(w, r, "surveyID")
	if !ok {
		return
	}
	var req FromSurveyRequest
	if !h.decode(w, r, &req) {
		return
	}

	q, result, err := h.service.GenerateFromSurvey(r.Context(), surveyID, req, actorFrom(r))
	if err != nil {
		h.respondError(w, r, "generate quotation from survey", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, fromSurveyResponse{Quote: q, Skipped: result.Skipped})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUUID(w, r, "id")
	if !ok {
		return
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get quotation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateQuoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	q, err := h.service.Update(r.Context(), id, req, actorFrom(r))
	if err != nil {
		h.respondError(w, r, "update quotation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUUID(w, r, "id")
	if !ok {
		return
	}
	changes, err := h.service.History(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "quotation history", err)
		return
	}
	if changes == nil {
		changes = []StatusChange{}
	}
	httpx.JSON(w, http.StatusOK, changes)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "send quotation", func(id uuid.UUID) (*Quotation, error) {
		return h.service.Send(r.Context(), id, actorFrom(r))
	})
}

func (h *Handler) handleRequestDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req DiscountRequest
	if !h.decode(w, r, &req) {
		return
	}
	q, err := h.service.RequestDiscount(r.Context(), id, req, actorFrom(r))
	if err != nil {
		h.respondError(w, r, "request discount", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) handleApproveDiscount(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve discount", func(id uuid.UUID) (*Quotation, error) {
		return h.service.ApproveDiscount(r.Context(), id, actorFrom(r))
	})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUUID(w, r, "id")
	if !ok {
		return
	}
	req := ApproveRequest{}
	if r.ContentLength > 0 && !h.decode(w, r, &req) {
		return
	}
	q, err := h.service.Approve(r.Context(), id, req, actorFrom(r))
	if err != nil {
		h.respondError(w, r, "approve quotation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUUID(w, r, "id")
	if !ok {
		return
	}
	req := RejectRequest{}
	if r.ContentLength > 0 && !h.decode(w, r, &req) {
		return
	}
	q, err := h.service.Reject(r.Context(), id, req, actorFrom(r))
	if err != nil {
		h.respondError(w, r, "reject quotation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) handleOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req OverrideRequest
	if !h.decode(w, r, &req) {
		return
	}
	q, err := h.service.Override(r.Context(), id, req, actorFrom(r))
	if err != nil {
		h.respondError(w, r, "override quotation status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "convert quotation to invoice", func(id uuid.UUID) (*Quotation, error) {
		return h.service.ConvertToInvoice(r.Context(), id, actorFrom(r))
	})
}

func (h *Handler) handleRateTable(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.RateTable())
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(uuid.UUID) (*Quotation, error)) {
	id, ok := h.parseUUID(w, r, "id")
	if !ok {
		return
	}
	q, err := fn(id)
	if err != nil {
		h.respondError(w, r, action, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body is not valid JSON")
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) parseUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "path parameter "+param+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, ErrQuoteNotFound), errors.Is(err, surveys.ErrSurveyNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotEditable):
		httpx.Problem(w, http.StatusConflict, "Not Editable", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Transition", err.Error())
	case errors.Is(err, ErrTransitionConflict):
		httpx.Problem(w, http.StatusConflict, "Transition Conflict", err.Error())
	case errors.Is(err, ErrLedgerFailed), errors.Is(err, ErrInvoiceFailed):
		h.logger.Error(action+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Dependency Failed", err.Error())
	default:
		h.logger.Error(action+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Limit: 50}

	if s := q.Get("status"); s != "" {
		status := Status(s)
		if !status.IsValid() {
			return ListFilter{}, errors.New("unknown status " + strconv.Quote(s))
		}
		filter.Status = &status
	}
	if s := q.Get("project_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return ListFilter{}, errors.New("project_id must be a UUID")
		}
		filter.ProjectID = &id
	}
	if s := q.Get("survey_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return ListFilter{}, errors.New("survey_id must be a UUID")
		}
		filter.SurveyID = &id
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 1000 {
			return ListFilter{}, errors.New("limit must be between 0 and 1000")
		}
		filter.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return ListFilter{}, errors.New("offset must not be negative")
		}
		filter.Offset = n
	}
	return filter, nil
}

// actorFrom identifies the acting user from the X-Actor header. Auth proper is
// handled upstream of this service.
func actorFrom(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "system"
}
