package surveys

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/platform/httpx"
)

// Handler serves survey openings read-only.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs the surveys handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers survey routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{surveyID}/openings", h.handleListOpenings)
}

func (h *Handler) handleListOpenings(w http.ResponseWriter, r *http.Request) {
	surveyID, err := uuid.Parse(chi.URLParam(r, "surveyID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "path parameter surveyID must be a UUID")
		return
	}

	openings, err := h.repo.ListOpenings(r.Context(), surveyID)
	if err != nil {
		if errors.Is(err, ErrSurveyNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("list survey openings failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if openings == nil {
		openings = []Opening{}
	}
	httpx.JSON(w, http.StatusOK, openings)
}
