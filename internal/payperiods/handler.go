package payperiods

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tempo-hr/tempo/internal/platform/httpx"
	"github.com/tempo-hr/tempo/internal/shared"
)

type payPeriodService interface {
	ResolveCurrent(ctx context.Context) (PayPeriod, error)
	ListRecent(ctx context.Context, limit int) ([]PayPeriod, error)
	Get(ctx context.Context, id string) (PayPeriod, error)
}

// Handler wires HTTP endpoints for pay period lookups.
type Handler struct {
	logger  *slog.Logger
	service payPeriodService
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service payPeriodService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers pay period routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/pay-periods", h.listRecent)
	r.Get("/pay-periods/current", h.current)
	r.Get("/pay-periods/{id}", h.get)
}

type payPeriodView struct {
	PayPeriodID string `json:"pay_period_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func viewOf(p PayPeriod) payPeriodView {
	return payPeriodView{
		PayPeriodID: p.ID,
		StartDate:   shared.ISODate(p.StartDate),
		EndDate:     shared.ISODate(p.EndDate),
	}
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	period, err := h.service.ResolveCurrent(r.Context())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "No Active Pay Period",
				"no pay period covers the current date, contact an administrator")
			return
		}
		h.logger.Error("resolve current pay period", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(period))
}

func (h *Handler) listRecent(w http.ResponseWriter, r *http.Request) {
	limit := DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	periods, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("list pay periods", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]payPeriodView, 0, len(periods))
	for _, p := range periods {
		views = append(views, viewOf(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": views})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	period, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("get pay period", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(period))
}
