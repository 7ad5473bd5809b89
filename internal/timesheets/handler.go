package timesheets

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tempo-hr/tempo/internal/employees"
	"github.com/tempo-hr/tempo/internal/platform/httpx"
	"github.com/tempo-hr/tempo/internal/shared"
)

type timesheetService interface {
	GetOrCreate(ctx context.Context, employeeID int64, payPeriodID string) (Timesheet, error)
	Get(ctx context.Context, id int64) (Timesheet, error)
	Submit(ctx context.Context, timesheetID, actorID int64) error
}

type employeeResolver interface {
	Lookup(ctx context.Context, email string) (employees.Employee, error)
}

// Handler wires HTTP endpoints for the timesheet lifecycle.
type Handler struct {
	logger    *slog.Logger
	service   timesheetService
	employees employeeResolver
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service timesheetService, employees employeeResolver) *Handler {
	return &Handler{logger: logger, service: service, employees: employees}
}

// MountRoutes registers timesheet routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/timesheets", h.getOrCreate)
	r.Get("/timesheets/{id}", h.get)
	r.Post("/timesheets/{id}/submit", h.submit)
}

type timesheetView struct {
	TimesheetID int64  `json:"timesheet_id"`
	PayPeriodID string `json:"pay_period_id"`
	Status      string `json:"status"`
	Note        string `json:"note,omitempty"`
}

func timesheetViewOf(ts Timesheet) timesheetView {
	v := timesheetView{
		TimesheetID: ts.ID,
		PayPeriodID: ts.PayPeriodID,
		Status:      string(ts.Status),
	}
	if ts.Note != nil {
		v.Note = *ts.Note
	}
	return v
}

func (h *Handler) currentEmployee(r *http.Request) (employees.Employee, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.Get("email") == "" {
		return employees.Employee{}, shared.ErrUnauthorized
	}
	return h.employees.Lookup(r.Context(), sess.Get("email"))
}

func (h *Handler) getOrCreate(w http.ResponseWriter, r *http.Request) {
	payPeriodID := r.URL.Query().Get("pay_period_id")
	if payPeriodID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "pay_period_id is required")
		return
	}
	emp, err := h.currentEmployee(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	ts, err := h.service.GetOrCreate(r.Context(), emp.ID, payPeriodID)
	if err != nil {
		h.logger.Error("get or create timesheet", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, timesheetViewOf(ts))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "timesheet id must be numeric")
		return
	}
	emp, err := h.currentEmployee(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	ts, err := h.service.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("get timesheet", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	if ts.EmployeeID != emp.ID {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, timesheetViewOf(ts))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "timesheet id must be numeric")
		return
	}
	emp, err := h.currentEmployee(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	ts, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if ts.EmployeeID != emp.ID {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	if err := h.service.Submit(r.Context(), id, emp.ID); err != nil {
		if !errors.Is(err, shared.ErrInvalidState) {
			h.logger.Error("submit timesheet", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
