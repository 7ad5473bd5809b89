package reports

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tempo-hr/tempo/internal/employees"
	"github.com/tempo-hr/tempo/internal/platform/httpx"
	"github.com/tempo-hr/tempo/internal/shared"
	"github.com/tempo-hr/tempo/internal/timesheets"
)

type reportService interface {
	DailyTotal(ctx context.Context, timesheetID int64, date time.Time) (DailyTotal, error)
	PayPeriodSummary(ctx context.Context, payPeriodID string, employeeID int64) (PayPeriodSummary, error)
}

type employeeResolver interface {
	Lookup(ctx context.Context, email string) (employees.Employee, error)
}

type timesheetResolver interface {
	Get(ctx context.Context, id int64) (timesheets.Timesheet, error)
}

// Handler wires HTTP endpoints for hour rollups.
type Handler struct {
	logger     *slog.Logger
	service    reportService
	employees  employeeResolver
	timesheets timesheetResolver
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service reportService, employees employeeResolver, ts timesheetResolver) *Handler {
	return &Handler{logger: logger, service: service, employees: employees, timesheets: ts}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/daily", h.daily)
	r.Get("/reports/pay-period/{id}", h.payPeriod)
}

type dailyTotalView struct {
	Date         string  `json:"date"`
	TotalPunches int     `json:"totalPunches"`
	TotalHours   float64 `json:"totalHours"`
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	timesheetID, err := strconv.ParseInt(r.URL.Query().Get("timesheet_id"), 10, 64)
	if err != nil || timesheetID == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "timesheet_id is required")
		return
	}
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.Get("email") == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	emp, err := h.employees.Lookup(r.Context(), sess.Get("email"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.requireOwnership(r.Context(), timesheetID, emp.ID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	total, err := h.service.DailyTotal(r.Context(), timesheetID, date)
	if err != nil {
		h.logger.Error("daily total", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dailyTotalView{
		Date:         shared.ISODate(total.Date),
		TotalPunches: total.TotalPunches,
		TotalHours:   total.TotalHours,
	})
}

type daySummaryView struct {
	Date            string  `json:"date"`
	TotalPunches    int     `json:"totalPunches"`
	TotalHours      float64 `json:"totalHours"`
	TimesheetStatus string  `json:"timesheetStatus,omitempty"`
}

type periodSummaryView struct {
	PayPeriodID     string           `json:"pay_period_id"`
	TimesheetID     int64            `json:"timesheet_id,omitempty"`
	TimesheetStatus string           `json:"timesheet_status,omitempty"`
	Days            []daySummaryView `json:"days"`
	TotalHours      float64          `json:"totalHours"`
}

func (h *Handler) payPeriod(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.Get("email") == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	emp, err := h.employees.Lookup(r.Context(), sess.Get("email"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summary, err := h.service.PayPeriodSummary(r.Context(), chi.URLParam(r, "id"), emp.ID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("pay period summary", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	view := periodSummaryView{
		PayPeriodID:     summary.PayPeriodID,
		TimesheetID:     summary.TimesheetID,
		TimesheetStatus: summary.TimesheetStatus,
		TotalHours:      summary.TotalHours,
		Days:            make([]daySummaryView, 0, len(summary.Days)),
	}
	for _, day := range summary.Days {
		view.Days = append(view.Days, daySummaryView{
			Date:            shared.ISODate(day.Date),
			TotalPunches:    day.TotalPunches,
			TotalHours:      day.TotalHours,
			TimesheetStatus: summary.TimesheetStatus,
		})
	}
	httpx.JSON(w, http.StatusOK, view)
}

// requireOwnership hides timesheets of other employees behind a not-found.
func (h *Handler) requireOwnership(ctx context.Context, timesheetID, employeeID int64) error {
	ts, err := h.timesheets.Get(ctx, timesheetID)
	if err != nil {
		return err
	}
	if ts.EmployeeID != employeeID {
		return shared.ErrNotFound
	}
	return nil
}
