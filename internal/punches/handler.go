package punches

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tempo-hr/tempo/internal/employees"
	"github.com/tempo-hr/tempo/internal/platform/httpx"
	"github.com/tempo-hr/tempo/internal/shared"
	"github.com/tempo-hr/tempo/internal/timesheets"
)

type punchService interface {
	ClockIn(ctx context.Context, in ClockInInput) (Entry, error)
	ClockOut(ctx context.Context, entryID, employeeID int64) (Entry, error)
	CreateManual(ctx context.Context, in ManualEntryInput) (Entry, error)
	Edit(ctx context.Context, in EditEntryInput) (Entry, error)
	GetOpen(ctx context.Context, timesheetID int64) (Entry, bool, error)
	ListToday(ctx context.Context, timesheetID int64) ([]Entry, error)
}

type timesheetResolver interface {
	GetOrCreate(ctx context.Context, employeeID int64, payPeriodID string) (timesheets.Timesheet, error)
	Get(ctx context.Context, id int64) (timesheets.Timesheet, error)
}

type employeeResolver interface {
	Lookup(ctx context.Context, email string) (employees.Employee, error)
}

type labelProvider interface {
	ProjectLabel(ctx context.Context, projectID int64) string
	TaskLabel(ctx context.Context, taskID int64) string
}

type dailyHoursProvider interface {
	DailyHours(ctx context.Context, timesheetID int64, date time.Time) (float64, error)
}

// Handler wires HTTP endpoints for the punch ledger.
type Handler struct {
	logger     *slog.Logger
	service    punchService
	timesheets timesheetResolver
	employees  employeeResolver
	labels     labelProvider
	daily      dailyHoursProvider
	validator  *validator.Validate
	loc        *time.Location
	now        func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service punchService, ts timesheetResolver, emp employeeResolver, labels labelProvider, daily dailyHoursProvider, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		logger:     logger,
		service:    service,
		timesheets: ts,
		employees:  emp,
		labels:     labels,
		daily:      daily,
		validator:  validator.New(),
		loc:        loc,
		now:        time.Now,
	}
}

// MountRoutes registers punch routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/punches/clock-in", h.clockIn)
	r.Post("/punches/{id}/clock-out", h.clockOut)
	r.Post("/punches", h.createManual)
	r.Put("/punches/{id}", h.edit)
	r.Get("/punches/current", h.getCurrent)
	r.Get("/punches/today", h.listToday)
	r.Get("/clock/status", h.clockStatus)
}

type clockInRequest struct {
	TimesheetID int64  `json:"timesheet_id" validate:"required"`
	ProjectID   *int64 `json:"project_id"`
	TaskID      *int64 `json:"task_id"`
}

type manualEntryRequest struct {
	TimesheetID int64     `json:"timesheet_id" validate:"required"`
	ProjectID   *int64    `json:"project_id"`
	TaskID      *int64    `json:"task_id"`
	TimeIn      time.Time `json:"time_in" validate:"required"`
	TimeOut     time.Time `json:"time_out" validate:"required,gtfield=TimeIn"`
}

type editEntryRequest struct {
	ProjectID *int64    `json:"project_id"`
	TaskID    *int64    `json:"task_id"`
	TimeIn    time.Time `json:"time_in" validate:"required"`
	TimeOut   time.Time `json:"time_out" validate:"required,gtfield=TimeIn"`
}

type entryView struct {
	TimesheetEntryID int64   `json:"timesheet_entry_id"`
	TimesheetID      int64   `json:"timesheet_id"`
	EntryDate        string  `json:"entry_date"`
	TimeIn           string  `json:"time_in"`
	TimeOut          *string `json:"time_out"`
	Duration         *int    `json:"duration"`
	ProjectName      string  `json:"project_name,omitempty"`
	TaskName         string  `json:"task_name,omitempty"`
}

func (h *Handler) entryViewOf(ctx context.Context, e Entry) entryView {
	v := entryView{
		TimesheetEntryID: e.ID,
		TimesheetID:      e.TimesheetID,
		EntryDate:        shared.ISODate(e.EntryDate),
		TimeIn:           e.TimeIn.UTC().Format(time.RFC3339),
		Duration:         e.Duration,
	}
	if e.TimeOut != nil {
		out := e.TimeOut.UTC().Format(time.RFC3339)
		v.TimeOut = &out
	}
	if e.ProjectID != nil {
		v.ProjectName = h.labels.ProjectLabel(ctx, *e.ProjectID)
	}
	if e.TaskID != nil {
		v.TaskName = h.labels.TaskLabel(ctx, *e.TaskID)
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

func (h *Handler) clockIn(w http.ResponseWriter, r *http.Request) {
	var req clockInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	emp, err := h.currentEmployee(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	entry, err := h.service.ClockIn(r.Context(), ClockInInput{
		TimesheetID: req.TimesheetID,
		EmployeeID:  emp.ID,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidState) && !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("clock in", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, h.entryViewOf(r.Context(), entry))
}

func (h *Handler) clockOut(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "entry id must be numeric")
		return
	}
	emp, err := h.currentEmployee(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if _, err := h.service.ClockOut(r.Context(), id, emp.ID); err != nil {
		if !errors.Is(err, shared.ErrInvalidState) && !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("clock out", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) createManual(w http.ResponseWriter, r *http.Request) {
	var req manualEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	emp, err := h.currentEmployee(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	entry, err := h.service.CreateManual(r.Context(), ManualEntryInput{
		TimesheetID: req.TimesheetID,
		EmployeeID:  emp.ID,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		TimeIn:      req.TimeIn,
		TimeOut:     req.TimeOut,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidState) && !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("create manual entry", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, h.entryViewOf(r.Context(), entry))
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "entry id must be numeric")
		return
	}
	var req editEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	emp, err := h.currentEmployee(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	entry, err := h.service.Edit(r.Context(), EditEntryInput{
		EntryID:    id,
		EmployeeID: emp.ID,
		ProjectID:  req.ProjectID,
		TaskID:     req.TaskID,
		TimeIn:     req.TimeIn,
		TimeOut:    req.TimeOut,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidState) && !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("edit entry", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.entryViewOf(r.Context(), entry))
}

func (h *Handler) getCurrent(w http.ResponseWriter, r *http.Request) {
	timesheetID, err := strconv.ParseInt(r.URL.Query().Get("timesheet_id"), 10, 64)
	if err != nil || timesheetID == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "timesheet_id is required")
		return
	}
	emp, err := h.currentEmployee(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.requireOwnership(r.Context(), timesheetID, emp.ID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	entry, open, err := h.service.GetOpen(r.Context(), timesheetID)
	if err != nil {
		h.logger.Error("get current punch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if !open {
		httpx.JSON(w, http.StatusOK, map[string]any{"data": nil})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": h.entryViewOf(r.Context(), entry)})
}

type todayPunchView struct {
	ID          int64  `json:"id"`
	TimeIn      string `json:"time_in"`
	TimeOut     string `json:"time_out"`
	ProjectName string `json:"project_name,omitempty"`
	TaskName    string `json:"task_name,omitempty"`
}

func (h *Handler) listToday(w http.ResponseWriter, r *http.Request) {
	timesheetID, err := strconv.ParseInt(r.URL.Query().Get("timesheet_id"), 10, 64)
	if err != nil || timesheetID == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "timesheet_id is required")
		return
	}
	emp, err := h.currentEmployee(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.requireOwnership(r.Context(), timesheetID, emp.ID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	entries, err := h.service.ListToday(r.Context(), timesheetID)
	if err != nil {
		h.logger.Error("list today punches", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]todayPunchView, 0, len(entries))
	for _, e := range entries {
		v := todayPunchView{
			ID:      e.ID,
			TimeIn:  e.TimeIn.In(h.loc).Format(time.RFC3339),
			TimeOut: "Active",
		}
		if e.TimeOut != nil {
			v.TimeOut = e.TimeOut.In(h.loc).Format(time.RFC3339)
		}
		if e.ProjectID != nil {
			v.ProjectName = h.labels.ProjectLabel(r.Context(), *e.ProjectID)
		}
		if e.TaskID != nil {
			v.TaskName = h.labels.TaskLabel(r.Context(), *e.TaskID)
		}
		views = append(views, v)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": views})
}

type clockStatusView struct {
	TimesheetID  int64      `json:"timesheet_id"`
	IsClockedIn  bool       `json:"isClockedIn"`
	DailyHours   float64    `json:"dailyHours"`
	CurrentEntry *entryView `json:"currentEntry,omitempty"`
}

// clockStatus resolves the employee's timesheet for a pay period (creating it
// when absent) and reports whether a punch is open plus today's closed hours.
func (h *Handler) clockStatus(w http.ResponseWriter, r *http.Request) {
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
	ts, err := h.timesheets.GetOrCreate(r.Context(), emp.ID, payPeriodID)
	if err != nil {
		h.logger.Error("get or create timesheet", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	open, isClockedIn, err := h.service.GetOpen(r.Context(), ts.ID)
	if err != nil {
		h.logger.Error("check open entry", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	hours, err := h.daily.DailyHours(r.Context(), ts.ID, h.now().UTC())
	if err != nil {
		h.logger.Error("daily hours", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	view := clockStatusView{
		TimesheetID: ts.ID,
		IsClockedIn: isClockedIn,
		DailyHours:  hours,
	}
	if isClockedIn {
		ev := h.entryViewOf(r.Context(), open)
		view.CurrentEntry = &ev
	}
	httpx.JSON(w, http.StatusOK, view)
}

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
