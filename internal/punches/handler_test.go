package punches_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/tempo-hr/tempo/internal/employees"
	"github.com/tempo-hr/tempo/internal/punches"
	"github.com/tempo-hr/tempo/internal/shared"
	"github.com/tempo-hr/tempo/internal/timesheets"
)

type stubPunchService struct {
	openEntry   *punches.Entry
	clockInErr  error
	clockOutErr error
}

func (s *stubPunchService) ClockIn(ctx context.Context, in punches.ClockInInput) (punches.Entry, error) {
	if s.clockInErr != nil {
		return punches.Entry{}, s.clockInErr
	}
	now := time.Date(2025, 6, 3, 14, 0, 0, 0, time.UTC)
	e := punches.Entry{ID: 10, TimesheetID: in.TimesheetID, ProjectID: in.ProjectID, EntryDate: now, TimeIn: now}
	s.openEntry = &e
	return e, nil
}

func (s *stubPunchService) ClockOut(ctx context.Context, entryID, employeeID int64) (punches.Entry, error) {
	if s.clockOutErr != nil {
		return punches.Entry{}, s.clockOutErr
	}
	return punches.Entry{ID: entryID}, nil
}

func (s *stubPunchService) CreateManual(ctx context.Context, in punches.ManualEntryInput) (punches.Entry, error) {
	dur := punches.DurationMinutes(in.TimeIn, in.TimeOut)
	out := in.TimeOut
	return punches.Entry{ID: 11, TimesheetID: in.TimesheetID, EntryDate: in.TimeIn, TimeIn: in.TimeIn, TimeOut: &out, Duration: &dur}, nil
}

func (s *stubPunchService) Edit(ctx context.Context, in punches.EditEntryInput) (punches.Entry, error) {
	dur := punches.DurationMinutes(in.TimeIn, in.TimeOut)
	out := in.TimeOut
	return punches.Entry{ID: in.EntryID, EntryDate: in.TimeIn, TimeIn: in.TimeIn, TimeOut: &out, Duration: &dur}, nil
}

func (s *stubPunchService) GetOpen(ctx context.Context, timesheetID int64) (punches.Entry, bool, error) {
	if s.openEntry == nil {
		return punches.Entry{}, false, nil
	}
	return *s.openEntry, true, nil
}

func (s *stubPunchService) ListToday(ctx context.Context, timesheetID int64) ([]punches.Entry, error) {
	if s.openEntry == nil {
		return nil, nil
	}
	return []punches.Entry{*s.openEntry}, nil
}

type stubTimesheets struct {
	sheet timesheets.Timesheet
}

func (s *stubTimesheets) GetOrCreate(ctx context.Context, employeeID int64, payPeriodID string) (timesheets.Timesheet, error) {
	return s.sheet, nil
}

func (s *stubTimesheets) Get(ctx context.Context, id int64) (timesheets.Timesheet, error) {
	if id != s.sheet.ID {
		return timesheets.Timesheet{}, shared.ErrNotFound
	}
	return s.sheet, nil
}

type stubEmployees struct{}

func (stubEmployees) Lookup(ctx context.Context, email string) (employees.Employee, error) {
	if email != "sam@example.com" {
		return employees.Employee{}, shared.ErrNotFound
	}
	return employees.Employee{ID: 7, Email: email}, nil
}

type stubLabels struct{}

func (stubLabels) ProjectLabel(ctx context.Context, projectID int64) string { return "1042 - Mill" }
func (stubLabels) TaskLabel(ctx context.Context, taskID int64) string       { return "Assembly" }

type stubDaily struct{ hours float64 }

func (s stubDaily) DailyHours(ctx context.Context, timesheetID int64, date time.Time) (float64, error) {
	return s.hours, nil
}

func newPunchRouter(t *testing.T, svc *stubPunchService) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := &stubTimesheets{sheet: timesheets.Timesheet{ID: 42, EmployeeID: 7, Status: timesheets.StatusOpen}}
	handler := punches.NewHandler(logger, svc, ts, stubEmployees{}, stubLabels{}, stubDaily{hours: 6.5}, time.UTC)

	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	manager := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	sess, err := manager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetUser("7")
	sess.Set("email", "sam@example.com")
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestClockInEndpoint(t *testing.T) {
	router := newPunchRouter(t, &stubPunchService{})

	req := authedRequest(t, http.MethodPost, "/punches/clock-in", `{"timesheet_id":42,"project_id":3}`)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	var got struct {
		TimesheetEntryID int64   `json:"timesheet_entry_id"`
		EntryDate        string  `json:"entry_date"`
		TimeOut          *string `json:"time_out"`
		ProjectName      string  `json:"project_name"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TimesheetEntryID != 10 || got.EntryDate != "2025-06-03" || got.TimeOut != nil {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.ProjectName != "1042 - Mill" {
		t.Fatalf("project name = %q", got.ProjectName)
	}
}

func TestClockInConflict(t *testing.T) {
	router := newPunchRouter(t, &stubPunchService{clockInErr: punches.ErrAlreadyClockedIn})

	req := authedRequest(t, http.MethodPost, "/punches/clock-in", `{"timesheet_id":42}`)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusConflict)
	}
}

func TestClockInRequiresSession(t *testing.T) {
	router := newPunchRouter(t, &stubPunchService{})

	req := httptest.NewRequest(http.MethodPost, "/punches/clock-in", strings.NewReader(`{"timesheet_id":42}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusUnauthorized)
	}
}

func TestClockOutLockedTimesheet(t *testing.T) {
	router := newPunchRouter(t, &stubPunchService{clockOutErr: punches.ErrTimesheetLocked})

	req := authedRequest(t, http.MethodPost, "/punches/10/clock-out", "")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusConflict)
	}
}

func TestManualEntryValidation(t *testing.T) {
	router := newPunchRouter(t, &stubPunchService{})

	// time_out not after time_in fails the gtfield rule.
	body := `{"timesheet_id":42,"time_in":"2025-06-03T09:00:00Z","time_out":"2025-06-03T09:00:00Z"}`
	req := authedRequest(t, http.MethodPost, "/punches", body)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusBadRequest)
	}
}

func TestClockStatusEndpoint(t *testing.T) {
	svc := &stubPunchService{}
	now := time.Date(2025, 6, 3, 14, 0, 0, 0, time.UTC)
	e := punches.Entry{ID: 10, TimesheetID: 42, EntryDate: now, TimeIn: now}
	svc.openEntry = &e
	router := newPunchRouter(t, svc)

	req := authedRequest(t, http.MethodGet, "/clock/status?pay_period_id=2025-12", "")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	var got struct {
		TimesheetID  int64    `json:"timesheet_id"`
		IsClockedIn  bool     `json:"isClockedIn"`
		DailyHours   float64  `json:"dailyHours"`
		CurrentEntry *struct{} `json:"currentEntry"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TimesheetID != 42 || !got.IsClockedIn || got.DailyHours != 6.5 {
		t.Fatalf("unexpected status: %+v", got)
	}
	if got.CurrentEntry == nil {
		t.Fatal("expected currentEntry")
	}
}

func TestListTodayMarksActivePunch(t *testing.T) {
	svc := &stubPunchService{}
	now := time.Date(2025, 6, 3, 14, 0, 0, 0, time.UTC)
	e := punches.Entry{ID: 10, TimesheetID: 42, EntryDate: now, TimeIn: now}
	svc.openEntry = &e
	router := newPunchRouter(t, svc)

	req := authedRequest(t, http.MethodGet, "/punches/today?timesheet_id=42", "")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	var got struct {
		Data []struct {
			TimeOut string `json:"time_out"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Data) != 1 || got.Data[0].TimeOut != "Active" {
		t.Fatalf("unexpected rows: %+v", got.Data)
	}
}
