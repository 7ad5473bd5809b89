package timesheets_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/tempo-hr/tempo/internal/employees"
	"github.com/tempo-hr/tempo/internal/shared"
	"github.com/tempo-hr/tempo/internal/timesheets"
)

type stubService struct {
	sheet     timesheets.Timesheet
	submitErr error
	submitted bool
}

func (s *stubService) GetOrCreate(ctx context.Context, employeeID int64, payPeriodID string) (timesheets.Timesheet, error) {
	return s.sheet, nil
}

func (s *stubService) Get(ctx context.Context, id int64) (timesheets.Timesheet, error) {
	if id != s.sheet.ID {
		return timesheets.Timesheet{}, shared.ErrNotFound
	}
	return s.sheet, nil
}

func (s *stubService) Submit(ctx context.Context, timesheetID, actorID int64) error {
	if s.submitErr != nil {
		return s.submitErr
	}
	s.submitted = true
	return nil
}

type stubEmployees struct{}

func (stubEmployees) Lookup(ctx context.Context, email string) (employees.Employee, error) {
	if email != "sam@example.com" {
		return employees.Employee{}, shared.ErrNotFound
	}
	return employees.Employee{ID: 7, Email: email}, nil
}

func newRouter(t *testing.T, svc *stubService) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := timesheets.NewHandler(logger, svc, stubEmployees{})
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func authedRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)

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

func TestGetOrCreateEndpoint(t *testing.T) {
	svc := &stubService{sheet: timesheets.Timesheet{ID: 42, EmployeeID: 7, PayPeriodID: "2025-12", Status: timesheets.StatusOpen}}
	router := newRouter(t, svc)

	req := authedRequest(t, http.MethodGet, "/timesheets?pay_period_id=2025-12")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
}

func TestGetOrCreateRequiresPeriod(t *testing.T) {
	router := newRouter(t, &stubService{})

	req := authedRequest(t, http.MethodGet, "/timesheets")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusBadRequest)
	}
}

func TestGetHidesForeignTimesheet(t *testing.T) {
	svc := &stubService{sheet: timesheets.Timesheet{ID: 42, EmployeeID: 99, Status: timesheets.StatusOpen}}
	router := newRouter(t, svc)

	req := authedRequest(t, http.MethodGet, "/timesheets/42")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusNotFound)
	}
}

func TestSubmitEndpoint(t *testing.T) {
	svc := &stubService{sheet: timesheets.Timesheet{ID: 42, EmployeeID: 7, Status: timesheets.StatusOpen}}
	router := newRouter(t, svc)

	req := authedRequest(t, http.MethodPost, "/timesheets/42/submit")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	if !svc.submitted {
		t.Fatal("submit did not reach the service")
	}
}

func TestSubmitApprovedConflicts(t *testing.T) {
	svc := &stubService{
		sheet:     timesheets.Timesheet{ID: 42, EmployeeID: 7, Status: timesheets.StatusApproved},
		submitErr: timesheets.ErrInvalidTransition,
	}
	router := newRouter(t, svc)

	req := authedRequest(t, http.MethodPost, "/timesheets/42/submit")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusConflict)
	}
}
