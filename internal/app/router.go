package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tempo-hr/tempo/internal/auth"
	"github.com/tempo-hr/tempo/internal/employees"
	"github.com/tempo-hr/tempo/internal/observability"
	"github.com/tempo-hr/tempo/internal/payperiods"
	"github.com/tempo-hr/tempo/internal/projects"
	"github.com/tempo-hr/tempo/internal/punches"
	"github.com/tempo-hr/tempo/internal/reports"
	"github.com/tempo-hr/tempo/internal/shared"
	"github.com/tempo-hr/tempo/internal/timesheets"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler      *auth.Handler
	PayPeriodHandler *payperiods.Handler
	EmployeeHandler  *employees.Handler
	TimesheetHandler *timesheets.Handler
	PunchHandler     *punches.Handler
	ReportHandler    *reports.Handler
	ProjectHandler   *projects.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Tempo defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			params.PayPeriodHandler.MountRoutes(r)
			params.EmployeeHandler.MountRoutes(r)
			params.TimesheetHandler.MountRoutes(r)
			params.PunchHandler.MountRoutes(r)
			params.ReportHandler.MountRoutes(r)
			params.ProjectHandler.MountRoutes(r)
		})
	})

	return r
}
