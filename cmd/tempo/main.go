package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tempo-hr/tempo/internal/app"
	"github.com/tempo-hr/tempo/internal/auth"
	"github.com/tempo-hr/tempo/internal/employees"
	"github.com/tempo-hr/tempo/internal/observability"
	"github.com/tempo-hr/tempo/internal/payperiods"
	"github.com/tempo-hr/tempo/internal/platform/cache"
	"github.com/tempo-hr/tempo/internal/platform/db"
	"github.com/tempo-hr/tempo/internal/projects"
	"github.com/tempo-hr/tempo/internal/punches"
	"github.com/tempo-hr/tempo/internal/reports"
	"github.com/tempo-hr/tempo/internal/shared"
	"github.com/tempo-hr/tempo/internal/timesheets"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "tempo_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	employeeRepo := employees.NewRepository(pool)
	employeeService := employees.NewService(employeeRepo)
	employeeHandler := employees.NewHandler(logger, employeeService)

	payPeriodRepo := payperiods.NewRepository(pool)
	payPeriodService := payperiods.NewService(payPeriodRepo)
	payPeriodHandler := payperiods.NewHandler(logger, payPeriodService)

	timesheetRepo := timesheets.NewRepository(pool)
	timesheetService := timesheets.NewService(timesheetRepo, auditLogger, logger)
	timesheetHandler := timesheets.NewHandler(logger, timesheetService, employeeService)

	projectRepo := projects.NewRepository(pool)
	projectService := projects.NewService(projectRepo)
	projectHandler := projects.NewHandler(logger, projectService)

	reportRepo := reports.NewRepository(pool)
	reportService := reports.NewService(reportRepo)
	reportHandler := reports.NewHandler(logger, reportService, employeeService, timesheetService)

	punchRepo := punches.NewRepository(pool)
	punchService := punches.NewService(punchRepo, timesheetRepo)
	punchHandler := punches.NewHandler(logger, punchService, timesheetService, employeeService, projectService, reportService, cfg.Location())

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		AuthHandler:      authHandler,
		PayPeriodHandler: payPeriodHandler,
		EmployeeHandler:  employeeHandler,
		TimesheetHandler: timesheetHandler,
		PunchHandler:     punchHandler,
		ReportHandler:    reportHandler,
		ProjectHandler:   projectHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
