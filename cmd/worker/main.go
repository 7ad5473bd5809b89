package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/tempo-hr/tempo/internal/app"
	"github.com/tempo-hr/tempo/internal/auth"
	"github.com/tempo-hr/tempo/internal/observability"
	"github.com/tempo-hr/tempo/internal/platform/db"
	"github.com/tempo-hr/tempo/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	metrics := observability.NewMetrics()

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)

	staleScanJob := jobs.NewStalePunchScanJob(pool, logger, metrics)
	sessionCleanupJob := jobs.NewSessionCleanupJob(authService, logger)

	staleScanTask, err := jobs.NewStalePunchScanTask(jobs.StalePunchScanPayload{MaxOpenHours: cfg.OpenEntryMaxHours})
	if err != nil {
		logger.Error("build stale punch scan task", slog.Any("error", err))
		os.Exit(1)
	}
	sessionCleanupTask, err := jobs.NewSessionCleanupTask(jobs.SessionCleanupPayload{RetentionDays: 7})
	if err != nil {
		logger.Error("build session cleanup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskStalePunchScan, Handler: staleScanJob.Handle},
			{Type: jobs.TaskSessionCleanup, Handler: sessionCleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/15 * * * *", Task: staleScanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 2 * * *", Task: sessionCleanupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
