package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// SessionPurger removes expired session audit records.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// SessionCleanupJob purges expired login session records.
type SessionCleanupJob struct {
	Purger SessionPurger
	Logger *slog.Logger
	clock  func() time.Time
}

// NewSessionCleanupJob initialises the session cleanup handler.
func NewSessionCleanupJob(purger SessionPurger, logger *slog.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		Purger: purger,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the session cleanup logic.
func (j *SessionCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Purger == nil {
		return errors.New("session cleanup: handler not configured")
	}
	var payload SessionCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetentionDays < 0 {
		payload.RetentionDays = 0
	}

	before := j.clock().AddDate(0, 0, -payload.RetentionDays)
	removed, err := j.Purger.PurgeExpiredSessions(ctx, before)
	if err != nil {
		j.Logger.Error("purge expired sessions", slog.Any("error", err))
		return err
	}
	j.Logger.Info("session cleanup finished",
		slog.Int64("removed", removed),
		slog.Int("retention_days", payload.RetentionDays),
	)
	return nil
}
