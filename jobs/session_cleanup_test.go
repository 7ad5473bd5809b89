package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPurger struct {
	removed int64
	err     error
	gotTime time.Time
}

func (s *stubPurger) PurgeExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	s.gotTime = before
	return s.removed, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionCleanupAppliesRetention(t *testing.T) {
	purger := &stubPurger{removed: 3}
	job := NewSessionCleanupJob(purger, discardLogger())
	now := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	job.clock = func() time.Time { return now }

	task, err := NewSessionCleanupTask(SessionCleanupPayload{RetentionDays: 7})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, now.AddDate(0, 0, -7), purger.gotTime)
}

func TestSessionCleanupPropagatesError(t *testing.T) {
	purger := &stubPurger{err: errors.New("db down")}
	job := NewSessionCleanupJob(purger, discardLogger())

	task, err := NewSessionCleanupTask(SessionCleanupPayload{})
	require.NoError(t, err)

	assert.Error(t, job.Handle(context.Background(), task))
}

func TestSessionCleanupSkipsBadPayload(t *testing.T) {
	job := NewSessionCleanupJob(&stubPurger{}, discardLogger())
	task := asynq.NewTask(TaskSessionCleanup, []byte("{not json"))

	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
