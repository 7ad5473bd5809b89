package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScanStore struct {
	open      int
	stale     []StalePunch
	err       error
	gotCutoff time.Time
}

func (s *stubScanStore) CountOpen(ctx context.Context) (int, error) {
	return s.open, s.err
}

func (s *stubScanStore) ListStale(ctx context.Context, cutoff time.Time) ([]StalePunch, error) {
	s.gotCutoff = cutoff
	return s.stale, s.err
}

func newScanJob(store PunchScanStore, now time.Time) *StalePunchScanJob {
	return &StalePunchScanJob{
		Store:  store,
		Logger: discardLogger(),
		clock:  func() time.Time { return now },
	}
}

func TestStalePunchScanAppliesCutoff(t *testing.T) {
	store := &stubScanStore{open: 3, stale: []StalePunch{
		{EntryID: 11, EmployeeID: 7, TimesheetID: 42, TimeIn: time.Date(2025, 6, 14, 6, 0, 0, 0, time.UTC)},
	}}
	now := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	job := newScanJob(store, now)

	task, err := NewStalePunchScanTask(StalePunchScanPayload{MaxOpenHours: 12})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, now.Add(-12*time.Hour), store.gotCutoff)
}

func TestStalePunchScanDefaultsMaxHours(t *testing.T) {
	store := &stubScanStore{}
	now := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	job := newScanJob(store, now)

	task, err := NewStalePunchScanTask(StalePunchScanPayload{})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, now.Add(-16*time.Hour), store.gotCutoff)
}

func TestStalePunchScanPropagatesError(t *testing.T) {
	job := newScanJob(&stubScanStore{err: errors.New("db down")}, time.Now().UTC())

	task, err := NewStalePunchScanTask(StalePunchScanPayload{})
	require.NoError(t, err)

	assert.Error(t, job.Handle(context.Background(), task))
}

func TestStalePunchScanSkipsBadPayload(t *testing.T) {
	job := newScanJob(&stubScanStore{}, time.Now().UTC())
	task := asynq.NewTask(TaskStalePunchScan, []byte("{not json"))

	assert.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}

func TestStalePunchQueriesUseSchemaColumns(t *testing.T) {
	assert.Contains(t, listStalePunchesQuery, "e.timesheet_entry_id")
	assert.Contains(t, listStalePunchesQuery, "t.timesheet_id = e.timesheet_id")
	assert.False(t, strings.Contains(listStalePunchesQuery, "e.id"), "entries have no bare id column")
	assert.False(t, strings.Contains(listStalePunchesQuery, "t.id "), "timesheets have no bare id column")
	assert.Contains(t, countOpenPunchesQuery, "hr.timesheet_entries")
}
