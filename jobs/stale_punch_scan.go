package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tempo-hr/tempo/internal/observability"
)

const countOpenPunchesQuery = `SELECT COUNT(*) FROM hr.timesheet_entries WHERE time_out IS NULL`

const listStalePunchesQuery = `
SELECT e.timesheet_entry_id, t.employee_id, e.timesheet_id, e.time_in
FROM hr.timesheet_entries e
JOIN hr.timesheets t ON t.timesheet_id = e.timesheet_id
WHERE e.time_out IS NULL AND e.time_in < $1
ORDER BY e.time_in`

// PunchScanStore reads open punch state for the stale scan.
type PunchScanStore interface {
	CountOpen(ctx context.Context) (int, error)
	ListStale(ctx context.Context, cutoff time.Time) ([]StalePunch, error)
}

// StalePunch is one punch left open past the scan cutoff.
type StalePunch struct {
	EntryID     int64
	EmployeeID  int64
	TimesheetID int64
	TimeIn      time.Time
}

// PGPunchScanStore implements PunchScanStore over the application pool.
type PGPunchScanStore struct {
	pool *pgxpool.Pool
}

// NewPunchScanStore constructs a PostgreSQL scan store.
func NewPunchScanStore(pool *pgxpool.Pool) *PGPunchScanStore {
	return &PGPunchScanStore{pool: pool}
}

// CountOpen returns the number of punches without a time_out.
func (s *PGPunchScanStore) CountOpen(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, countOpenPunchesQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListStale returns open punches whose time_in predates the cutoff.
func (s *PGPunchScanStore) ListStale(ctx context.Context, cutoff time.Time) ([]StalePunch, error) {
	rows, err := s.pool.Query(ctx, listStalePunchesQuery, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StalePunch
	for rows.Next() {
		var p StalePunch
		if err := rows.Scan(&p.EntryID, &p.EmployeeID, &p.TimesheetID, &p.TimeIn); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// StalePunchScanJob flags punches that stayed open past the configured limit.
// It never closes entries on its own, employees fix them through the edit flow.
type StalePunchScanJob struct {
	Store   PunchScanStore
	Logger  *slog.Logger
	Metrics *observability.Metrics
	clock   func() time.Time
}

// NewStalePunchScanJob initialises the stale punch scan handler.
func NewStalePunchScanJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *observability.Metrics) *StalePunchScanJob {
	return &StalePunchScanJob{
		Store:   NewPunchScanStore(pool),
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the stale punch scan logic.
func (j *StalePunchScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("stale punch scan: handler not configured")
	}
	var payload StalePunchScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.MaxOpenHours <= 0 {
		payload.MaxOpenHours = 16
	}

	now := j.clock()
	cutoff := now.Add(-time.Duration(payload.MaxOpenHours) * time.Hour)

	openCount, err := j.Store.CountOpen(ctx)
	if err != nil {
		j.Logger.Error("count open punches", slog.Any("error", err))
		return err
	}
	if j.Metrics != nil {
		j.Metrics.SetOpenPunches(openCount)
	}

	stale, err := j.Store.ListStale(ctx, cutoff)
	if err != nil {
		j.Logger.Error("list stale punches", slog.Any("error", err))
		return err
	}
	if j.Metrics != nil {
		j.Metrics.AddStalePunches(len(stale))
	}

	for _, p := range stale {
		j.Logger.Warn("stale open punch",
			slog.Int64("entry_id", p.EntryID),
			slog.Int64("employee_id", p.EmployeeID),
			slog.Int64("timesheet_id", p.TimesheetID),
			slog.Time("time_in", p.TimeIn),
			slog.Duration("open_for", now.Sub(p.TimeIn)),
		)
	}

	j.Logger.Info("stale punch scan finished",
		slog.Int("open", openCount),
		slog.Int("stale", len(stale)),
		slog.Int("max_open_hours", payload.MaxOpenHours),
	)
	return nil
}
