package punches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tempo-hr/tempo/internal/platform/db"
	"github.com/tempo-hr/tempo/internal/shared"
)

// Repository defines persistence operations for timesheet entries.
type Repository interface {
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
	LockTimesheet(ctx context.Context, tx pgx.Tx, timesheetID int64) error
	GetOpen(ctx context.Context, timesheetID int64) (Entry, bool, error)
	GetOpenForUpdate(ctx context.Context, tx pgx.Tx, timesheetID int64) (Entry, bool, error)
	Insert(ctx context.Context, tx pgx.Tx, e Entry) (Entry, error)
	Get(ctx context.Context, id int64) (Entry, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (Entry, error)
	Close(ctx context.Context, tx pgx.Tx, id int64, timeOut time.Time, duration int) error
	Update(ctx context.Context, tx pgx.Tx, e Entry) error
	ListForDate(ctx context.Context, timesheetID int64, date time.Time) ([]Entry, error)
}

const entryColumns = `timesheet_entry_id, timesheet_id, project_id, timesheet_task_id,
entry_date, time_in, time_out, duration, minutes_paid, minutes_banked, created_at, updated_at`

// PGRepository implements Repository against hr.timesheet_entries.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// WithTx runs fn in a transaction on the underlying pool.
func (r *PGRepository) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

// LockTimesheet takes the per-timesheet advisory lock for the transaction.
func (r *PGRepository) LockTimesheet(ctx context.Context, tx pgx.Tx, timesheetID int64) error {
	return shared.LockTimesheet(ctx, tx, timesheetID)
}

// GetOpen returns the open entry for a timesheet. The boolean distinguishes
// "not clocked in", which is an expected state, from a fetch failure.
func (r *PGRepository) GetOpen(ctx context.Context, timesheetID int64) (Entry, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+`
FROM hr.timesheet_entries WHERE timesheet_id = $1 AND time_out IS NULL`, timesheetID)
	return scanOptionalEntry(row)
}

// GetOpenForUpdate re-checks the open entry inside a transaction, locking it.
func (r *PGRepository) GetOpenForUpdate(ctx context.Context, tx pgx.Tx, timesheetID int64) (Entry, bool, error) {
	row := tx.QueryRow(ctx, `SELECT `+entryColumns+`
FROM hr.timesheet_entries WHERE timesheet_id = $1 AND time_out IS NULL FOR UPDATE`, timesheetID)
	return scanOptionalEntry(row)
}

// Insert persists a new entry and returns the stored row.
func (r *PGRepository) Insert(ctx context.Context, tx pgx.Tx, e Entry) (Entry, error) {
	row := tx.QueryRow(ctx, `INSERT INTO hr.timesheet_entries
(timesheet_id, project_id, timesheet_task_id, entry_date, time_in, time_out, duration, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
RETURNING `+entryColumns,
		e.TimesheetID, e.ProjectID, e.TaskID, shared.ISODate(e.EntryDate), e.TimeIn.UTC(), nullableTime(e.TimeOut), e.Duration)
	stored, err := scanEntry(row)
	if err != nil {
		return Entry{}, fmt.Errorf("punches: insert: %w", err)
	}
	return stored, nil
}

// Get fetches an entry by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Entry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+`
FROM hr.timesheet_entries WHERE timesheet_entry_id = $1`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, shared.ErrNotFound
		}
		return Entry{}, fmt.Errorf("punches: get %d: %w", id, err)
	}
	return e, nil
}

// GetForUpdate locks an entry row for the transaction.
func (r *PGRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (Entry, error) {
	row := tx.QueryRow(ctx, `SELECT `+entryColumns+`
FROM hr.timesheet_entries WHERE timesheet_entry_id = $1 FOR UPDATE`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, shared.ErrNotFound
		}
		return Entry{}, fmt.Errorf("punches: get for update %d: %w", id, err)
	}
	return e, nil
}

// Close records the clock-out timestamp and computed duration.
func (r *PGRepository) Close(ctx context.Context, tx pgx.Tx, id int64, timeOut time.Time, duration int) error {
	tag, err := tx.Exec(ctx, `UPDATE hr.timesheet_entries
SET time_out = $2, duration = $3, updated_at = $2
WHERE timesheet_entry_id = $1`, id, timeOut.UTC(), duration)
	if err != nil {
		return fmt.Errorf("punches: close: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Update rewrites the mutable fields of an entry.
func (r *PGRepository) Update(ctx context.Context, tx pgx.Tx, e Entry) error {
	tag, err := tx.Exec(ctx, `UPDATE hr.timesheet_entries
SET project_id = $2, timesheet_task_id = $3, entry_date = $4, time_in = $5, time_out = $6, duration = $7, updated_at = NOW()
WHERE timesheet_entry_id = $1`,
		e.ID, e.ProjectID, e.TaskID, shared.ISODate(e.EntryDate), e.TimeIn.UTC(), nullableTime(e.TimeOut), e.Duration)
	if err != nil {
		return fmt.Errorf("punches: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListForDate returns a timesheet's entries for one calendar date ordered by
// clock-in time.
func (r *PGRepository) ListForDate(ctx context.Context, timesheetID int64, date time.Time) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+`
FROM hr.timesheet_entries WHERE timesheet_id = $1 AND entry_date = $2::date
ORDER BY time_in ASC`, timesheetID, shared.ISODate(date))
	if err != nil {
		return nil, fmt.Errorf("punches: list for date: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	if err := row.Scan(&e.ID, &e.TimesheetID, &e.ProjectID, &e.TaskID,
		&e.EntryDate, &e.TimeIn, &e.TimeOut, &e.Duration,
		&e.MinutesPaid, &e.MinutesBanked, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func scanOptionalEntry(row pgx.Row) (Entry, bool, error) {
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("punches: open entry: %w", err)
	}
	return e, true, nil
}

func nullableTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

var _ Repository = (*PGRepository)(nil)
