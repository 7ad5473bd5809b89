package timesheets

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

// Repository defines persistence operations for timesheets.
type Repository interface {
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
	LockEmployeePeriod(ctx context.Context, tx pgx.Tx, employeeID int64, payPeriodID string) error
	FindByEmployeeAndPeriod(ctx context.Context, tx pgx.Tx, employeeID int64, payPeriodID string) (Timesheet, error)
	Insert(ctx context.Context, tx pgx.Tx, employeeID int64, payPeriodID string) (Timesheet, bool, error)
	Get(ctx context.Context, id int64) (Timesheet, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (Timesheet, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status Status, at time.Time) error
}

const timesheetColumns = `timesheet_id, employee_id, pay_period_id, status,
approver_id, approver_name, approved_on, note, created_at, updated_at`

// PGRepository implements Repository against hr.timesheets.
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

// LockEmployeePeriod serialises get-or-create for one (employee, period) key.
func (r *PGRepository) LockEmployeePeriod(ctx context.Context, tx pgx.Tx, employeeID int64, payPeriodID string) error {
	return shared.LockEmployeePeriod(ctx, tx, employeeID, payPeriodID)
}

// FindByEmployeeAndPeriod looks up the unique timesheet for the key.
func (r *PGRepository) FindByEmployeeAndPeriod(ctx context.Context, tx pgx.Tx, employeeID int64, payPeriodID string) (Timesheet, error) {
	row := tx.QueryRow(ctx, `SELECT `+timesheetColumns+`
FROM hr.timesheets WHERE employee_id = $1 AND pay_period_id = $2`, employeeID, payPeriodID)
	ts, err := scanTimesheet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Timesheet{}, shared.ErrNotFound
		}
		return Timesheet{}, fmt.Errorf("timesheets: find by employee/period: %w", err)
	}
	return ts, nil
}

// Insert creates a new Open timesheet. The boolean reports whether a row was
// actually inserted; false means a concurrent writer got there first and the
// caller should re-select.
func (r *PGRepository) Insert(ctx context.Context, tx pgx.Tx, employeeID int64, payPeriodID string) (Timesheet, bool, error) {
	row := tx.QueryRow(ctx, `INSERT INTO hr.timesheets (employee_id, pay_period_id, status, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
ON CONFLICT (employee_id, pay_period_id) DO NOTHING
RETURNING `+timesheetColumns, employeeID, payPeriodID, string(StatusOpen))
	ts, err := scanTimesheet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Timesheet{}, false, nil
		}
		return Timesheet{}, false, fmt.Errorf("timesheets: insert: %w", err)
	}
	return ts, true, nil
}

// Get fetches a timesheet by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Timesheet, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+timesheetColumns+`
FROM hr.timesheets WHERE timesheet_id = $1`, id)
	ts, err := scanTimesheet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Timesheet{}, shared.ErrNotFound
		}
		return Timesheet{}, fmt.Errorf("timesheets: get %d: %w", id, err)
	}
	return ts, nil
}

// GetForUpdate locks the timesheet row for the duration of the transaction.
func (r *PGRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (Timesheet, error) {
	row := tx.QueryRow(ctx, `SELECT `+timesheetColumns+`
FROM hr.timesheets WHERE timesheet_id = $1 FOR UPDATE`, id)
	ts, err := scanTimesheet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Timesheet{}, shared.ErrNotFound
		}
		return Timesheet{}, fmt.Errorf("timesheets: get for update %d: %w", id, err)
	}
	return ts, nil
}

// UpdateStatus writes a new status and update timestamp.
func (r *PGRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status Status, at time.Time) error {
	tag, err := tx.Exec(ctx, `UPDATE hr.timesheets SET status = $2, updated_at = $3
WHERE timesheet_id = $1`, id, string(status), at.UTC())
	if err != nil {
		return fmt.Errorf("timesheets: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanTimesheet(row pgx.Row) (Timesheet, error) {
	var ts Timesheet
	var rawStatus string
	if err := row.Scan(&ts.ID, &ts.EmployeeID, &ts.PayPeriodID, &rawStatus,
		&ts.ApproverID, &ts.ApproverName, &ts.ApprovedOn, &ts.Note,
		&ts.CreatedAt, &ts.UpdatedAt); err != nil {
		return Timesheet{}, err
	}
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return Timesheet{}, err
	}
	ts.Status = status
	return ts, nil
}

var _ Repository = (*PGRepository)(nil)
