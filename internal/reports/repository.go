package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tempo-hr/tempo/internal/shared"
)

// DayAggregate is a per-date rollup row straight from the store.
type DayAggregate struct {
	Date    time.Time
	Punches int
	Minutes int
}

// PeriodBounds carries a pay period's inclusive date range.
type PeriodBounds struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
}

// TimesheetRef points at the timesheet a summary is computed for.
type TimesheetRef struct {
	ID     int64
	Status string
}

// Repository defines the read queries behind the aggregator.
type Repository interface {
	AggregateDay(ctx context.Context, timesheetID int64, date time.Time) (DayAggregate, error)
	AggregateByDay(ctx context.Context, timesheetID int64) ([]DayAggregate, error)
	GetPeriodBounds(ctx context.Context, payPeriodID string) (PeriodBounds, error)
	FindTimesheet(ctx context.Context, employeeID int64, payPeriodID string) (TimesheetRef, error)
}

// PGRepository implements Repository with read-only queries.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// AggregateDay counts punches and sums closed durations for one date.
// Open entries count as punches but add zero minutes.
func (r *PGRepository) AggregateDay(ctx context.Context, timesheetID int64, date time.Time) (DayAggregate, error) {
	agg := DayAggregate{Date: date}
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(COALESCE(duration, 0)), 0)
FROM hr.timesheet_entries WHERE timesheet_id = $1 AND entry_date = $2::date`,
		timesheetID, shared.ISODate(date)).Scan(&agg.Punches, &agg.Minutes)
	if err != nil {
		return DayAggregate{}, fmt.Errorf("reports: aggregate day: %w", err)
	}
	return agg, nil
}

// AggregateByDay groups a timesheet's punches by entry date.
func (r *PGRepository) AggregateByDay(ctx context.Context, timesheetID int64) ([]DayAggregate, error) {
	rows, err := r.pool.Query(ctx, `SELECT entry_date, COUNT(*), COALESCE(SUM(COALESCE(duration, 0)), 0)
FROM hr.timesheet_entries WHERE timesheet_id = $1
GROUP BY entry_date ORDER BY entry_date`, timesheetID)
	if err != nil {
		return nil, fmt.Errorf("reports: aggregate by day: %w", err)
	}
	defer rows.Close()

	var aggs []DayAggregate
	for rows.Next() {
		var a DayAggregate
		if err := rows.Scan(&a.Date, &a.Punches, &a.Minutes); err != nil {
			return nil, err
		}
		aggs = append(aggs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}

// GetPeriodBounds fetches a pay period's date range.
func (r *PGRepository) GetPeriodBounds(ctx context.Context, payPeriodID string) (PeriodBounds, error) {
	var b PeriodBounds
	err := r.pool.QueryRow(ctx, `SELECT pay_period_id, start_date, end_date
FROM hr.pay_periods WHERE pay_period_id = $1`, payPeriodID).Scan(&b.ID, &b.StartDate, &b.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PeriodBounds{}, shared.ErrNotFound
		}
		return PeriodBounds{}, fmt.Errorf("reports: period bounds: %w", err)
	}
	return b, nil
}

// FindTimesheet resolves the timesheet for (employee, period), if one exists.
func (r *PGRepository) FindTimesheet(ctx context.Context, employeeID int64, payPeriodID string) (TimesheetRef, error) {
	var ref TimesheetRef
	err := r.pool.QueryRow(ctx, `SELECT timesheet_id, status
FROM hr.timesheets WHERE employee_id = $1 AND pay_period_id = $2`, employeeID, payPeriodID).Scan(&ref.ID, &ref.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TimesheetRef{}, shared.ErrNotFound
		}
		return TimesheetRef{}, fmt.Errorf("reports: find timesheet: %w", err)
	}
	return ref, nil
}

var _ Repository = (*PGRepository)(nil)
