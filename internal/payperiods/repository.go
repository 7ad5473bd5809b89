package payperiods

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tempo-hr/tempo/internal/shared"
)

// Repository defines persistence operations for pay periods.
type Repository interface {
	FindCovering(ctx context.Context, date time.Time) ([]PayPeriod, error)
	ListStartingBefore(ctx context.Context, asOf time.Time, limit int) ([]PayPeriod, error)
	GetByID(ctx context.Context, id string) (PayPeriod, error)
}

// PGRepository implements Repository against hr.pay_periods.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindCovering returns every period whose [start_date, end_date] contains the
// calendar date of the given instant. Zero or multiple rows are both valid
// query outcomes here; the service decides what they mean.
func (r *PGRepository) FindCovering(ctx context.Context, date time.Time) ([]PayPeriod, error) {
	rows, err := r.pool.Query(ctx, `SELECT pay_period_id, start_date, end_date
FROM hr.pay_periods WHERE start_date <= $1::date AND end_date >= $1::date`, shared.ISODate(date))
	if err != nil {
		return nil, fmt.Errorf("payperiods: find covering: %w", err)
	}
	defer rows.Close()
	return scanPeriods(rows)
}

// ListStartingBefore returns up to limit periods with start_date <= asOf,
// most recent first.
func (r *PGRepository) ListStartingBefore(ctx context.Context, asOf time.Time, limit int) ([]PayPeriod, error) {
	rows, err := r.pool.Query(ctx, `SELECT pay_period_id, start_date, end_date
FROM hr.pay_periods WHERE start_date <= $1::date
ORDER BY start_date DESC LIMIT $2`, shared.ISODate(asOf), limit)
	if err != nil {
		return nil, fmt.Errorf("payperiods: list recent: %w", err)
	}
	defer rows.Close()
	return scanPeriods(rows)
}

// GetByID fetches a single period.
func (r *PGRepository) GetByID(ctx context.Context, id string) (PayPeriod, error) {
	var p PayPeriod
	err := r.pool.QueryRow(ctx, `SELECT pay_period_id, start_date, end_date
FROM hr.pay_periods WHERE pay_period_id = $1`, id).Scan(&p.ID, &p.StartDate, &p.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PayPeriod{}, shared.ErrNotFound
		}
		return PayPeriod{}, fmt.Errorf("payperiods: get %s: %w", id, err)
	}
	return p, nil
}

func scanPeriods(rows pgx.Rows) ([]PayPeriod, error) {
	var periods []PayPeriod
	for rows.Next() {
		var p PayPeriod
		if err := rows.Scan(&p.ID, &p.StartDate, &p.EndDate); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return periods, nil
}

var _ Repository = (*PGRepository)(nil)
