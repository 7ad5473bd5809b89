package reports

import (
	"context"
	"errors"
	"time"

	"github.com/tempo-hr/tempo/internal/shared"
)

// Service computes display totals from the punch ledger.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// DailyTotal sums a timesheet's punches for one calendar date.
func (s *Service) DailyTotal(ctx context.Context, timesheetID int64, date time.Time) (DailyTotal, error) {
	agg, err := s.repo.AggregateDay(ctx, timesheetID, date)
	if err != nil {
		return DailyTotal{}, err
	}
	return DailyTotal{
		Date:         agg.Date,
		TotalPunches: agg.Punches,
		TotalHours:   float64(agg.Minutes) / 60,
	}, nil
}

// DailyHours returns just the hour total for a date.
func (s *Service) DailyHours(ctx context.Context, timesheetID int64, date time.Time) (float64, error) {
	total, err := s.DailyTotal(ctx, timesheetID, date)
	if err != nil {
		return 0, err
	}
	return total.TotalHours, nil
}

// PayPeriodSummary returns one row for every date in the period. Days without
// punches appear with zero totals. When the employee has no timesheet for the
// period yet, every day is zero and the status is empty.
func (s *Service) PayPeriodSummary(ctx context.Context, payPeriodID string, employeeID int64) (PayPeriodSummary, error) {
	if payPeriodID == "" || employeeID == 0 {
		return PayPeriodSummary{}, shared.ErrValidation
	}
	bounds, err := s.repo.GetPeriodBounds(ctx, payPeriodID)
	if err != nil {
		return PayPeriodSummary{}, err
	}

	summary := PayPeriodSummary{PayPeriodID: payPeriodID}

	ref, err := s.repo.FindTimesheet(ctx, employeeID, payPeriodID)
	switch {
	case err == nil:
		summary.TimesheetID = ref.ID
		summary.TimesheetStatus = ref.Status
	case errors.Is(err, shared.ErrNotFound):
		// No timesheet yet: the period still renders as all-zero days.
	default:
		return PayPeriodSummary{}, err
	}

	byDate := make(map[string]DayAggregate)
	if summary.TimesheetID != 0 {
		aggs, err := s.repo.AggregateByDay(ctx, summary.TimesheetID)
		if err != nil {
			return PayPeriodSummary{}, err
		}
		for _, a := range aggs {
			byDate[shared.ISODate(a.Date)] = a
		}
	}

	for _, date := range shared.DatesBetween(bounds.StartDate, bounds.EndDate) {
		day := DaySummary{Date: date}
		if agg, ok := byDate[shared.ISODate(date)]; ok {
			day.TotalPunches = agg.Punches
			day.TotalHours = float64(agg.Minutes) / 60
		}
		summary.Days = append(summary.Days, day)
		summary.TotalHours += day.TotalHours
	}
	return summary, nil
}
