package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempo-hr/tempo/internal/shared"
)

type mockRepo struct {
	dayAggs   map[string]DayAggregate
	bounds    map[string]PeriodBounds
	timesheet *TimesheetRef
}

func (m *mockRepo) AggregateDay(ctx context.Context, timesheetID int64, date time.Time) (DayAggregate, error) {
	if agg, ok := m.dayAggs[shared.ISODate(date)]; ok {
		return agg, nil
	}
	return DayAggregate{Date: date}, nil
}

func (m *mockRepo) AggregateByDay(ctx context.Context, timesheetID int64) ([]DayAggregate, error) {
	var out []DayAggregate
	for _, agg := range m.dayAggs {
		out = append(out, agg)
	}
	return out, nil
}

func (m *mockRepo) GetPeriodBounds(ctx context.Context, payPeriodID string) (PeriodBounds, error) {
	b, ok := m.bounds[payPeriodID]
	if !ok {
		return PeriodBounds{}, shared.ErrNotFound
	}
	return b, nil
}

func (m *mockRepo) FindTimesheet(ctx context.Context, employeeID int64, payPeriodID string) (TimesheetRef, error) {
	if m.timesheet == nil {
		return TimesheetRef{}, shared.ErrNotFound
	}
	return *m.timesheet, nil
}

func date(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyTotalConvertsMinutes(t *testing.T) {
	day := date(2025, 6, 3)
	repo := &mockRepo{dayAggs: map[string]DayAggregate{
		"2025-06-03": {Date: day, Punches: 3, Minutes: 465},
	}}
	svc := NewService(repo)

	total, err := svc.DailyTotal(context.Background(), 1, day)
	require.NoError(t, err)
	assert.Equal(t, 3, total.TotalPunches)
	assert.InDelta(t, 7.75, total.TotalHours, 1e-9)
}

func TestDailyTotalEmptyDay(t *testing.T) {
	svc := NewService(&mockRepo{})

	total, err := svc.DailyTotal(context.Background(), 1, date(2025, 6, 3))
	require.NoError(t, err)
	assert.Zero(t, total.TotalPunches)
	assert.Zero(t, total.TotalHours)
}

func TestPayPeriodSummaryFillsEveryDay(t *testing.T) {
	repo := &mockRepo{
		bounds: map[string]PeriodBounds{
			"2025-12": {ID: "2025-12", StartDate: date(2025, 6, 1), EndDate: date(2025, 6, 14)},
		},
		timesheet: &TimesheetRef{ID: 42, Status: "Open"},
		dayAggs: map[string]DayAggregate{
			"2025-06-02": {Date: date(2025, 6, 2), Punches: 2, Minutes: 480},
			"2025-06-05": {Date: date(2025, 6, 5), Punches: 1, Minutes: 90},
		},
	}
	svc := NewService(repo)

	summary, err := svc.PayPeriodSummary(context.Background(), "2025-12", 7)
	require.NoError(t, err)

	require.Len(t, summary.Days, 14)
	assert.Equal(t, int64(42), summary.TimesheetID)
	assert.Equal(t, "Open", summary.TimesheetStatus)

	// Dates stay in order and zero days are present.
	assert.Equal(t, "2025-06-01", shared.ISODate(summary.Days[0].Date))
	assert.Equal(t, "2025-06-14", shared.ISODate(summary.Days[13].Date))
	assert.Zero(t, summary.Days[0].TotalPunches)
	assert.Equal(t, 2, summary.Days[1].TotalPunches)
	assert.InDelta(t, 8.0, summary.Days[1].TotalHours, 1e-9)
	assert.InDelta(t, 9.5, summary.TotalHours, 1e-9)
}

func TestPayPeriodSummaryWithoutTimesheet(t *testing.T) {
	repo := &mockRepo{
		bounds: map[string]PeriodBounds{
			"2025-12": {ID: "2025-12", StartDate: date(2025, 6, 1), EndDate: date(2025, 6, 14)},
		},
	}
	svc := NewService(repo)

	summary, err := svc.PayPeriodSummary(context.Background(), "2025-12", 7)
	require.NoError(t, err)

	assert.Zero(t, summary.TimesheetID)
	assert.Empty(t, summary.TimesheetStatus)
	require.Len(t, summary.Days, 14)
	assert.Zero(t, summary.TotalHours)
}

func TestPayPeriodSummaryUnknownPeriod(t *testing.T) {
	svc := NewService(&mockRepo{})
	_, err := svc.PayPeriodSummary(context.Background(), "missing", 7)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPayPeriodSummaryValidatesInput(t *testing.T) {
	svc := NewService(&mockRepo{})
	_, err := svc.PayPeriodSummary(context.Background(), "", 7)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.PayPeriodSummary(context.Background(), "2025-12", 0)
	assert.ErrorIs(t, err, shared.ErrValidation)
}
