// Package reports computes the daily and pay-period hour rollups displayed
// in the timesheet views. It is a pure read model; nothing here mutates.
package reports

import "time"

// DailyTotal aggregates one timesheet's punches for one calendar date.
// Open punches count toward TotalPunches but contribute no hours until they
// are closed.
type DailyTotal struct {
	Date         time.Time
	TotalPunches int
	TotalHours   float64
}

// DaySummary is one row of a pay-period summary.
type DaySummary struct {
	Date         time.Time
	TotalPunches int
	TotalHours   float64
}

// PayPeriodSummary covers every date in the period, zero days included.
type PayPeriodSummary struct {
	PayPeriodID     string
	TimesheetID     int64
	TimesheetStatus string
	Days            []DaySummary
	TotalHours      float64
}
