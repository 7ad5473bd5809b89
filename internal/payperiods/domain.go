// Package payperiods resolves the pay periods that timesheets are tallied
// against. Periods are reference data populated externally; this module only
// reads them.
package payperiods

import (
	"errors"
	"time"

	"github.com/tempo-hr/tempo/internal/shared"
)

// PayPeriod is an immutable date range against which hours are tallied.
// Start and end are calendar dates; the range is inclusive on both ends.
type PayPeriod struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
}

// Contains reports whether the calendar date of t falls inside the period.
func (p PayPeriod) Contains(t time.Time) bool {
	d := shared.ISODate(t)
	return shared.ISODate(p.StartDate) <= d && d <= shared.ISODate(p.EndDate)
}

// ErrAmbiguousPeriod indicates overlapping periods cover the same date, which
// is a data error in the externally managed period table.
var ErrAmbiguousPeriod = errors.New("payperiods: more than one period covers the date")

// DefaultRecentLimit caps historical pickers at roughly one year of weekly
// periods.
const DefaultRecentLimit = 52
