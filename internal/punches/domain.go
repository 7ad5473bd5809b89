// Package punches is the ledger of clock sessions. A punch is created on
// clock-in, closed on clock-out, and may be backfilled or corrected while the
// owning timesheet is still open.
package punches

import (
	"fmt"
	"time"

	"github.com/tempo-hr/tempo/internal/shared"
)

// Entry is one clock session. TimeOut is nil while the employee is clocked
// in; Duration is computed at close or edit time and never trusted
// independently of the timestamps.
type Entry struct {
	ID            int64
	TimesheetID   int64
	ProjectID     *int64
	TaskID        *int64
	EntryDate     time.Time
	TimeIn        time.Time
	TimeOut       *time.Time
	Duration      *int
	MinutesPaid   *int
	MinutesBanked *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Open reports whether the punch has no recorded clock-out yet.
func (e Entry) Open() bool {
	return e.TimeOut == nil
}

// DurationMinutes applies the single rounding rule used everywhere: whole
// minutes between in and out, truncated. 47m30s is 47 minutes.
func DurationMinutes(in, out time.Time) int {
	return int(out.Sub(in) / time.Minute)
}

var (
	// ErrAlreadyClockedIn indicates the timesheet already has an open punch.
	ErrAlreadyClockedIn = fmt.Errorf("punches: already clocked in: %w", shared.ErrInvalidState)
	// ErrAlreadyClosed indicates a clock-out against a closed punch.
	ErrAlreadyClosed = fmt.Errorf("punches: entry already clocked out: %w", shared.ErrInvalidState)
	// ErrTimesheetLocked indicates the owning timesheet is submitted or
	// approved and entries may no longer be changed by the employee.
	ErrTimesheetLocked = fmt.Errorf("punches: timesheet is locked: %w", shared.ErrInvalidState)
	// ErrInvalidRange indicates time_out is not after time_in.
	ErrInvalidRange = fmt.Errorf("punches: time_out must be after time_in: %w", shared.ErrValidation)
)

// ClockInInput carries the optional project/task tags for a new punch.
// Absent project or task is a valid state.
type ClockInInput struct {
	TimesheetID int64
	EmployeeID  int64
	ProjectID   *int64
	TaskID      *int64
}

// ManualEntryInput backfills a complete punch with both timestamps supplied.
type ManualEntryInput struct {
	TimesheetID int64
	EmployeeID  int64
	ProjectID   *int64
	TaskID      *int64
	TimeIn      time.Time
	TimeOut     time.Time
}

// EditEntryInput corrects an existing punch.
type EditEntryInput struct {
	EntryID    int64
	EmployeeID int64
	ProjectID  *int64
	TaskID     *int64
	TimeIn     time.Time
	TimeOut    time.Time
}
