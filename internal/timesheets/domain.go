// Package timesheets manages the per-employee, per-pay-period container of
// punches and its approval lifecycle.
package timesheets

import (
	"fmt"
	"time"

	"github.com/tempo-hr/tempo/internal/shared"
)

// Status enumerates the timesheet lifecycle. The set is closed; any other
// stored string is a data error and is surfaced, never coerced.
type Status string

const (
	StatusOpen      Status = "Open"
	StatusSubmitted Status = "Submitted"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
)

// ParseStatus validates a stored status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusOpen, StatusSubmitted, StatusApproved, StatusRejected:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("timesheets: unknown status %q", raw)
	}
}

// Locked reports whether employee edits to entries are forbidden.
func (s Status) Locked() bool {
	return s == StatusSubmitted || s == StatusApproved
}

// Timesheet is one row per (employee, pay period).
type Timesheet struct {
	ID           int64
	EmployeeID   int64
	PayPeriodID  string
	Status       Status
	ApproverID   *int64
	ApproverName *string
	ApprovedOn   *time.Time
	Note         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrInvalidTransition is returned when a status change is not allowed from
// the current state, e.g. submitting an approved timesheet.
var ErrInvalidTransition = fmt.Errorf("timesheets: transition not allowed: %w", shared.ErrInvalidState)

// ValidateSubmit checks whether a timesheet may move to Submitted.
// Submitting an already submitted sheet is a safe no-op (double click);
// the second return value reports whether a write is needed.
func ValidateSubmit(current Status) (needsWrite bool, err error) {
	switch current {
	case StatusOpen, StatusRejected:
		return true, nil
	case StatusSubmitted:
		return false, nil
	default:
		return false, ErrInvalidTransition
	}
}
