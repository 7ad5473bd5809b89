package punches

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tempo-hr/tempo/internal/shared"
	"github.com/tempo-hr/tempo/internal/timesheets"
)

// timesheetStore is the slice of the timesheet repository the ledger needs to
// enforce ownership and the locked-timesheet invariant inside its own
// transactions.
type timesheetStore interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (timesheets.Timesheet, error)
}

// Service enforces the punch ledger rules: at most one open entry per
// timesheet, a single duration rounding rule, and no employee edits once the
// timesheet is submitted.
type Service struct {
	repo       Repository
	timesheets timesheetStore
	now        func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, timesheets timesheetStore) *Service {
	return &Service{
		repo:       repo,
		timesheets: timesheets,
		now:        time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// guardTimesheet loads the owning timesheet under lock and rejects the
// mutation when it belongs to someone else or is no longer editable.
func (s *Service) guardTimesheet(ctx context.Context, tx pgx.Tx, timesheetID, employeeID int64) (timesheets.Timesheet, error) {
	ts, err := s.timesheets.GetForUpdate(ctx, tx, timesheetID)
	if err != nil {
		return timesheets.Timesheet{}, err
	}
	if employeeID != 0 && ts.EmployeeID != employeeID {
		return timesheets.Timesheet{}, shared.ErrNotFound
	}
	if ts.Status.Locked() {
		return timesheets.Timesheet{}, ErrTimesheetLocked
	}
	return ts, nil
}

// ClockIn opens a new punch. The advisory lock serialises concurrent
// clock-ins on the same timesheet so the open-entry re-check cannot race a
// double tap.
func (s *Service) ClockIn(ctx context.Context, in ClockInInput) (Entry, error) {
	if in.TimesheetID == 0 {
		return Entry{}, shared.ErrValidation
	}
	var created Entry
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.LockTimesheet(ctx, tx, in.TimesheetID); err != nil {
			return err
		}
		if _, err := s.guardTimesheet(ctx, tx, in.TimesheetID, in.EmployeeID); err != nil {
			return err
		}
		if _, open, err := s.repo.GetOpenForUpdate(ctx, tx, in.TimesheetID); err != nil {
			return err
		} else if open {
			return ErrAlreadyClockedIn
		}
		now := s.now().UTC()
		entry := Entry{
			TimesheetID: in.TimesheetID,
			ProjectID:   in.ProjectID,
			TaskID:      in.TaskID,
			EntryDate:   now,
			TimeIn:      now,
		}
		var err error
		created, err = s.repo.Insert(ctx, tx, entry)
		return err
	})
	if err != nil {
		return Entry{}, err
	}
	return created, nil
}

// ClockOut closes an open punch, stamping time_out and the truncated minute
// duration. Clocking out an already closed punch is refused rather than
// silently recomputed.
func (s *Service) ClockOut(ctx context.Context, entryID, employeeID int64) (Entry, error) {
	if entryID == 0 {
		return Entry{}, shared.ErrValidation
	}
	var closed Entry
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		entry, err := s.repo.GetForUpdate(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if !entry.Open() {
			return ErrAlreadyClosed
		}
		if _, err := s.guardTimesheet(ctx, tx, entry.TimesheetID, employeeID); err != nil {
			return err
		}
		now := s.now().UTC()
		duration := DurationMinutes(entry.TimeIn, now)
		if err := s.repo.Close(ctx, tx, entryID, now, duration); err != nil {
			return err
		}
		entry.TimeOut = &now
		entry.Duration = &duration
		closed = entry
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return closed, nil
}

// CreateManual backfills a complete punch. Both timestamps are required and
// the duration uses the same truncation rule as clock-out.
func (s *Service) CreateManual(ctx context.Context, in ManualEntryInput) (Entry, error) {
	if in.TimesheetID == 0 || in.TimeIn.IsZero() || in.TimeOut.IsZero() {
		return Entry{}, shared.ErrValidation
	}
	if !in.TimeOut.After(in.TimeIn) {
		return Entry{}, ErrInvalidRange
	}
	var created Entry
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.LockTimesheet(ctx, tx, in.TimesheetID); err != nil {
			return err
		}
		if _, err := s.guardTimesheet(ctx, tx, in.TimesheetID, in.EmployeeID); err != nil {
			return err
		}
		timeIn := in.TimeIn.UTC()
		timeOut := in.TimeOut.UTC()
		duration := DurationMinutes(timeIn, timeOut)
		entry := Entry{
			TimesheetID: in.TimesheetID,
			ProjectID:   in.ProjectID,
			TaskID:      in.TaskID,
			EntryDate:   timeIn,
			TimeIn:      timeIn,
			TimeOut:     &timeOut,
			Duration:    &duration,
		}
		var err error
		created, err = s.repo.Insert(ctx, tx, entry)
		return err
	})
	if err != nil {
		return Entry{}, err
	}
	return created, nil
}

// Edit corrects an existing punch, recomputing duration and entry date from
// the edited timestamps.
func (s *Service) Edit(ctx context.Context, in EditEntryInput) (Entry, error) {
	if in.EntryID == 0 || in.TimeIn.IsZero() || in.TimeOut.IsZero() {
		return Entry{}, shared.ErrValidation
	}
	if !in.TimeOut.After(in.TimeIn) {
		return Entry{}, ErrInvalidRange
	}
	var updated Entry
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		entry, err := s.repo.GetForUpdate(ctx, tx, in.EntryID)
		if err != nil {
			return err
		}
		if _, err := s.guardTimesheet(ctx, tx, entry.TimesheetID, in.EmployeeID); err != nil {
			return err
		}
		timeIn := in.TimeIn.UTC()
		timeOut := in.TimeOut.UTC()
		duration := DurationMinutes(timeIn, timeOut)
		entry.ProjectID = in.ProjectID
		entry.TaskID = in.TaskID
		entry.EntryDate = timeIn
		entry.TimeIn = timeIn
		entry.TimeOut = &timeOut
		entry.Duration = &duration
		if err := s.repo.Update(ctx, tx, entry); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return updated, nil
}

// GetOpen returns the open punch for a timesheet, if any.
func (s *Service) GetOpen(ctx context.Context, timesheetID int64) (Entry, bool, error) {
	return s.repo.GetOpen(ctx, timesheetID)
}

// ListForDate returns a timesheet's punches for one calendar date.
func (s *Service) ListForDate(ctx context.Context, timesheetID int64, date time.Time) ([]Entry, error) {
	return s.repo.ListForDate(ctx, timesheetID, date)
}

// ListToday returns the punches recorded today.
func (s *Service) ListToday(ctx context.Context, timesheetID int64) ([]Entry, error) {
	return s.repo.ListForDate(ctx, timesheetID, s.now().UTC())
}
