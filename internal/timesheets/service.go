package timesheets

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tempo-hr/tempo/internal/shared"
)

// Service orchestrates timesheet lifecycle rules.
type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// GetOrCreate returns the unique timesheet for (employee, pay period),
// inserting an Open one when absent. The advisory lock plus conflict-tolerant
// insert makes concurrent calls for the same key converge on one row.
func (s *Service) GetOrCreate(ctx context.Context, employeeID int64, payPeriodID string) (Timesheet, error) {
	if employeeID == 0 || payPeriodID == "" {
		return Timesheet{}, shared.ErrValidation
	}
	var result Timesheet
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.LockEmployeePeriod(ctx, tx, employeeID, payPeriodID); err != nil {
			return err
		}
		ts, err := s.repo.FindByEmployeeAndPeriod(ctx, tx, employeeID, payPeriodID)
		if err == nil {
			result = ts
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		ts, inserted, err := s.repo.Insert(ctx, tx, employeeID, payPeriodID)
		if err != nil {
			return err
		}
		if !inserted {
			// Lost the insert to a concurrent writer on another connection.
			ts, err = s.repo.FindByEmployeeAndPeriod(ctx, tx, employeeID, payPeriodID)
			if err != nil {
				return err
			}
		}
		result = ts
		return nil
	})
	if err != nil {
		return Timesheet{}, err
	}
	return result, nil
}

// Get fetches a timesheet by id.
func (s *Service) Get(ctx context.Context, id int64) (Timesheet, error) {
	return s.repo.Get(ctx, id)
}

// Submit moves a timesheet to Submitted. Allowed from Open and Rejected;
// a repeat submit is a no-op; submitting an Approved sheet fails with
// ErrInvalidTransition.
func (s *Service) Submit(ctx context.Context, timesheetID, actorID int64) error {
	if timesheetID == 0 {
		return shared.ErrValidation
	}
	var wrote bool
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		ts, err := s.repo.GetForUpdate(ctx, tx, timesheetID)
		if err != nil {
			return err
		}
		needsWrite, err := ValidateSubmit(ts.Status)
		if err != nil {
			return err
		}
		if !needsWrite {
			return nil
		}
		wrote = true
		return s.repo.UpdateStatus(ctx, tx, timesheetID, StatusSubmitted, s.now())
	})
	if err != nil {
		return err
	}
	if wrote && s.audit != nil {
		auditErr := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "SUBMIT",
			Entity:   "timesheet",
			EntityID: strconv.FormatInt(timesheetID, 10),
		})
		if auditErr != nil && s.logger != nil {
			s.logger.Warn("record timesheet submit", slog.Any("error", auditErr))
		}
	}
	return nil
}
