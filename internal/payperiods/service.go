package payperiods

import (
	"context"
	"time"

	"github.com/tempo-hr/tempo/internal/shared"
)

// Service resolves pay periods for the timeclock surface.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ResolveCurrent finds the unique period containing the current date.
// "No active period" surfaces as shared.ErrNotFound, which callers must treat
// as a first-class state rather than a retryable failure; more than one match
// is a data error.
func (s *Service) ResolveCurrent(ctx context.Context) (PayPeriod, error) {
	periods, err := s.repo.FindCovering(ctx, s.now().UTC())
	if err != nil {
		return PayPeriod{}, err
	}
	switch len(periods) {
	case 0:
		return PayPeriod{}, shared.ErrNotFound
	case 1:
		return periods[0], nil
	default:
		return PayPeriod{}, ErrAmbiguousPeriod
	}
}

// ListRecent returns up to limit periods that have started as of now, most
// recent first. A non-positive limit falls back to DefaultRecentLimit.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]PayPeriod, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.repo.ListStartingBefore(ctx, s.now().UTC(), limit)
}

// Get fetches a period by its id.
func (s *Service) Get(ctx context.Context, id string) (PayPeriod, error) {
	if id == "" {
		return PayPeriod{}, shared.ErrValidation
	}
	return s.repo.GetByID(ctx, id)
}
