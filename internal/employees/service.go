package employees

import (
	"context"
	"fmt"

	"github.com/tempo-hr/tempo/internal/shared"
)

// Service exposes employee lookups for the timeclock surface.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Lookup resolves the employee record for an authenticated account email.
// Inactive employees are treated as not found so a terminated account cannot
// keep punching.
func (s *Service) Lookup(ctx context.Context, email string) (Employee, error) {
	if email == "" {
		return Employee{}, fmt.Errorf("employees: email required: %w", shared.ErrValidation)
	}
	emp, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Employee{}, err
	}
	if !emp.IsActive {
		return Employee{}, shared.ErrNotFound
	}
	return emp, nil
}
