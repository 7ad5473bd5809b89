package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tempo-hr/tempo/internal/shared"
)

// Repository defines read operations against hr.employees.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (Employee, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches the employee record linked to an account email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (Employee, error) {
	var e Employee
	err := r.pool.QueryRow(ctx, `SELECT employee_id, first_name, last_name, email, employee_number, is_active
FROM hr.employees WHERE email = $1`, email).Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.EmployeeNumber, &e.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, shared.ErrNotFound
		}
		return Employee{}, fmt.Errorf("employees: find by email: %w", err)
	}
	return e, nil
}

var _ Repository = (*PGRepository)(nil)
