package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tempo-hr/tempo/internal/shared"
)

// Repository defines reference-data reads.
type Repository interface {
	ListActiveProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id int64) (Project, error)
	ListTasks(ctx context.Context) ([]Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListActiveProjects returns projects an employee may punch against, newest
// project number first.
func (r *PGRepository) ListActiveProjects(ctx context.Context) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT project_id, project_number, project_name, project_status
FROM pm.projects WHERE project_status = ANY($1)
ORDER BY project_number DESC`, activeStatuses)
	if err != nil {
		return nil, fmt.Errorf("projects: list active: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Number, &p.Name, &p.Status); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project.
func (r *PGRepository) GetProject(ctx context.Context, id int64) (Project, error) {
	var p Project
	err := r.pool.QueryRow(ctx, `SELECT project_id, project_number, project_name, project_status
FROM pm.projects WHERE project_id = $1`, id).Scan(&p.ID, &p.Number, &p.Name, &p.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, shared.ErrNotFound
		}
		return Project{}, fmt.Errorf("projects: get %d: %w", id, err)
	}
	return p, nil
}

// ListTasks returns all timesheet tasks.
func (r *PGRepository) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT timesheet_task_id, task_name
FROM hr.timesheet_tasks ORDER BY task_name`)
	if err != nil {
		return nil, fmt.Errorf("projects: list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches one timesheet task.
func (r *PGRepository) GetTask(ctx context.Context, id int64) (Task, error) {
	var t Task
	err := r.pool.QueryRow(ctx, `SELECT timesheet_task_id, task_name
FROM hr.timesheet_tasks WHERE timesheet_task_id = $1`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, shared.ErrNotFound
		}
		return Task{}, fmt.Errorf("projects: get task %d: %w", id, err)
	}
	return t, nil
}

var _ Repository = (*PGRepository)(nil)
