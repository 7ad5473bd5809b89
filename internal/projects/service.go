package projects

import "context"

// Service exposes reference lookups and best-effort label formatting.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListActive returns the projects open for punching.
func (s *Service) ListActive(ctx context.Context) ([]Project, error) {
	return s.repo.ListActiveProjects(ctx)
}

// ListTasks returns all timesheet tasks.
func (s *Service) ListTasks(ctx context.Context) ([]Task, error) {
	return s.repo.ListTasks(ctx)
}

// ProjectLabel resolves a display label for a project id. Label resolution is
// decoration on punch responses, so a failed lookup degrades to an empty
// string instead of failing the operation.
func (s *Service) ProjectLabel(ctx context.Context, projectID int64) string {
	p, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return ""
	}
	return p.Label()
}

// TaskLabel resolves a display label for a task id, empty on failure.
func (s *Service) TaskLabel(ctx context.Context, taskID int64) string {
	t, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return ""
	}
	return t.Name
}
