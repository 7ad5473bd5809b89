package projects

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tempo-hr/tempo/internal/platform/httpx"
)

type referenceService interface {
	ListActive(ctx context.Context) ([]Project, error)
	ListTasks(ctx context.Context) ([]Task, error)
}

// Handler wires HTTP endpoints for reference lists.
type Handler struct {
	logger  *slog.Logger
	service referenceService
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service referenceService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers reference routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/projects", h.listProjects)
	r.Get("/timesheet-tasks", h.listTasks)
}

type projectView struct {
	ProjectID     int64  `json:"project_id"`
	ProjectNumber string `json:"project_number"`
	ProjectName   string `json:"project_name"`
	Label         string `json:"label"`
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.Error("list projects", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, projectView{
			ProjectID:     p.ID,
			ProjectNumber: p.Number,
			ProjectName:   p.Name,
			Label:         p.Label(),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": views})
}

type taskView struct {
	TimesheetTaskID int64  `json:"timesheet_task_id"`
	TaskName        string `json:"task_name"`
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		h.logger.Error("list timesheet tasks", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskView{TimesheetTaskID: t.ID, TaskName: t.Name})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": views})
}
