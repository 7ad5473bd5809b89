package employees

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tempo-hr/tempo/internal/platform/httpx"
	"github.com/tempo-hr/tempo/internal/shared"
)

type employeeService interface {
	Lookup(ctx context.Context, email string) (Employee, error)
}

// Handler wires HTTP endpoints for employee lookups.
type Handler struct {
	logger  *slog.Logger
	service employeeService
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service employeeService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers employee routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/employees/me", h.me)
}

type employeeView struct {
	EmployeeID     int64  `json:"employee_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	EmployeeNumber string `json:"employee_number"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.Get("email") == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	emp, err := h.service.Lookup(r.Context(), sess.Get("email"))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("lookup employee", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, employeeView{
		EmployeeID:     emp.ID,
		Name:           emp.FullName(),
		Email:          emp.Email,
		EmployeeNumber: emp.EmployeeNumber,
	})
}
