package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/security/middleware"
	"github.com/aryan0dhankhar/sitebook/internal/service"
)

// ProjectHandler adds full-replace updates to the record endpoints
type ProjectHandler struct {
	*RecordHandler[service.ProjectInput, domain.Project]
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		RecordHandler: NewRecordHandler[service.ProjectInput, domain.Project](projects, logger),
		projects:      projects,
	}
}

func (h *ProjectHandler) Routes(r chi.Router) {
	h.RecordHandler.Routes(r)
	r.Put("/{id}", h.Update)
}

// Update handles PUT /api/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.ProjectInput
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}
	p, err := h.projects.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
