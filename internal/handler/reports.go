package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/sitebook/internal/security/middleware"
	"github.com/aryan0dhankhar/sitebook/internal/service"
)

// ReportHandler serves the read-only report endpoints
type ReportHandler struct {
	reports *service.ReportService
	logger  *slog.Logger
}

func NewReportHandler(reports *service.ReportService, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{reports: reports, logger: logger}
}

// Financial handles GET /api/reports/financial?period=&project_id=
func (h *ReportHandler) Financial(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rep, err := h.reports.Financial(r.Context(), middleware.UserID(r.Context()), q.Get("period"), q.Get("project_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Projects handles GET /api/reports/projects
func (h *ReportHandler) Projects(w http.ResponseWriter, r *http.Request) {
	sums, err := h.reports.Projects(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sums)
}
