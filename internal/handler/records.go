package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/security/middleware"
)

// RecordService is the create/list/get surface shared by every record kind
type RecordService[In any, T domain.Record] interface {
	Create(ctx context.Context, owner string, in In) (T, error)
	List(ctx context.Context, owner string) ([]T, error)
	Get(ctx context.Context, owner, id string) (T, error)
}

// RecordHandler serves POST/GET on a collection and GET on /{id}
type RecordHandler[In any, T domain.Record] struct {
	svc    RecordService[In, T]
	logger *slog.Logger
}

func NewRecordHandler[In any, T domain.Record](svc RecordService[In, T], logger *slog.Logger) *RecordHandler[In, T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordHandler[In, T]{svc: svc, logger: logger}
}

// Routes mounts the handler on a chi router
func (h *RecordHandler[In, T]) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

func (h *RecordHandler[In, T]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}
	rec, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *RecordHandler[In, T]) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *RecordHandler[In, T]) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
