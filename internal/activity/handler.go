// AngelaMos | 2026
// handler.go

package activity

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/drivepixel/website-backend/internal/core"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes mounts the audit log endpoints. The caller wraps them
// in the admin gate.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/activity-logs", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{logID}", h.Get)
		r.Delete("/{logID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := core.ParsePagination(r)
	q := r.URL.Query()

	filter := Filter{
		UserID:   q.Get("userId"),
		Action:   q.Get("action"),
		Resource: q.Get("resource"),
	}

	var err error
	if filter.From, err = parseDate(q.Get("startDate")); err != nil {
		core.BadRequest(w, "startDate must be a YYYY-MM-DD date")
		return
	}
	if filter.To, err = parseDate(q.Get("endDate")); err != nil {
		core.BadRequest(w, "endDate must be a YYYY-MM-DD date")
		return
	}
	if !filter.To.IsZero() {
		// endDate is inclusive; the filter bound is exclusive.
		filter.To = filter.To.AddDate(0, 0, 1)
	}

	logs, err := h.repo.List(r.Context(), filter, limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("list activity logs failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	total, err := h.repo.Count(r.Context(), filter)
	if err != nil {
		h.logger.Error("count activity logs failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	items := make([]Response, 0, len(logs))
	for i := range logs {
		items = append(items, *ToResponse(&logs[i]))
	}

	core.Paginated(w, items, page, limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "logID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Activity log")
			return
		}
		h.logger.Error("get activity log failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResponse(l))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "logID")); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Activity log")
			return
		}
		h.logger.Error("delete activity log failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
