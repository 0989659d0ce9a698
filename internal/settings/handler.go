// AngelaMos | 2026
// handler.go

package settings

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drivepixel/website-backend/internal/activity"
	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/middleware"
	"github.com/drivepixel/website-backend/internal/patch"
)

const maxBodySize = 1 << 20 // 1 MiB

type Handler struct {
	repo     Repository
	recorder *activity.Recorder
	logger   *slog.Logger
}

func NewHandler(
	repo Repository,
	recorder *activity.Recorder,
	logger *slog.Logger,
) *Handler {
	return &Handler{repo: repo, recorder: recorder, logger: logger}
}

// RegisterPublicRoutes exposes settings as a flat key/value map for
// the site frontend.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/settings", h.PublicMap)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{key}", h.Get)
		r.Patch("/{key}", h.Update)
		r.Delete("/{key}", h.Delete)
	})
}

func (h *Handler) PublicMap(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list settings failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	m := make(map[string]string, len(items))
	for _, s := range items {
		m[s.Key] = s.Value
	}

	core.OK(w, m)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list settings failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.GetByKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Setting")
			return
		}
		h.logger.Error("get setting failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, s)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		core.BadRequest(w, "Unable to read request body")
		return
	}

	fields, err := patch.Body(body)
	if err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	values, err := createMapping.InsertValues(fields)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	s, err := h.repo.Insert(r.Context(), values)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("setting key"))
			return
		}
		h.logger.Error("create setting failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	h.record(r, activity.ActionCreate, s.Key)
	core.Created(w, s)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		core.BadRequest(w, "Unable to read request body")
		return
	}

	fields, err := patch.Body(body)
	if err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	values, err := updateMapping.Changes(fields)
	if err != nil {
		if errors.Is(err, core.ErrNoFields) {
			core.BadRequest(w, "No updatable fields provided")
			return
		}
		core.BadRequest(w, err.Error())
		return
	}

	s, err := h.repo.UpdateByKey(r.Context(), key, values)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Setting")
			return
		}
		h.logger.Error("update setting failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	h.record(r, activity.ActionUpdate, key)
	core.OK(w, s)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.repo.DeleteByKey(r.Context(), key); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Setting")
			return
		}
		h.logger.Error("delete setting failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	h.record(r, activity.ActionDelete, key)
	core.NoContent(w)
}

func (h *Handler) record(r *http.Request, action, key string) {
	actorID, _ := middleware.GetUserID(r.Context())
	h.recorder.Record(activity.Entry{
		UserID:     actorID,
		Action:     action,
		Resource:   "setting",
		ResourceID: key,
		IPAddress:  middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
}
