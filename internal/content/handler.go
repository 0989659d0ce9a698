// AngelaMos | 2026
// handler.go

package content

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

// Handler serves one content kind. The public surface is read-only
// and sees visible entries; the admin surface sees everything and
// owns all writes.
type Handler[T any] struct {
	store    *Store[T]
	recorder *activity.Recorder
	logger   *slog.Logger
}

func NewHandler[T any](
	store *Store[T],
	recorder *activity.Recorder,
	logger *slog.Logger,
) *Handler[T] {
	return &Handler[T]{store: store, recorder: recorder, logger: logger}
}

func (h *Handler[T]) RegisterPublicRoutes(r chi.Router) {
	d := h.store.Descriptor()
	r.Route("/"+d.Path, func(r chi.Router) {
		r.Get("/", h.listPublic)
		if d.SlugColumn != "" {
			r.Get("/slug/{slug}", h.getBySlug)
		}
		r.Get("/{itemID}", h.getPublic)
	})
}

func (h *Handler[T]) RegisterAdminRoutes(r chi.Router) {
	d := h.store.Descriptor()
	r.Route("/"+d.Path, func(r chi.Router) {
		r.Get("/", h.listAll)
		r.Post("/", h.Create)
		r.Get("/{itemID}", h.getAny)
		r.Patch("/{itemID}", h.Update)
		r.Delete("/{itemID}", h.Delete)
	})
}

func (h *Handler[T]) listPublic(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler[T]) listAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	includeHidden := q.Get("includeInactive") == "true" ||
		q.Get("includeUnpublished") == "true"
	h.list(w, r, includeHidden)
}

func (h *Handler[T]) list(
	w http.ResponseWriter,
	r *http.Request,
	includeHidden bool,
) {
	items, err := h.store.List(r.Context(), includeHidden)
	if err != nil {
		h.logger.Error(
			"list content failed",
			"resource", h.store.Descriptor().Resource,
			"error", err,
		)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, items)
}

func (h *Handler[T]) getPublic(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, false)
}

func (h *Handler[T]) getAny(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, true)
}

func (h *Handler[T]) get(
	w http.ResponseWriter,
	r *http.Request,
	includeHidden bool,
) {
	item, err := h.store.Get(r.Context(), chi.URLParam(r, "itemID"), includeHidden)
	if err != nil {
		h.writeReadError(w, err)
		return
	}

	core.OK(w, item)
}

func (h *Handler[T]) getBySlug(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetBySlug(r.Context(), chi.URLParam(r, "slug"), false)
	if err != nil {
		h.writeReadError(w, err)
		return
	}

	core.OK(w, item)
}

func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	d := h.store.Descriptor()

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

	values, err := d.Fields.InsertValues(fields)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	item, err := h.store.Insert(r.Context(), values)
	if err != nil {
		h.writeWriteError(w, err)
		return
	}

	h.record(r, activity.ActionCreate, itemID(item))
	core.Created(w, item)
}

func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	d := h.store.Descriptor()
	id := chi.URLParam(r, "itemID")

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

	values, err := d.Fields.Changes(fields)
	if err != nil {
		if errors.Is(err, core.ErrNoFields) {
			core.BadRequest(w, "No updatable fields provided")
			return
		}
		core.BadRequest(w, err.Error())
		return
	}

	item, err := h.store.Update(r.Context(), id, values)
	if err != nil {
		h.writeWriteError(w, err)
		return
	}

	h.record(r, activity.ActionUpdate, id)
	core.OK(w, item)
}

func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemID")

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, h.store.Descriptor().Resource)
			return
		}
		h.logger.Error(
			"delete content failed",
			"resource", h.store.Descriptor().Resource,
			"error", err,
		)
		core.InternalServerError(w, err)
		return
	}

	h.record(r, activity.ActionDelete, id)
	core.NoContent(w)
}

func (h *Handler[T]) writeReadError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, h.store.Descriptor().Resource)
		return
	}
	h.logger.Error(
		"get content failed",
		"resource", h.store.Descriptor().Resource,
		"error", err,
	)
	core.InternalServerError(w, err)
}

func (h *Handler[T]) writeWriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, h.store.Descriptor().Resource)
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError(h.store.Descriptor().Resource))
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		h.logger.Error(
			"write content failed",
			"resource", h.store.Descriptor().Resource,
			"error", err,
		)
		core.InternalServerError(w, err)
	}
}

func (h *Handler[T]) record(r *http.Request, action, resourceID string) {
	actorID, _ := middleware.GetUserID(r.Context())
	h.recorder.Record(activity.Entry{
		UserID:     actorID,
		Action:     action,
		Resource:   h.store.Descriptor().Resource,
		ResourceID: resourceID,
		IPAddress:  middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
}

// itemID pulls the generated id out of a freshly inserted entity.
func itemID(item any) string {
	switch v := item.(type) {
	case *Service:
		return v.ID
	case *PortfolioItem:
		return v.ID
	case *BlogPost:
		return v.ID
	case *Testimonial:
		return v.ID
	case *HeroText:
		return v.ID
	default:
		return ""
	}
}
