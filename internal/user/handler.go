// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drivepixel/website-backend/internal/activity"
	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/middleware"
)

const maxBodySize = 1 << 20 // 1 MiB

type Handler struct {
	service  *Service
	recorder *activity.Recorder
	logger   *slog.Logger
}

func NewHandler(
	service *Service,
	recorder *activity.Recorder,
	logger *slog.Logger,
) *Handler {
	return &Handler{service: service, recorder: recorder, logger: logger}
}

// RegisterRoutes mounts the self-service profile endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/me", h.Me)
		r.Patch("/me", h.UpdateMe)
	})
}

// RegisterAdminRoutes mounts account management for administrators.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{userID}", h.Get)
		r.Patch("/{userID}", h.Update)
		r.Delete("/{userID}", h.Delete)
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.Unauthorized(w, "Account no longer exists")
			return
		}
		h.logger.Error("get profile failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "Authentication required")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		core.BadRequest(w, "Unable to read request body")
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), userID, body)
	if err != nil {
		h.writeUpdateError(w, err)
		return
	}

	h.recorder.Record(activity.Entry{
		UserID:     userID,
		Action:     activity.ActionUpdate,
		Resource:   "profile",
		ResourceID: userID,
		IPAddress:  middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})

	core.OK(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := core.ParsePagination(r)

	users, total, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("list users failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, users, page, limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		h.logger.Error("get user failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		core.BadRequest(w, "Unable to read request body")
		return
	}

	resp, err := h.service.AdminUpdate(r.Context(), targetID, body)
	if err != nil {
		h.writeUpdateError(w, err)
		return
	}

	actorID, _ := middleware.GetUserID(r.Context())
	h.recorder.Record(activity.Entry{
		UserID:     actorID,
		Action:     activity.ActionUpdate,
		Resource:   "user",
		ResourceID: targetID,
		IPAddress:  middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})

	core.OK(w, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")

	actorID, _ := middleware.GetUserID(r.Context())
	if actorID == targetID {
		core.BadRequest(w, "Cannot delete your own account")
		return
	}

	if err := h.service.Delete(r.Context(), targetID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		h.logger.Error("delete user failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	h.recorder.Record(activity.Entry{
		UserID:     actorID,
		Action:     activity.ActionDelete,
		Resource:   "user",
		ResourceID: targetID,
		IPAddress:  middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})

	core.NoContent(w)
}

func (h *Handler) writeUpdateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "User")
	case errors.Is(err, core.ErrNoFields):
		core.BadRequest(w, "No updatable fields provided")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("email"))
	default:
		h.logger.Error("update user failed", "error", err)
		core.InternalServerError(w, err)
	}
}
