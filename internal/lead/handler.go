// AngelaMos | 2026
// handler.go

package lead

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

// ownerMapping is what a lead's owner may change about their own
// submission. Pipeline status moves are reserved for administrators.
var ownerMapping = patch.Mapping{
	{Name: "name", Column: "name", Decode: patch.NonEmptyString(255)},
	{Name: "email", Column: "email", Decode: patch.Email()},
	{Name: "phone", Column: "phone", Nullable: true, Decode: patch.String(40)},
}

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

// RegisterRoutes mounts the owner-scoped lead endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leads", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.ListOwn)
		r.Get("/{leadID}", h.Get)
		r.Patch("/{leadID}", h.Update)
		r.Delete("/{leadID}", h.Delete)
	})
}

// RegisterAdminRoutes mounts the full pipeline listing.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/leads", h.ListAll)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
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

	fields, err := patch.Body(body)
	if err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	mapping := createMapping
	if middleware.IsAdmin(r.Context()) {
		mapping = adminCreateMapping
	}

	values, err := mapping.InsertValues(fields)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	l, err := h.repo.Insert(r.Context(), userID, values)
	if err != nil {
		h.logger.Error("create lead failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	h.record(r, activity.ActionCreate, l.ID)
	core.Created(w, l)
}

func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "Authentication required")
		return
	}

	page, limit := core.ParsePagination(r)

	leads, err := h.repo.ListByUser(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("list leads failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	total, err := h.repo.CountByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("count leads failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, leads, page, limit, total)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, limit := core.ParsePagination(r)
	status := r.URL.Query().Get("status")

	if status != "" && !validStatus(status) {
		core.BadRequest(w, "Unknown lead status")
		return
	}

	leads, err := h.repo.ListAll(r.Context(), status, limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("list leads failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	total, err := h.repo.CountAll(r.Context(), status)
	if err != nil {
		h.logger.Error("count leads failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, leads, page, limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l, ok := h.fetchAuthorized(w, r)
	if !ok {
		return
	}

	core.OK(w, l)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	l, ok := h.fetchAuthorized(w, r)
	if !ok {
		return
	}

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

	mapping := ownerMapping
	if middleware.IsAdmin(r.Context()) {
		mapping = updateMapping
	}

	values, err := mapping.Changes(fields)
	if err != nil {
		if errors.Is(err, core.ErrNoFields) {
			core.BadRequest(w, "No updatable fields provided")
			return
		}
		core.BadRequest(w, err.Error())
		return
	}

	updated, err := h.repo.UpdateFields(r.Context(), l.ID, values)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Lead")
			return
		}
		h.logger.Error("update lead failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	h.record(r, activity.ActionUpdate, l.ID)
	core.OK(w, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	l, ok := h.fetchAuthorized(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), l.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Lead")
			return
		}
		h.logger.Error("delete lead failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	h.record(r, activity.ActionDelete, l.ID)
	core.NoContent(w)
}

// fetchAuthorized loads the lead and enforces that the caller owns it
// or is an administrator. It writes the error response itself.
func (h *Handler) fetchAuthorized(
	w http.ResponseWriter,
	r *http.Request,
) (*Lead, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "Authentication required")
		return nil, false
	}

	l, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Lead")
			return nil, false
		}
		h.logger.Error("get lead failed", "error", err)
		core.InternalServerError(w, err)
		return nil, false
	}

	if l.UserID != userID && !middleware.IsAdmin(r.Context()) {
		core.Forbidden(w, "Lead belongs to another account")
		return nil, false
	}

	return l, true
}

func (h *Handler) record(r *http.Request, action, id string) {
	actorID, _ := middleware.GetUserID(r.Context())
	h.recorder.Record(activity.Entry{
		UserID:     actorID,
		Action:     action,
		Resource:   "lead",
		ResourceID: id,
		IPAddress:  middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
}

func validStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted:
		return true
	}
	return false
}
