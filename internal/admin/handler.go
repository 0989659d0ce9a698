// AngelaMos | 2026
// handler.go

package admin

import (
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/drivepixel/website-backend/internal/activity"
	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/lead"
)

type Handler struct {
	stats      *statsRepository
	leads      lead.Repository
	activities activity.Repository
	db         *core.Database
	redis      *core.Redis
	logger     *slog.Logger
	startedAt  time.Time
}

func NewHandler(
	db *core.Database,
	leads lead.Repository,
	activities activity.Repository,
	rdb *core.Redis,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		stats:      newStatsRepository(db.DB),
		leads:      leads,
		activities: activities,
		db:         db,
		redis:      rdb,
		logger:     logger,
		startedAt:  time.Now(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/analytics/leads", h.LeadAnalytics)
	r.Get("/analytics/content", h.ContentAnalytics)
	r.Get("/system", h.System)
}

type dashboardResponse struct {
	Content        map[string]ContentCounts `json:"content"`
	Users          int                      `json:"users"`
	LeadsByStatus  []lead.StatusCount       `json:"leadsByStatus"`
	LeadsThisWeek  int                      `json:"leadsThisWeek"`
	RecentActivity []activity.Response      `json:"recentActivity"`
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Content and user counts come from one read-only transaction so
	// the dashboard shows a consistent snapshot.
	var (
		content map[string]ContentCounts
		users   int
	)
	err := core.InTx(
		ctx,
		h.db.DB,
		&sql.TxOptions{ReadOnly: true},
		func(tx *sqlx.Tx) error {
			stats := newStatsRepository(tx)

			var txErr error
			if content, txErr = stats.ContentCounts(ctx); txErr != nil {
				return txErr
			}
			users, txErr = stats.UserCount(ctx)
			return txErr
		},
	)
	if err != nil {
		h.logger.Error("dashboard stats failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	byStatus, err := h.leads.CountByStatus(ctx)
	if err != nil {
		h.logger.Error("dashboard lead counts failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	thisWeek, err := h.leads.CountSince(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		h.logger.Error("dashboard recent lead count failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	recent, err := h.activities.List(ctx, activity.Filter{}, 10, 0)
	if err != nil {
		h.logger.Error("dashboard recent activity failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	recentResponses := make([]activity.Response, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, *activity.ToResponse(&recent[i]))
	}

	core.OK(w, dashboardResponse{
		Content:        content,
		Users:          users,
		LeadsByStatus:  byStatus,
		LeadsThisWeek:  thisWeek,
		RecentActivity: recentResponses,
	})
}

type leadAnalyticsResponse struct {
	Period   string             `json:"period"`
	Total    int                `json:"total"`
	ByStatus []lead.StatusCount `json:"byStatus"`
	PerDay   []DailyCount       `json:"perDay"`
}

func (h *Handler) LeadAnalytics(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "30d"
	}

	var days int
	switch period {
	case "7d":
		days = 7
	case "30d":
		days = 30
	case "90d":
		days = 90
	default:
		core.BadRequest(w, "period must be one of: 7d, 30d, 90d")
		return
	}

	ctx := r.Context()

	total, err := h.leads.CountSince(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		h.logger.Error("lead analytics count failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	byStatus, err := h.leads.CountByStatus(ctx)
	if err != nil {
		h.logger.Error("lead analytics status counts failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	perDay, err := h.stats.LeadsPerDay(ctx, days)
	if err != nil {
		h.logger.Error("lead analytics per day failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, leadAnalyticsResponse{
		Period:   period,
		Total:    total,
		ByStatus: byStatus,
		PerDay:   perDay,
	})
}

func (h *Handler) ContentAnalytics(w http.ResponseWriter, r *http.Request) {
	content, err := h.stats.ContentCounts(r.Context())
	if err != nil {
		h.logger.Error("content analytics failed", "error", err)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, content)
}

type systemResponse struct {
	Uptime     string         `json:"uptime"`
	GoVersion  string         `json:"goVersion"`
	Goroutines int            `json:"goroutines"`
	Memory     memoryStats    `json:"memory"`
	Database   databaseStats  `json:"database"`
	Redis      redisStats     `json:"redis"`
}

type memoryStats struct {
	AllocMB      uint64 `json:"allocMb"`
	TotalAllocMB uint64 `json:"totalAllocMb"`
	SysMB        uint64 `json:"sysMb"`
	NumGC        uint32 `json:"numGc"`
}

type databaseStats struct {
	OpenConnections int `json:"openConnections"`
	InUse           int `json:"inUse"`
	Idle            int `json:"idle"`
}

type redisStats struct {
	Connected  bool   `json:"connected"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
}

func (h *Handler) System(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	dbStats := h.db.Stats()
	poolStats := h.redis.PoolStats()

	redisUp := h.redis.Ping(r.Context()) == nil

	core.OK(w, systemResponse{
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		Memory: memoryStats{
			AllocMB:      m.Alloc / 1024 / 1024,
			TotalAllocMB: m.TotalAlloc / 1024 / 1024,
			SysMB:        m.Sys / 1024 / 1024,
			NumGC:        m.NumGC,
		},
		Database: databaseStats{
			OpenConnections: dbStats.OpenConnections,
			InUse:           dbStats.InUse,
			Idle:            dbStats.Idle,
		},
		Redis: redisStats{
			Connected:  redisUp,
			TotalConns: poolStats.TotalConns,
			IdleConns:  poolStats.IdleConns,
			Hits:       poolStats.Hits,
			Misses:     poolStats.Misses,
		},
	})
}
