// AngelaMos | 2026
// recorder.go

package activity

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	UserID     string
	Action     string
	Resource   string
	ResourceID string
	Details    string
	IPAddress  string
	UserAgent  string
}

// Recorder writes audit entries without blocking the request path.
// A failed write is logged and dropped, never surfaced to the caller.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (rec *Recorder) Record(e Entry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		l := &Log{
			ID:         uuid.New().String(),
			UserID:     nullString(e.UserID),
			Action:     e.Action,
			Resource:   e.Resource,
			ResourceID: nullString(e.ResourceID),
			Details:    nullString(e.Details),
			IPAddress:  nullString(e.IPAddress),
			UserAgent:  nullString(e.UserAgent),
		}

		if err := rec.repo.Insert(ctx, l); err != nil {
			rec.logger.Warn(
				"activity log write failed",
				"action", e.Action,
				"resource", e.Resource,
				"error", err,
			)
		}
	}()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
