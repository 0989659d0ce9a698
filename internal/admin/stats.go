// AngelaMos | 2026
// stats.go

// Package admin serves the dashboard: aggregate analytics over the
// site's content and leads, plus process and dependency health for
// operators.
package admin

import (
	"context"
	"fmt"

	"github.com/drivepixel/website-backend/internal/core"
)

type ContentCounts struct {
	Total   int `db:"total"   json:"total"`
	Visible int `db:"visible" json:"visible"`
}

type statsRepository struct {
	db core.DBTX
}

func newStatsRepository(db core.DBTX) *statsRepository {
	return &statsRepository{db: db}
}

// contentTables maps each countable table to its visibility column.
var contentTables = map[string]string{
	"services":     "is_active",
	"portfolio":    "is_active",
	"blog_posts":   "is_published",
	"testimonials": "is_active",
	"hero_texts":   "is_active",
}

func (r *statsRepository) ContentCounts(
	ctx context.Context,
) (map[string]ContentCounts, error) {
	out := make(map[string]ContentCounts, len(contentTables))

	for table, visibleCol := range contentTables {
		query := fmt.Sprintf(
			`SELECT COUNT(*) AS total,
				COUNT(*) FILTER (WHERE %s) AS visible
			FROM %s`,
			visibleCol, table,
		)

		var c ContentCounts
		if err := r.db.GetContext(ctx, &c, query); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		out[table] = c
	}

	return out, nil
}

func (r *statsRepository) UserCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

type DailyCount struct {
	Day   string `db:"day"   json:"day"`
	Count int    `db:"count" json:"count"`
}

// LeadsPerDay buckets lead submissions by calendar day over the last
// N days.
func (r *statsRepository) LeadsPerDay(
	ctx context.Context,
	days int,
) ([]DailyCount, error) {
	query := `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS day,
			COUNT(*) AS count
		FROM leads
		WHERE created_at >= NOW() - make_interval(days => $1)
		GROUP BY created_at::date
		ORDER BY created_at::date`

	counts := []DailyCount{}
	if err := r.db.SelectContext(ctx, &counts, query, days); err != nil {
		return nil, fmt.Errorf("leads per day: %w", err)
	}

	return counts, nil
}
