// AngelaMos | 2026
// repository.go

package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drivepixel/website-backend/internal/core"
)

type Filter struct {
	UserID   string
	Action   string
	Resource string
	From     time.Time
	To       time.Time
}

type Repository interface {
	Insert(ctx context.Context, l *Log) error
	List(
		ctx context.Context,
		filter Filter,
		limit, offset int,
	) ([]LogWithUser, error)
	Count(ctx context.Context, filter Filter) (int, error)
	GetByID(ctx context.Context, id string) (*LogWithUser, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, l *Log) error {
	query := `
		INSERT INTO activity_logs
			(id, user_id, action, resource, resource_id, details,
			 ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		l.ID,
		l.UserID,
		l.Action,
		l.Resource,
		l.ResourceID,
		l.Details,
		l.IPAddress,
		l.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}

	return nil
}

const logSelect = `
	SELECT a.id, a.user_id, a.action, a.resource, a.resource_id,
		a.details, a.ip_address, a.user_agent, a.created_at,
		u.email AS user_email,
		u.first_name || ' ' || u.last_name AS user_name
	FROM activity_logs a
	LEFT JOIN users u ON u.id = a.user_id`

func buildFilter(filter Filter, args []any) (string, []any) {
	var clauses []string

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		clauses = append(clauses, fmt.Sprintf("a.user_id = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		clauses = append(clauses, fmt.Sprintf("a.action = $%d", len(args)))
	}
	if filter.Resource != "" {
		args = append(args, filter.Resource)
		clauses = append(clauses, fmt.Sprintf("a.resource = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		clauses = append(clauses, fmt.Sprintf("a.created_at >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		clauses = append(clauses, fmt.Sprintf("a.created_at < $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *repository) List(
	ctx context.Context,
	filter Filter,
	limit, offset int,
) ([]LogWithUser, error) {
	where, args := buildFilter(filter, nil)

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		"%s%s ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d",
		logSelect,
		where,
		len(args)-1,
		len(args),
	)

	logs := []LogWithUser{}
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}

	return logs, nil
}

func (r *repository) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := buildFilter(filter, nil)

	var count int
	query := "SELECT COUNT(*) FROM activity_logs a" + where
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count activity logs: %w", err)
	}

	return count, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*LogWithUser, error) {
	query := logSelect + ` WHERE a.id = $1`

	var l LogWithUser
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get activity log: %w", err)
	}

	return &l, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM activity_logs WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete activity log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return core.ErrNotFound
	}

	return nil
}
