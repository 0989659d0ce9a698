// AngelaMos | 2026
// lead.go

// Package lead tracks contact requests submitted by signed-in
// visitors and their progression through the sales pipeline.
package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/patch"
)

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
)

type Lead struct {
	ID        string    `db:"id"         json:"id"`
	UserID    string    `db:"user_id"    json:"userId"`
	Name      string    `db:"name"       json:"name"`
	Email     string    `db:"email"      json:"email"`
	Phone     *string   `db:"phone"      json:"phone"`
	Status    string    `db:"status"     json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

var columns = []string{
	"id", "user_id", "name", "email", "phone", "status",
	"created_at", "updated_at",
}

var createMapping = patch.Mapping{
	{Name: "name", Column: "name", Required: true, Decode: patch.NonEmptyString(255)},
	{Name: "email", Column: "email", Required: true, Decode: patch.Email()},
	{Name: "phone", Column: "phone", Nullable: true, Decode: patch.String(40)},
}

// adminCreateMapping additionally lets an administrator file a lead
// directly at a later pipeline stage.
var adminCreateMapping = append(patch.Mapping{
	{Name: "status", Column: "status", Default: StatusNew, Decode: patch.Enum(
		StatusNew, StatusContacted, StatusQualified, StatusConverted,
	)},
}, createMapping...)

var updateMapping = patch.Mapping{
	{Name: "name", Column: "name", Decode: patch.NonEmptyString(255)},
	{Name: "email", Column: "email", Decode: patch.Email()},
	{Name: "phone", Column: "phone", Nullable: true, Decode: patch.String(40)},
	{Name: "status", Column: "status", Decode: patch.Enum(
		StatusNew, StatusContacted, StatusQualified, StatusConverted,
	)},
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count"  json:"count"`
}

type Repository interface {
	Insert(ctx context.Context, userID string, values []patch.Value) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Lead, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]Lead, error)
	CountAll(ctx context.Context, status string) (int, error)
	UpdateFields(ctx context.Context, id string, values []patch.Value) (*Lead, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectLeads = `SELECT id, user_id, name, email, phone, status,
	created_at, updated_at FROM leads`

func (r *repository) Insert(
	ctx context.Context,
	userID string,
	values []patch.Value,
) (*Lead, error) {
	values = append([]patch.Value{
		{Column: "id", Arg: uuid.New().String()},
		{Column: "user_id", Arg: userID},
	}, values...)

	query, args := patch.BuildInsert("leads", values, columns)

	var l Lead
	if err := r.db.GetContext(ctx, &l, query, args...); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}

	return &l, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := selectLeads + ` WHERE id = $1`

	var l Lead
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}

	return &l, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]Lead, error) {
	query := selectLeads + `
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	leads := []Lead{}
	err := r.db.SelectContext(ctx, &leads, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list leads for user: %w", err)
	}

	return leads, nil
}

func (r *repository) CountByUser(
	ctx context.Context,
	userID string,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM leads WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count leads for user: %w", err)
	}

	return count, nil
}

func (r *repository) ListAll(
	ctx context.Context,
	status string,
	limit, offset int,
) ([]Lead, error) {
	leads := []Lead{}

	if status != "" {
		query := selectLeads + `
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`
		err := r.db.SelectContext(ctx, &leads, query, status, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("list leads: %w", err)
		}
		return leads, nil
	}

	query := selectLeads + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &leads, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	return leads, nil
}

func (r *repository) CountAll(
	ctx context.Context,
	status string,
) (int, error) {
	var count int

	if status != "" {
		query := `SELECT COUNT(*) FROM leads WHERE status = $1`
		if err := r.db.GetContext(ctx, &count, query, status); err != nil {
			return 0, fmt.Errorf("count leads: %w", err)
		}
		return count, nil
	}

	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM leads`); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}

	return count, nil
}

func (r *repository) UpdateFields(
	ctx context.Context,
	id string,
	values []patch.Value,
) (*Lead, error) {
	query, args := patch.BuildUpdate("leads", values, "id", id, columns)

	var l Lead
	if err := r.db.GetContext(ctx, &l, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}

	return &l, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
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

func (r *repository) CountByStatus(
	ctx context.Context,
) ([]StatusCount, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM leads
		GROUP BY status
		ORDER BY status`

	counts := []StatusCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}

	return counts, nil
}

func (r *repository) CountSince(
	ctx context.Context,
	since time.Time,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM leads WHERE created_at >= $1`
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("count recent leads: %w", err)
	}

	return count, nil
}
