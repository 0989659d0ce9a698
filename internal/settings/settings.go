// AngelaMos | 2026
// settings.go

// Package settings stores site-wide key/value configuration editable
// at runtime.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/patch"
)

const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeJSON    = "json"
)

type Setting struct {
	ID          string    `db:"id"          json:"id"`
	Key         string    `db:"key"         json:"key"`
	Value       string    `db:"value"       json:"value"`
	Type        string    `db:"type"        json:"type"`
	Description *string   `db:"description" json:"description"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updatedAt"`
}

var columns = []string{"id", "key", "value", "type", "description", "updated_at"}

// createMapping validates new settings; updateMapping deliberately
// excludes key so an entry cannot be renamed in place.
var createMapping = patch.Mapping{
	{Name: "key", Column: "key", Required: true, Decode: patch.NonEmptyString(100)},
	{Name: "value", Column: "value", Required: true, Decode: patch.String(100000)},
	{Name: "type", Column: "type", Default: TypeString, Decode: patch.Enum(TypeString, TypeNumber, TypeBoolean, TypeJSON)},
	{Name: "description", Column: "description", Nullable: true, Decode: patch.String(1000)},
}

var updateMapping = patch.Mapping{
	{Name: "value", Column: "value", Decode: patch.String(100000)},
	{Name: "type", Column: "type", Decode: patch.Enum(TypeString, TypeNumber, TypeBoolean, TypeJSON)},
	{Name: "description", Column: "description", Nullable: true, Decode: patch.String(1000)},
}

type Repository interface {
	List(ctx context.Context) ([]Setting, error)
	GetByKey(ctx context.Context, key string) (*Setting, error)
	Insert(ctx context.Context, values []patch.Value) (*Setting, error)
	UpdateByKey(
		ctx context.Context,
		key string,
		values []patch.Value,
	) (*Setting, error)
	DeleteByKey(ctx context.Context, key string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectSettings = `SELECT id, key, value, type, description, updated_at
	FROM settings`

func (r *repository) List(ctx context.Context) ([]Setting, error) {
	items := []Setting{}
	query := selectSettings + ` ORDER BY key ASC`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	return items, nil
}

func (r *repository) GetByKey(
	ctx context.Context,
	key string,
) (*Setting, error) {
	query := selectSettings + ` WHERE key = $1`

	var s Setting
	if err := r.db.GetContext(ctx, &s, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}

	return &s, nil
}

func (r *repository) Insert(
	ctx context.Context,
	values []patch.Value,
) (*Setting, error) {
	values = append(
		[]patch.Value{{Column: "id", Arg: uuid.New().String()}},
		values...,
	)

	query, args := patch.BuildInsert("settings", values, columns)

	var s Setting
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, core.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert setting: %w", err)
	}

	return &s, nil
}

func (r *repository) UpdateByKey(
	ctx context.Context,
	key string,
	values []patch.Value,
) (*Setting, error) {
	query, args := patch.BuildUpdate("settings", values, "key", key, columns)

	var s Setting
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("update setting: %w", err)
	}

	return &s, nil
}

func (r *repository) DeleteByKey(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM settings WHERE key = $1`,
		key,
	)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
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
