// AngelaMos | 2026
// repository.go

package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/patch"
)

// Store is the storage layer for one content kind. T is the kind's
// entity struct; its db tags must line up with the descriptor's
// column list.
type Store[T any] struct {
	db core.DBTX
	d  Descriptor
}

func NewStore[T any](db core.DBTX, d Descriptor) *Store[T] {
	return &Store[T]{db: db, d: d}
}

func (s *Store[T]) Descriptor() Descriptor {
	return s.d
}

func (s *Store[T]) selectList() string {
	return "SELECT " + strings.Join(s.d.Columns, ", ") + " FROM " + s.d.Table
}

// List returns the kind's entries in its display order. Hidden entries
// are filtered out unless includeHidden is set.
func (s *Store[T]) List(
	ctx context.Context,
	includeHidden bool,
) ([]T, error) {
	query := s.selectList()
	if !includeHidden {
		query += " WHERE " + s.d.VisibleColumn + " = TRUE"
	}
	query += " ORDER BY " + s.d.OrderBy

	items := []T{}
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.d.Table, err)
	}

	return items, nil
}

// Get fetches one entry by id. Hidden entries read as absent unless
// includeHidden is set.
func (s *Store[T]) Get(
	ctx context.Context,
	id string,
	includeHidden bool,
) (*T, error) {
	query := s.selectList() + " WHERE id = $1"
	if !includeHidden {
		query += " AND " + s.d.VisibleColumn + " = TRUE"
	}

	var item T
	if err := s.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", s.d.Table, err)
	}

	return &item, nil
}

// GetBySlug resolves an entry by its slug column. Only kinds with a
// SlugColumn in their descriptor support this.
func (s *Store[T]) GetBySlug(
	ctx context.Context,
	slug string,
	includeHidden bool,
) (*T, error) {
	if s.d.SlugColumn == "" {
		return nil, core.ErrNotFound
	}

	query := s.selectList() + " WHERE " + s.d.SlugColumn + " = $1"
	if !includeHidden {
		query += " AND " + s.d.VisibleColumn + " = TRUE"
	}

	var item T
	if err := s.db.GetContext(ctx, &item, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get %s by slug: %w", s.d.Table, err)
	}

	return &item, nil
}

func (s *Store[T]) Insert(
	ctx context.Context,
	values []patch.Value,
) (*T, error) {
	values = append(
		[]patch.Value{{Column: "id", Arg: uuid.New().String()}},
		values...,
	)

	query, args := patch.BuildInsert(s.d.Table, values, s.d.Columns)

	var item T
	if err := s.db.GetContext(ctx, &item, query, args...); err != nil {
		return nil, s.mapWriteError(err, "insert")
	}

	return &item, nil
}

func (s *Store[T]) Update(
	ctx context.Context,
	id string,
	values []patch.Value,
) (*T, error) {
	query, args := patch.BuildUpdate(s.d.Table, values, "id", id, s.d.Columns)

	var item T
	if err := s.db.GetContext(ctx, &item, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, s.mapWriteError(err, "update")
	}

	return &item, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(
		ctx,
		"DELETE FROM "+s.d.Table+" WHERE id = $1",
		id,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.d.Table, err)
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

func (s *Store[T]) mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return core.ErrDuplicateKey
	}
	return fmt.Errorf("%s %s: %w", op, s.d.Table, err)
}
