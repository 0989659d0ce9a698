// AngelaMos | 2026
// repository_test.go

package content

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/patch"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func serviceRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "icon", "items", "order",
		"is_active", "created_at", "updated_at",
	}).AddRow(
		"svc-1", "SEO", "Search optimization", "chart",
		[]byte(`["audit","keywords"]`), 0, true, now, now,
	)
}

func TestStoreListFiltersHidden(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore[Service](db, Services)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, title, description, icon, items, "order", is_active, created_at, updated_at FROM services WHERE is_active = TRUE ORDER BY "order" ASC, created_at DESC`,
	)).WillReturnRows(serviceRows())

	items, err := store.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SEO", items[0].Title)
	assert.Equal(t, core.StringSlice{"audit", "keywords"}, items[0].Items)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListAllIncludesHidden(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore[Service](db, Services)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, title, description, icon, items, "order", is_active, created_at, updated_at FROM services ORDER BY "order" ASC, created_at DESC`,
	)).WillReturnRows(serviceRows())

	_, err := store.List(context.Background(), true)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore[Service](db, Services)

	mock.ExpectQuery("SELECT .* FROM services WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Get(context.Background(), "missing", true)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStoreGetPublicHidesInactive(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore[Service](db, Services)

	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM services WHERE id = $1 AND is_active = TRUE`,
	)).
		WithArgs("svc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Get(context.Background(), "svc-1", false)
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateAppliesChangeSet(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore[Service](db, Services)

	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE services SET title = $1, is_active = $2, updated_at = NOW() WHERE id = $3 RETURNING`,
	)).
		WithArgs("New Title", false, "svc-1").
		WillReturnRows(serviceRows())

	values := []patch.Value{
		{Column: "title", Arg: "New Title"},
		{Column: "is_active", Arg: false},
	}

	_, err := store.Update(context.Background(), "svc-1", values)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore[Service](db, Services)

	mock.ExpectQuery("UPDATE services SET").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Update(
		context.Background(),
		"missing",
		[]patch.Value{{Column: "title", Arg: "x"}},
	)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStoreInsertMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore[BlogPost](db, BlogPosts)

	mock.ExpectQuery("INSERT INTO blog_posts").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := store.Insert(
		context.Background(),
		[]patch.Value{{Column: "slug", Arg: "taken"}},
	)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestStoreDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore[Service](db, Services)

	mock.ExpectExec("DELETE FROM services WHERE id").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStoreGetBySlugRequiresSlugColumn(t *testing.T) {
	db, _ := newMockDB(t)
	store := NewStore[Service](db, Services)

	_, err := store.GetBySlug(context.Background(), "anything", false)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStoreGetBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore[BlogPost](db, BlogPosts)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM blog_posts WHERE slug = $1 AND is_published = TRUE`,
	)).
		WithArgs("hello-world").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "category", "author", "date", "excerpt",
			"content", "image", "slug", "is_published",
			"created_at", "updated_at",
		}).AddRow(
			"post-1", "Hello", "news", "Jess", "2026-08-01",
			"First post", nil, "/img/hello.png", "hello-world", true,
			now, now,
		))

	post, err := store.GetBySlug(context.Background(), "hello-world", false)
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Nil(t, post.Content)

	require.NoError(t, mock.ExpectationsWereMet())
}
