// AngelaMos | 2026
// settings_test.go

package settings

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

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return NewRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func settingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "key", "value", "type", "description", "updated_at",
	}).AddRow(
		"set-1", "site_title", "DrivePixel", "string", nil, time.Now(),
	)
}

func TestInsertDuplicateKey(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO settings").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Insert(context.Background(), []patch.Value{
		{Column: "key", Arg: "site_title"},
		{Column: "value", Arg: "DrivePixel"},
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestGetByKeyNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .* FROM settings").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByKey(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateByKeyTouchesUpdatedAt(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE settings SET value = $1, updated_at = NOW() WHERE key = $2`,
	)).
		WithArgs("New Name", "site_title").
		WillReturnRows(settingRows())

	s, err := repo.UpdateByKey(
		context.Background(),
		"site_title",
		[]patch.Value{{Column: "value", Arg: "New Name"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "site_title", s.Key)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMappingExcludesKey(t *testing.T) {
	fields, err := patch.Body([]byte(`{"key": "renamed", "value": "x"}`))
	require.NoError(t, err)

	values, err := updateMapping.Changes(fields)
	require.NoError(t, err)

	for _, v := range values {
		assert.NotEqual(t, "key", v.Column)
	}
}

func TestCreateMappingTypeEnum(t *testing.T) {
	fields, err := patch.Body([]byte(
		`{"key": "flag", "value": "1", "type": "banana"}`,
	))
	require.NoError(t, err)

	_, err = createMapping.InsertValues(fields)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDeleteByKeyNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM settings WHERE key").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByKey(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
