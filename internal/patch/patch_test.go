// AngelaMos | 2026
// patch_test.go

package patch

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivepixel/website-backend/internal/core"
)

var testMapping = Mapping{
	{Name: "title", Column: "title", Required: true, Decode: NonEmptyString(255)},
	{Name: "imageUrl", Column: "image_url", Nullable: true, Decode: String(0)},
	{Name: "order", Column: `"order"`, Default: 0, Decode: Int(0, 1<<30)},
	{Name: "isActive", Column: "is_active", Default: true, Decode: Bool()},
}

func body(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	b, err := Body([]byte(s))
	require.NoError(t, err)
	return b
}

func TestChangesOmittedVersusNull(t *testing.T) {
	// Omitted field: untouched. Explicit null on a nullable field: SQL NULL.
	values, err := testMapping.Changes(body(t, `{"imageUrl": null}`))
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "image_url", values[0].Column)
	assert.Nil(t, values[0].Arg)

	values, err = testMapping.Changes(body(t, `{"title": "Updated"}`))
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "title", values[0].Column)
	assert.Equal(t, "Updated", values[0].Arg)
}

func TestChangesNullOnNonNullable(t *testing.T) {
	_, err := testMapping.Changes(body(t, `{"title": null}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestChangesEmptyBody(t *testing.T) {
	_, err := testMapping.Changes(body(t, `{}`))
	assert.True(t, errors.Is(err, core.ErrNoFields))
}

func TestChangesUnknownKeysIgnored(t *testing.T) {
	// An unmapped key must never reach a column, even one that looks
	// like valid SQL.
	_, err := testMapping.Changes(body(t, `{"title; DROP TABLE users": "x"}`))
	assert.True(t, errors.Is(err, core.ErrNoFields))

	values, err := testMapping.Changes(body(t, `{"title": "ok", "bogus": 1}`))
	require.NoError(t, err)
	assert.Len(t, values, 1)
}

func TestChangesBadType(t *testing.T) {
	_, err := testMapping.Changes(body(t, `{"order": "ten"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	_, err = testMapping.Changes(body(t, `{"isActive": "yes"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestChangesFalsyValuesApplied(t *testing.T) {
	// false and 0 are legitimate values, not "absent".
	values, err := testMapping.Changes(body(t, `{"isActive": false, "order": 0}`))
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, 0, values[0].Arg)
	assert.Equal(t, false, values[1].Arg)
}

func TestInsertValuesRequiredAndDefaults(t *testing.T) {
	values, err := testMapping.InsertValues(body(t, `{"title": "New"}`))
	require.NoError(t, err)

	byColumn := map[string]any{}
	for _, v := range values {
		byColumn[v.Column] = v.Arg
	}
	assert.Equal(t, "New", byColumn["title"])
	assert.Equal(t, 0, byColumn[`"order"`])
	assert.Equal(t, true, byColumn["is_active"])
	assert.NotContains(t, byColumn, "image_url")

	_, err = testMapping.InsertValues(body(t, `{"order": 3}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestBuildUpdate(t *testing.T) {
	values := []Value{
		{Column: "title", Arg: "T"},
		{Column: `"order"`, Arg: 5},
	}

	query, args := BuildUpdate("services", values, "id", "abc", []string{"id", "title"})

	assert.Equal(t,
		`UPDATE services SET title = $1, "order" = $2, updated_at = NOW() WHERE id = $3 RETURNING id, title`,
		query,
	)
	assert.Equal(t, []any{"T", 5, "abc"}, args)
}

func TestBuildInsert(t *testing.T) {
	values := []Value{
		{Column: "key", Arg: "site_title"},
		{Column: "value", Arg: "DrivePixel"},
	}

	query, args := BuildInsert("settings", values, []string{"id"})

	assert.Equal(t,
		`INSERT INTO settings (key, value) VALUES ($1, $2) RETURNING id`,
		query,
	)
	assert.Equal(t, []any{"site_title", "DrivePixel"}, args)
}

func TestBodyRejectsNonObject(t *testing.T) {
	_, err := Body([]byte(`[1,2,3]`))
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	_, err = Body([]byte(`not json`))
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}
