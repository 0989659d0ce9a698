// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/patch"
)

type fakeRepo struct {
	users map[string]*User
}

func newFakeRepo(seed ...*User) *fakeRepo {
	f := &fakeRepo{users: map[string]*User{}}
	for _, u := range seed {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return core.ErrDuplicateKey
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]User, error) {
	out := []User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

func (f *fakeRepo) UpdateFields(
	_ context.Context,
	id string,
	values []patch.Value,
) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	for _, v := range values {
		switch v.Column {
		case "first_name":
			u.FirstName = v.Arg.(string)
		case "last_name":
			u.LastName = v.Arg.(string)
		case "role":
			u.Role = v.Arg.(string)
		}
	}
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, nil
}

func (f *fakeRepo) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) IncrementTokenVersion(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func seedUser() *User {
	return &User{
		ID:        "u-1",
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      RoleUser,
	}
}

func TestResolveAccountReturnsStoredRole(t *testing.T) {
	u := seedUser()
	u.Role = RoleAdmin
	svc := NewService(newFakeRepo(u))

	ident, err := svc.ResolveAccount(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", ident.UserID)
	assert.Equal(t, RoleAdmin, ident.Role)
}

func TestResolveAccountMissingUser(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.ResolveAccount(context.Background(), "gone")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateProfileIgnoresRole(t *testing.T) {
	repo := newFakeRepo(seedUser())
	svc := NewService(repo)

	body := []byte(`{"firstName": "Augusta", "role": "admin"}`)
	resp, err := svc.UpdateProfile(context.Background(), "u-1", body)
	require.NoError(t, err)

	assert.Equal(t, "Augusta", resp.FirstName)
	assert.Equal(t, RoleUser, repo.users["u-1"].Role)
}

func TestUpdateProfileEmptyBody(t *testing.T) {
	svc := NewService(newFakeRepo(seedUser()))

	_, err := svc.UpdateProfile(context.Background(), "u-1", []byte(`{}`))
	assert.ErrorIs(t, err, core.ErrNoFields)
}

func TestAdminUpdateChangesRole(t *testing.T) {
	repo := newFakeRepo(seedUser())
	svc := NewService(repo)

	resp, err := svc.AdminUpdate(
		context.Background(),
		"u-1",
		[]byte(`{"role": "admin"}`),
	)
	require.NoError(t, err)

	assert.Equal(t, RoleAdmin, resp.Role)
	assert.Equal(t, RoleAdmin, repo.users["u-1"].Role)
}

func TestAdminUpdateRejectsUnknownRole(t *testing.T) {
	svc := NewService(newFakeRepo(seedUser()))

	_, err := svc.AdminUpdate(
		context.Background(),
		"u-1",
		[]byte(`{"role": "superuser"}`),
	)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdateProfileRejectsNullName(t *testing.T) {
	svc := NewService(newFakeRepo(seedUser()))

	_, err := svc.UpdateProfile(
		context.Background(),
		"u-1",
		[]byte(`{"firstName": null}`),
	)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestAuthProviderSignupDefaultsToUserRole(t *testing.T) {
	repo := newFakeRepo()
	provider := NewAuthProvider(repo)

	info, err := provider.Create(
		context.Background(),
		"ada@example.com",
		"$argon2id$stub",
		"Ada",
		"Lovelace",
	)
	require.NoError(t, err)

	assert.Equal(t, RoleUser, info.Role)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, 0, info.TokenVersion)
}
