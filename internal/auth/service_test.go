// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivepixel/website-backend/internal/config"
	"github.com/drivepixel/website-backend/internal/core"
)

type fakeTokenRepo struct {
	tokens map[string]*RefreshToken // by ID
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*RefreshToken{}}
}

func (f *fakeTokenRepo) Create(_ context.Context, token *RefreshToken) error {
	t := *token
	t.CreatedAt = time.Now()
	f.tokens[t.ID] = &t
	return nil
}

func (f *fakeTokenRepo) FindByHash(
	_ context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	for _, t := range f.tokens {
		if t.TokenHash == tokenHash {
			copied := *t
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeTokenRepo) FindByID(
	_ context.Context,
	id string,
) (*RefreshToken, error) {
	t, ok := f.tokens[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTokenRepo) MarkAsUsed(
	_ context.Context,
	id, replacedByID string,
) error {
	t, ok := f.tokens[id]
	if !ok {
		return core.ErrNotFound
	}
	now := time.Now()
	t.IsUsed = true
	t.UsedAt = &now
	t.ReplacedByID = &replacedByID
	return nil
}

func (f *fakeTokenRepo) RevokeByID(_ context.Context, id string) error {
	t, ok := f.tokens[id]
	if !ok {
		return core.ErrNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (f *fakeTokenRepo) RevokeByFamilyID(
	_ context.Context,
	familyID string,
) error {
	now := time.Now()
	for _, t := range f.tokens {
		if t.FamilyID == familyID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(
	_ context.Context,
	userID string,
) error {
	now := time.Now()
	for _, t := range f.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) GetActiveSessionsForUser(
	_ context.Context,
	userID string,
) ([]RefreshToken, error) {
	out := []RefreshToken{}
	for _, t := range f.tokens {
		if t.UserID == userID && t.IsValid() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	cutoff := time.Now().Add(-24 * time.Hour)

	var deleted int64
	for id, tok := range f.tokens {
		if tok.ExpiresAt.Before(cutoff) {
			delete(f.tokens, id)
			deleted++
		}
	}

	return deleted, nil
}

type fakeUserProvider struct {
	users map[string]*UserInfo // by ID
}

func newFakeUserProvider() *fakeUserProvider {
	return &fakeUserProvider{users: map[string]*UserInfo{}}
}

func (f *fakeUserProvider) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserProvider) GetByID(
	_ context.Context,
	id string,
) (*UserInfo, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserProvider) Create(
	_ context.Context,
	email, passwordHash, firstName, lastName string,
) (*UserInfo, error) {
	for _, u := range f.users {
		if u.Email == email {
			return nil, core.ErrDuplicateKey
		}
	}

	u := &UserInfo{
		ID:           "u-" + email,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	f.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUserProvider) IncrementTokenVersion(
	_ context.Context,
	userID string,
) error {
	u, ok := f.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (f *fakeUserProvider) UpdatePassword(
	_ context.Context,
	userID, passwordHash string,
) error {
	u, ok := f.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func newTestJWT(t *testing.T) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(privPath, pubPath))

	jwtManager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privPath,
		PublicKeyPath:      pubPath,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "test-issuer",
		Audience:           "test-audience",
	})
	require.NoError(t, err)
	return jwtManager
}

type testEnv struct {
	service *Service
	repo    *fakeTokenRepo
	users   *fakeUserProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newFakeTokenRepo()
	users := newFakeUserProvider()
	svc := NewService(repo, newTestJWT(t), users, nil, 15*time.Minute)
	return &testEnv{service: svc, repo: repo, users: users}
}

func (e *testEnv) signup(t *testing.T, email, password string) *AuthResponse {
	t.Helper()

	resp, err := e.service.Signup(context.Background(), SignupRequest{
		Email:     email,
		Password:  password,
		FirstName: "Ada",
		LastName:  "Lovelace",
	}, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	return resp
}

func TestSignupIssuesTokenPair(t *testing.T) {
	env := newTestEnv(t)

	resp := env.signup(t, "ada@example.com", "correct horse battery")

	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.Equal(t, int(15*time.Minute/time.Second), resp.Tokens.ExpiresIn)

	claims, err := env.service.VerifyAccessToken(
		context.Background(),
		resp.Tokens.AccessToken,
	)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.JTI)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ada@example.com", "correct horse battery")

	_, err := env.service.Signup(context.Background(), SignupRequest{
		Email:     "ada@example.com",
		Password:  "another password",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}, "test-agent", "127.0.0.1")

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ada@example.com", "correct horse battery")

	_, err := env.service.Login(context.Background(), LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong password",
	}, "test-agent", "127.0.0.1")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	}, "test-agent", "127.0.0.1")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signup(t, "ada@example.com", "correct horse battery")

	rotated, err := env.service.Refresh(
		context.Background(),
		resp.Tokens.RefreshToken,
		"test-agent",
		"127.0.0.1",
	)
	require.NoError(t, err)
	assert.NotEqual(t, resp.Tokens.RefreshToken, rotated.Tokens.RefreshToken)

	// The rotated-out token is marked used, not deleted.
	old, err := env.repo.FindByHash(
		context.Background(),
		core.HashToken(resp.Tokens.RefreshToken),
	)
	require.NoError(t, err)
	assert.True(t, old.IsUsed)
	require.NotNil(t, old.ReplacedByID)
}

func TestRefreshReuseBurnsFamily(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signup(t, "ada@example.com", "correct horse battery")

	rotated, err := env.service.Refresh(
		context.Background(),
		resp.Tokens.RefreshToken,
		"test-agent",
		"127.0.0.1",
	)
	require.NoError(t, err)

	// Replaying the consumed token revokes every token in the family.
	_, err = env.service.Refresh(
		context.Background(),
		resp.Tokens.RefreshToken,
		"test-agent",
		"127.0.0.1",
	)
	assert.ErrorIs(t, err, ErrTokenReuse)

	_, err = env.service.Refresh(
		context.Background(),
		rotated.Tokens.RefreshToken,
		"test-agent",
		"127.0.0.1",
	)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestRefreshUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Refresh(
		context.Background(),
		"not-a-stored-token",
		"test-agent",
		"127.0.0.1",
	)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogoutOtherUsersToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signup(t, "ada@example.com", "correct horse battery")

	err := env.service.Logout(
		context.Background(),
		resp.Tokens.RefreshToken,
		"someone-else",
	)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestLogoutUnknownTokenIsNoop(t *testing.T) {
	env := newTestEnv(t)

	err := env.service.Logout(
		context.Background(),
		"never-issued",
		"u-ada@example.com",
	)
	assert.NoError(t, err)
}

func TestLogoutAllBumpsTokenVersion(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signup(t, "ada@example.com", "correct horse battery")

	require.NoError(
		t,
		env.service.LogoutAll(context.Background(), resp.User.ID),
	)

	u, err := env.users.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.TokenVersion)

	sessions, err := env.service.GetActiveSessions(
		context.Background(),
		resp.User.ID,
	)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRevokeSessionOwnershipCheck(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signup(t, "ada@example.com", "correct horse battery")

	sessions, err := env.service.GetActiveSessions(
		context.Background(),
		resp.User.ID,
	)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	err = env.service.RevokeSession(
		context.Background(),
		"someone-else",
		sessions[0].ID,
	)
	assert.ErrorIs(t, err, core.ErrForbidden)

	require.NoError(t, env.service.RevokeSession(
		context.Background(),
		resp.User.ID,
		sessions[0].ID,
	))
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signup(t, "ada@example.com", "correct horse battery")

	err := env.service.ChangePassword(
		context.Background(),
		resp.User.ID,
		"wrong current",
		"brand new password",
	)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.service.ChangePassword(
		context.Background(),
		resp.User.ID,
		"correct horse battery",
		"brand new password",
	))

	// Old sessions die with the password.
	sessions, err := env.service.GetActiveSessions(
		context.Background(),
		resp.User.ID,
	)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = env.service.Login(context.Background(), LoginRequest{
		Email:    "ada@example.com",
		Password: "brand new password",
	}, "test-agent", "127.0.0.1")
	assert.NoError(t, err)
}

func TestReapExpiredTokens(t *testing.T) {
	env := newTestEnv(t)

	env.repo.tokens["stale"] = &RefreshToken{
		ID:        "stale",
		UserID:    "u-1",
		ExpiresAt: time.Now().Add(-48 * time.Hour),
	}
	env.repo.tokens["fresh"] = &RefreshToken{
		ID:        "fresh",
		UserID:    "u-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	// A cancelled context still gets the immediate first pass.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	env.service.ReapExpiredTokens(ctx, time.Hour, slog.New(slog.DiscardHandler))

	assert.NotContains(t, env.repo.tokens, "stale")
	assert.Contains(t, env.repo.tokens, "fresh")
}
