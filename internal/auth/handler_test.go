// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/middleware"
)

func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			ctx = context.WithValue(ctx, middleware.UserRoleKey, "user")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TestRevokeSessionUnknownID(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signup(t, "ada@example.com", "correct horse battery")

	h := NewHandler(env.service, slog.New(slog.DiscardHandler))
	router := chi.NewRouter()
	h.RegisterRoutes(router, asUser(resp.User.ID))

	req := httptest.NewRequest(http.MethodDelete, "/auth/sessions/no-such-session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var body core.Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Session not found", body.Message)
}
