// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/drivepixel/website-backend/internal/core"
)

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

type AccessTokenClaims struct {
	UserID       string
	Role         string
	TokenVersion int
	JTI          string
	ExpiresAt    time.Time
}

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// Identity is the caller as the store currently knows them.
type Identity struct {
	UserID string
	Role   string
}

// AccountResolver looks up the account bound in a verified token.
// Must return core.ErrNotFound when the account no longer exists.
type AccountResolver interface {
	ResolveAccount(ctx context.Context, id string) (*Identity, error)
}

// Gate is the single authorization routine: authenticate the bearer
// token, re-resolve the account, then compare the stored role against
// the required set. The role always comes from the store, never from
// the token claim, so a demoted admin is rejected on their next request.
type Gate struct {
	verifier TokenVerifier
	accounts AccountResolver
}

func NewGate(verifier TokenVerifier, accounts AccountResolver) *Gate {
	return &Gate{verifier: verifier, accounts: accounts}
}

// Authorize returns the caller's identity or one of three terminal
// outcomes: core.ErrUnauthorized (no/invalid/expired token, or the
// account is gone), core.ErrForbidden (known caller, wrong role), or a
// wrapped store error, which callers must surface as a server error
// rather than fold into "unauthenticated".
func (g *Gate) Authorize(
	ctx context.Context,
	token string,
	required ...string,
) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("authorize: missing token: %w", core.ErrUnauthorized)
	}

	claims, err := g.verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}

	ident, err := g.accounts.ResolveAccount(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Deleted account: reject as unauthenticated, never
			// as not-found, to avoid leaking existence.
			return nil, fmt.Errorf("authorize: %w", core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("authorize: resolve account: %w", err)
	}

	if len(required) > 0 {
		allowed := false
		for _, role := range required {
			if ident.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("authorize: role %q: %w", ident.Role, core.ErrForbidden)
		}
	}

	return ident, nil
}

// Require builds chi middleware around Authorize. With no roles it
// admits any authenticated caller; with roles it additionally enforces
// the allow-list. Both paths share the one routine.
func (g *Gate) Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := g.Authorize(r.Context(), ExtractToken(r), roles...)
			if err != nil {
				writeGateError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, ident.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, ident.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticate admits any caller the store still knows.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return g.Require()(next)
}

// Optional attaches an identity when a valid token is present and
// passes anonymous requests through untouched.
func (g *Gate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token != "" {
			if ident, err := g.Authorize(r.Context(), token); err == nil {
				ctx := r.Context()
				ctx = context.WithValue(ctx, UserIDKey, ident.UserID)
				ctx = context.WithValue(ctx, UserRoleKey, ident.Role)
				r = r.WithContext(ctx)
			}
		}

		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func writeGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		core.JSONError(w, core.ForbiddenError(""))
	case errors.Is(err, core.ErrTokenExpired),
		errors.Is(err, core.ErrTokenInvalid),
		errors.Is(err, core.ErrTokenRevoked):
		// Expired and malformed are deliberately indistinguishable
		// to the caller.
		core.JSONError(w, core.UnauthorizedError("invalid or expired token"))
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError(""))
	default:
		core.InternalServerError(w, err)
	}
}

func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	_, ok := GetUserID(ctx)
	return ok
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == "admin"
}
