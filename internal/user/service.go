// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/drivepixel/website-backend/internal/auth"
	"github.com/drivepixel/website-backend/internal/middleware"
	"github.com/drivepixel/website-backend/internal/patch"
)

// profileMapping covers the fields an account holder may change on
// themselves. adminMapping additionally allows role changes.
var profileMapping = patch.Mapping{
	{Name: "firstName", Column: "first_name", Decode: patch.NonEmptyString(100)},
	{Name: "lastName", Column: "last_name", Decode: patch.NonEmptyString(100)},
}

var adminMapping = patch.Mapping{
	{Name: "firstName", Column: "first_name", Decode: patch.NonEmptyString(100)},
	{Name: "lastName", Column: "last_name", Decode: patch.NonEmptyString(100)},
	{Name: "role", Column: "role", Decode: patch.Enum(RoleUser, RoleAdmin)},
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveAccount loads the account's current role from the store so
// authorization never trusts a stale token claim.
func (s *Service) ResolveAccount(
	ctx context.Context,
	id string,
) (*middleware.Identity, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &middleware.Identity{
		UserID: u.ID,
		Role:   u.Role,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Response, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toResponse(u), nil
}

func (s *Service) List(
	ctx context.Context,
	page, limit int,
) ([]Response, int, error) {
	offset := (page - 1) * limit

	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]Response, 0, len(users))
	for i := range users {
		responses = append(responses, *toResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	id string,
	body []byte,
) (*Response, error) {
	return s.applyPatch(ctx, id, body, profileMapping)
}

func (s *Service) AdminUpdate(
	ctx context.Context,
	id string,
	body []byte,
) (*Response, error) {
	return s.applyPatch(ctx, id, body, adminMapping)
}

func (s *Service) applyPatch(
	ctx context.Context,
	id string,
	body []byte,
	mapping patch.Mapping,
) (*Response, error) {
	fields, err := patch.Body(body)
	if err != nil {
		return nil, err
	}

	values, err := mapping.Changes(fields)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.UpdateFields(ctx, id, values)
	if err != nil {
		return nil, err
	}

	return toResponse(u), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AuthProvider adapts the user store to the auth service's needs.
type AuthProvider struct {
	repo Repository
}

func NewAuthProvider(repo Repository) *AuthProvider {
	return &AuthProvider{repo: repo}
}

func (p *AuthProvider) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	u, err := p.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

func (p *AuthProvider) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	u, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

func (p *AuthProvider) Create(
	ctx context.Context,
	email, passwordHash, firstName, lastName string,
) (*auth.UserInfo, error) {
	u := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         RoleUser,
	}

	if err := p.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return toUserInfo(u), nil
}

func (p *AuthProvider) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return p.repo.IncrementTokenVersion(ctx, userID)
}

func (p *AuthProvider) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return p.repo.UpdatePassword(ctx, userID, passwordHash)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}
}
