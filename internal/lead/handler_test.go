// AngelaMos | 2026
// handler_test.go

package lead

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivepixel/website-backend/internal/activity"
	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/middleware"
	"github.com/drivepixel/website-backend/internal/patch"
)

type fakeRepo struct {
	leads map[string]*Lead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: map[string]*Lead{}}
}

func (f *fakeRepo) Insert(
	_ context.Context,
	userID string,
	values []patch.Value,
) (*Lead, error) {
	l := &Lead{
		ID:        "lead-1",
		UserID:    userID,
		Status:    StatusNew,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	applyValues(l, values)
	f.leads[l.ID] = l
	return l, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeRepo) ListByUser(
	_ context.Context,
	userID string,
	limit, offset int,
) ([]Lead, error) {
	out := []Lead{}
	for _, l := range f.leads {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, l := range f.leads {
		if l.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) ListAll(
	_ context.Context,
	status string,
	limit, offset int,
) ([]Lead, error) {
	out := []Lead{}
	for _, l := range f.leads {
		if status == "" || l.Status == status {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountAll(_ context.Context, status string) (int, error) {
	all, _ := f.ListAll(context.Background(), status, 0, 0)
	return len(all), nil
}

func (f *fakeRepo) UpdateFields(
	_ context.Context,
	id string,
	values []patch.Value,
) (*Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	applyValues(l, values)
	l.UpdatedAt = time.Now()
	copied := *l
	return &copied, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.leads[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) CountByStatus(_ context.Context) ([]StatusCount, error) {
	return nil, nil
}

func (f *fakeRepo) CountSince(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func applyValues(l *Lead, values []patch.Value) {
	for _, v := range values {
		switch v.Column {
		case "name":
			l.Name = v.Arg.(string)
		case "email":
			l.Email = v.Arg.(string)
		case "phone":
			if v.Arg == nil {
				l.Phone = nil
			} else {
				s := v.Arg.(string)
				l.Phone = &s
			}
		case "status":
			l.Status = v.Arg.(string)
		}
	}
}

type noopActivityRepo struct{}

func (noopActivityRepo) Insert(context.Context, *activity.Log) error { return nil }

func (noopActivityRepo) List(
	context.Context,
	activity.Filter,
	int,
	int,
) ([]activity.LogWithUser, error) {
	return nil, nil
}

func (noopActivityRepo) Count(context.Context, activity.Filter) (int, error) {
	return 0, nil
}

func (noopActivityRepo) GetByID(
	context.Context,
	string,
) (*activity.LogWithUser, error) {
	return nil, nil
}

func (noopActivityRepo) Delete(context.Context, string) error { return nil }

func newTestRouter(repo Repository) chi.Router {
	logger := slog.New(slog.DiscardHandler)
	h := NewHandler(repo, activity.NewRecorder(noopActivityRepo{}, logger), logger)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func asUser(req *http.Request, userID, role string) *http.Request {
	ctx := req.Context()
	ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
	return req.WithContext(ctx)
}

func TestCreateDefaultsToNewStatus(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)

	req := httptest.NewRequest(
		http.MethodPost,
		"/leads/",
		strings.NewReader(`{"name": "Ada", "email": "ada@example.com"}`),
	)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "u-1", "user"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data Lead `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusNew, resp.Data.Status)
	assert.Equal(t, "u-1", resp.Data.UserID)
}

func TestAdminCreatesLeadAtLaterStage(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)

	req := httptest.NewRequest(
		http.MethodPost,
		"/leads/",
		strings.NewReader(`{"name": "Ada", "email": "ada@example.com", "status": "qualified"}`),
	)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "admin-1", "admin"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data Lead `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusQualified, resp.Data.Status)
}

func TestCreateIgnoresStatusFromNonAdmin(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)

	req := httptest.NewRequest(
		http.MethodPost,
		"/leads/",
		strings.NewReader(`{"name": "Ada", "email": "ada@example.com", "status": "converted"}`),
	)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "u-1", "user"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data Lead `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusNew, resp.Data.Status)
}

func TestOwnerCannotMoveStatus(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)
	seedLead(t, repo, "u-1")

	req := httptest.NewRequest(
		http.MethodPatch,
		"/leads/lead-1",
		strings.NewReader(`{"status": "contacted"}`),
	)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "u-1", "user"))

	// Status is not in the owner's field set, so the body reduces to
	// an empty change set.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, StatusNew, repo.leads["lead-1"].Status)
}

func TestAdminMovesStatus(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)
	seedLead(t, repo, "u-1")

	req := httptest.NewRequest(
		http.MethodPatch,
		"/leads/lead-1",
		strings.NewReader(`{"status": "contacted"}`),
	)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "admin-1", "admin"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusContacted, repo.leads["lead-1"].Status)
}

func TestInvalidStatusRejected(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)
	seedLead(t, repo, "u-1")

	req := httptest.NewRequest(
		http.MethodPatch,
		"/leads/lead-1",
		strings.NewReader(`{"status": "closed_won"}`),
	)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "admin-1", "admin"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, StatusNew, repo.leads["lead-1"].Status)
}

func TestStrangerCannotReadLead(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)
	seedLead(t, repo, "u-1")

	req := httptest.NewRequest(http.MethodGet, "/leads/lead-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "u-2", "user"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminReadsAnyLead(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)
	seedLead(t, repo, "u-1")

	req := httptest.NewRequest(http.MethodGet, "/leads/lead-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "admin-1", "admin"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOwnerClearsPhoneWithExplicitNull(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)
	seedLead(t, repo, "u-1")

	phone := "555-0100"
	repo.leads["lead-1"].Phone = &phone

	req := httptest.NewRequest(
		http.MethodPatch,
		"/leads/lead-1",
		strings.NewReader(`{"phone": null}`),
	)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "u-1", "user"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, repo.leads["lead-1"].Phone)
}

func TestPartialUpdateLeavesOtherFields(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRouter(repo)
	seedLead(t, repo, "u-1")

	req := httptest.NewRequest(
		http.MethodPatch,
		"/leads/lead-1",
		strings.NewReader(`{"name": "Ada Lovelace"}`),
	)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(req, "u-1", "user"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada Lovelace", repo.leads["lead-1"].Name)
	assert.Equal(t, "ada@example.com", repo.leads["lead-1"].Email)
}

func seedLead(t *testing.T, repo *fakeRepo, userID string) {
	t.Helper()

	_, err := repo.Insert(context.Background(), userID, []patch.Value{
		{Column: "name", Arg: "Ada"},
		{Column: "email", Arg: "ada@example.com"},
	})
	require.NoError(t, err)
}
