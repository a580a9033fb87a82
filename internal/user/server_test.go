package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curo-bpm/curo/internal/user"
	"github.com/curo-bpm/curo/internal/user/repositoryimpl"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/storage"
)

func newServer(t *testing.T) *user.Server {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := repositoryimpl.NewYAMLRepository(s)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &user.User{ID: "demo", FirstName: "Demo", LastName: "Demo", Email: "demo@example.com", Groups: []string{"admin"}}))
	require.NoError(t, repo.Save(ctx, &user.User{ID: "mary", FirstName: "Mary", LastName: "Anne"}))
	return user.NewServer(repo)
}

func TestGetUsers(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	users, err := srv.GetUsers(ctx, nil, "")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "demo", *users[0].ID)
	assert.Equal(t, "demo@example.com", *users[0].Email)
	assert.Nil(t, users[1].Email)

	users, err = srv.GetUsers(ctx, []string{"id", "lastName"}, "admin")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Nil(t, users[0].FirstName)
	assert.Equal(t, "Demo", *users[0].LastName)

	_, err = srv.GetUsers(ctx, []string{"password"}, "")
	assert.Equal(t, cerr.InvalidArgument, cerr.CodeOf(err))
}

func TestUsersHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Use(cerr.NewJSONChiMiddleware())
	newServer(t).Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?attributes=id&attributes=firstName", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"demo","firstName":"Demo"},{"id":"mary","firstName":"Mary"}]`, rec.Body.String())
}
