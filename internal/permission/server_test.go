package permission_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curo-bpm/curo/internal/auth"
	"github.com/curo-bpm/curo/internal/permission"
	"github.com/curo-bpm/curo/internal/permission/repositoryimpl"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/storage"
)

func newServer(t *testing.T) *permission.Server {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := repositoryimpl.NewYAMLRepository(s)
	ctx := context.Background()
	for _, g := range []*permission.Grant{
		{Type: permission.GrantTypeGlobal, UserID: "*", ResourceType: "PROCESS_DEFINITION", ResourceID: "*", Permissions: []string{"READ"}},
		{Type: permission.GrantTypeGrant, GroupID: "admin", ResourceType: "PROCESS_INSTANCE", ResourceID: "*", Permissions: []string{"READ", "UPDATE"}},
	} {
		require.NoError(t, repo.Save(ctx, g))
	}
	policy := permission.NewStaticPolicy(map[string]permission.Rule{"manageUsers": {Groups: []string{"admin"}}})
	return permission.NewServer(repo, policy)
}

func TestLoadPermissions(t *testing.T) {
	srv := newServer(t)
	ctx := auth.WithPrincipal(context.Background(), auth.Principal{UserID: "demo", Groups: []string{"admin"}})

	got, err := srv.LoadPermissions(ctx, permission.Request{"*": {"PROCESS_DEFINITION": {"READ"}, "PROCESS_INSTANCE": {"*"}}})
	require.NoError(t, err)
	assert.Equal(t, &permission.Permissions{
		UserID: "demo",
		Groups: []string{"admin"},
		Permissions: permission.Request{"*": {
			"PROCESS_DEFINITION": {"READ"},
			"PROCESS_INSTANCE":   {"READ", "UPDATE"},
		}},
		CuroPermissions: map[string]bool{"manageUsers": true},
	}, got)

	_, err = srv.LoadPermissions(context.Background(), permission.Request{})
	assert.Equal(t, cerr.Unauthenticated, cerr.CodeOf(err))
}

func TestLoadPermissionsHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Use(cerr.NewJSONChiMiddleware())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), auth.Principal{UserID: "mary"})))
		})
	})
	newServer(t).Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/permissions",
		strings.NewReader(`{"*": {"PROCESS_DEFINITION":["READ"], "PROCESS_INSTANCE":["*"]}}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"userId": "mary",
		"groups": [],
		"permissions": {"*": {"PROCESS_DEFINITION": ["READ"], "PROCESS_INSTANCE": []}},
		"curoPermissions": {"manageUsers": false}
	}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/permissions",
		strings.NewReader(`{"*": {"PROCESS_DEFINITION":["FLY"]}}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body cerr.BadRequestDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Violations, 1)
	assert.Equal(t, "*.PROCESS_DEFINITION", body.Violations[0].FieldName)
}
