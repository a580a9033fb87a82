package task_test

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
	"github.com/curo-bpm/curo/internal/task"
	"github.com/curo-bpm/curo/internal/task/repositoryimpl"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/storage"
	"github.com/curo-bpm/curo/pkg/variable"
)

func newRepo(t *testing.T) *repositoryimpl.YAMLRepository {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return repositoryimpl.NewYAMLRepository(s)
}

func seed(t *testing.T, repo *repositoryimpl.YAMLRepository, tasks ...*task.Task) {
	t.Helper()
	for _, tk := range tasks {
		require.NoError(t, repo.Create(context.Background(), tk))
	}
}

func asUser(userID string) context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{UserID: userID})
}

func TestGetTaskNotFound(t *testing.T) {
	srv := task.NewServer(newRepo(t))

	_, err := srv.GetTask(context.Background(), "missing", task.GetQuery{})
	assert.Equal(t, cerr.NotFound, cerr.CodeOf(err))

	_, err = srv.GetTask(context.Background(), "missing", task.GetQuery{LoadFromHistoric: true})
	assert.Equal(t, cerr.NotFound, cerr.CodeOf(err))
}

func TestGetTaskProjection(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, &task.Task{
		ID:        "t1",
		Name:      "Review",
		Assignee:  "demo",
		Variables: variable.Map{"title": {Type: variable.TypeString, Value: "Holiday"}, "days": {Type: variable.TypeLong, Value: 3}},
	})
	srv := task.NewServer(repo)

	resp, err := srv.GetTask(context.Background(), "t1", task.GetQuery{Attributes: []string{"name"}})
	require.NoError(t, err)
	assert.Nil(t, resp.ID)
	assert.Nil(t, resp.Variables)
	require.NotNil(t, resp.Name)
	assert.Equal(t, "Review", *resp.Name)

	resp, err = srv.GetTask(context.Background(), "t1", task.GetQuery{})
	require.NoError(t, err)
	assert.Equal(t, "t1", *resp.ID)
	assert.Len(t, resp.Variables, 2, "an empty mask loads every variable")

	resp, err = srv.GetTask(context.Background(), "t1", task.GetQuery{Variables: []string{"title"}})
	require.NoError(t, err)
	assert.Equal(t, variable.Map{"title": {Type: variable.TypeString, Value: "Holiday"}}, resp.Variables)

	resp, err = srv.GetTask(context.Background(), "t1", task.GetQuery{Attributes: []string{"id", "variables"}})
	require.NoError(t, err)
	assert.Len(t, resp.Variables, 2)
	assert.Nil(t, resp.Name)
}

func TestGetTaskEmptyMaskHasAllFields(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, &task.Task{
		ID:        "t1",
		Name:      "Review",
		Variables: variable.Map{"title": {Type: variable.TypeString, Value: "Holiday"}},
	})
	srv := task.NewServer(repo)

	resp, err := srv.GetTask(context.Background(), "t1", task.GetQuery{})
	require.NoError(t, err)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "variables")
	assert.JSONEq(t, `{"title":{"type":"String","value":"Holiday"}}`, string(fields["variables"]))
}

func TestGetTaskHistoricFallback(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, &task.Task{ID: "t1", Name: "Done soon", Assignee: "demo"})
	srv := task.NewServer(repo)

	require.NoError(t, srv.CompleteTask(asUser("demo"), "t1", nil))

	_, err := srv.GetTask(context.Background(), "t1", task.GetQuery{})
	assert.Equal(t, cerr.NotFound, cerr.CodeOf(err))

	resp, err := srv.GetTask(context.Background(), "t1", task.GetQuery{LoadFromHistoric: true})
	require.NoError(t, err)
	assert.True(t, *resp.Historic)
	assert.NotNil(t, resp.Completed)
}

func TestCompleteTaskAssignedToOther(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, &task.Task{ID: "t1", Name: "Mine", Assignee: "mary"})
	srv := task.NewServer(repo)

	err := srv.CompleteTask(asUser("demo"), "t1", nil)
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, task.BusinessCodeAssignedToOther, ce.BusinessCode)

	err = srv.CompleteTask(context.Background(), "t1", nil)
	assert.Equal(t, cerr.Unauthenticated, cerr.CodeOf(err))
}

func TestSetAssignee(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, &task.Task{ID: "t1", Name: "Claim me"})
	srv := task.NewServer(repo)

	who := "demo"
	resp, err := srv.SetAssignee(context.Background(), "t1", &who)
	require.NoError(t, err)
	assert.Equal(t, "demo", *resp.Assignee)

	resp, err = srv.SetAssignee(context.Background(), "t1", nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Assignee)
}

func newRouter(srv *task.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(cerr.NewJSONChiMiddleware())
	srv.Routes(r)
	return r
}

func TestHandlers(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo,
		&task.Task{ID: "t1", Name: "First", Assignee: "demo", CandidateGroups: []string{"admin"}},
		&task.Task{ID: "t2", Name: "Second", Assignee: "mary"},
	)
	h := newRouter(task.NewServer(repo))

	t.Run("get", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/t1?attributes=id,name", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":"t1","name":"First"}`, rec.Body.String())
	})

	t.Run("unknown attribute", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/t1?attributes=colour", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body cerr.BadRequestDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Violations, 1)
		assert.Equal(t, "colour", body.Violations[0].Value)
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `"path":"/tasks/nope"`)
	})

	t.Run("file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/t1/file/f1", nil))
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks?candidateGroup=admin&attributes=id", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"items":[{"id":"t1"}],"total":1,"offset":0,"limit":50}`, rec.Body.String())
	})

	t.Run("list bad limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks?limit=501&offset=-1", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body cerr.BadRequestDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Violations, 2)
	})

	t.Run("assignee", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/tasks/t2/assignee", strings.NewReader(`{"assignee":null}`)))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "assignee")
	})

	t.Run("complete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tasks/t1/complete",
			strings.NewReader(`{"variables":{"approved":{"type":"Boolean","value":true}}}`))
		req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: "demo"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{}`, rec.Body.String())
	})
}
