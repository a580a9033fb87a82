package repositoryimpl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curo-bpm/curo/internal/camunda"
	"github.com/curo-bpm/curo/internal/task"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/variable"
)

func newCamundaRepo(t *testing.T, h http.HandlerFunc) *CamundaRepository {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewCamundaRepository(camunda.New(srv.URL))
}

func TestCamundaGet(t *testing.T) {
	repo := newCamundaRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/task/t1":
			_, _ = w.Write([]byte(`{"id":"t1","name":"Approve","assignee":null,"created":"2024-05-01T10:00:00.000+0200","due":null,"priority":50,"suspended":false,"formKey":"app:approve"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"type":"InvalidRequestException","message":"No matching task with id missing"}`))
		}
	})

	tk, err := repo.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Approve", tk.Name)
	assert.Empty(t, tk.Assignee)
	assert.Nil(t, tk.Due)
	assert.Equal(t, 8, tk.Created.UTC().Hour())
	assert.Equal(t, "app:approve", tk.FormKey)

	_, err = repo.Get(context.Background(), "missing")
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, cerr.NotFound, ce.Code)
	assert.Equal(t, "task not found", ce.Msg)
}

func TestCamundaGetHistoric(t *testing.T) {
	repo := newCamundaRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history/task", r.URL.Path)
		if r.URL.Query().Get("taskId") == "done" {
			_, _ = w.Write([]byte(`[{"id":"done","name":"Old","startTime":"2024-05-01T10:00:00.000+0000","endTime":"2024-05-02T10:00:00.000+0000","processInstanceId":"pi"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	tk, err := repo.GetHistoric(context.Background(), "done")
	require.NoError(t, err)
	assert.True(t, tk.Historic)
	require.NotNil(t, tk.Completed)
	assert.Equal(t, 2, tk.Completed.Day())

	_, err = repo.GetHistoric(context.Background(), "nope")
	assert.Equal(t, cerr.NotFound, cerr.CodeOf(err))
}

func TestCamundaVariables(t *testing.T) {
	repo := newCamundaRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/task/t1/variables":
			assert.Equal(t, "false", r.URL.Query().Get("deserializeValues"))
			_, _ = w.Write([]byte(`{"title":{"type":"String","value":"Trip","valueInfo":{}},"days":{"type":"Long","value":3},"secretInternal":{"type":"String","value":"x"}}`))
		case "/history/variable-instance":
			assert.Equal(t, "pi", r.URL.Query().Get("processInstanceId"))
			_, _ = w.Write([]byte(`[{"name":"days","type":"Long","value":3}]`))
		}
	})

	vars, err := repo.Variables(context.Background(), &task.Task{ID: "t1"}, []string{"title"})
	require.NoError(t, err)
	require.Len(t, vars, 1)
	assert.Equal(t, "Trip", vars["title"].Value)

	vars, err = repo.Variables(context.Background(), &task.Task{ID: "t1"}, nil)
	require.NoError(t, err)
	assert.Len(t, vars, 3)

	vars, err = repo.Variables(context.Background(), &task.Task{ID: "t1", ProcessInstanceID: "pi", Historic: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, variable.TypeLong, vars["days"].Type)
}

func TestCamundaListAndMutations(t *testing.T) {
	var assigneeBody, completeBody map[string]any
	repo := newCamundaRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/task/count":
			assert.Equal(t, "demo", r.URL.Query().Get("assignee"))
			_, _ = w.Write([]byte(`{"count":7}`))
		case "/task":
			assert.Equal(t, "5", r.URL.Query().Get("firstResult"))
			assert.Equal(t, "2", r.URL.Query().Get("maxResults"))
			_, _ = w.Write([]byte(`[{"id":"a"},{"id":"b"}]`))
		case "/task/a/assignee":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&assigneeBody))
			w.WriteHeader(http.StatusNoContent)
		case "/task/a/complete":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&completeBody))
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	tasks, total, err := repo.List(ctx, task.Filter{Assignee: "demo", Offset: 5, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, tasks, 2)
	assert.Equal(t, "b", tasks[1].ID)

	require.NoError(t, repo.SetAssignee(ctx, "a", ""))
	assert.Contains(t, assigneeBody, "userId")
	assert.Nil(t, assigneeBody["userId"])

	require.NoError(t, repo.Complete(ctx, "a", variable.Map{"ok": {Type: variable.TypeBoolean, Value: true}}))
	assert.Equal(t, map[string]any{"ok": map[string]any{"type": "Boolean", "value": true}}, completeBody["variables"])
}
