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
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/variable"
)

func TestCamundaStart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process-definition/key/invoice/start" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"type":"RestException","message":"No matching process definition"}`))
			return
		}
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "INV-7", body["businessKey"])
		assert.Equal(t, map[string]any{"title": map[string]any{"type": "String", "value": "Pay"}}, body["variables"])
		_, _ = w.Write([]byte(`{"id":"pi-1","definitionId":"invoice:2:xyz","businessKey":"INV-7","ended":false,"suspended":false}`))
	}))
	defer srv.Close()
	repo := NewCamundaRepository(camunda.New(srv.URL))

	inst, err := repo.Start(context.Background(), "invoice", "INV-7",
		variable.Map{"title": {Type: variable.TypeString, Value: "Pay"}})
	require.NoError(t, err)
	assert.Equal(t, "pi-1", inst.ID)
	assert.Equal(t, "invoice", inst.DefinitionKey)
	assert.Equal(t, "invoice:2:xyz", inst.DefinitionID)

	_, err = repo.Start(context.Background(), "missing", "", nil)
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "process definition not found", ce.Msg)
}
