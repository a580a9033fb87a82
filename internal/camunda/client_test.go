package camunda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curo-bpm/curo/pkg/cerr"
)

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "engine", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/task", r.URL.Path)
		assert.Equal(t, "demo", r.URL.Query().Get("assignee"))
		_, _ = w.Write([]byte(`[{"id":"t1","created":"2024-01-02T03:04:05.000+0000","due":null}]`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithBasicAuth("engine", "secret"))
	var out []struct {
		ID      string `json:"id"`
		Created *Time  `json:"created"`
		Due     *Time  `json:"due"`
	}
	require.NoError(t, c.Get(context.Background(), "/task", url.Values{"assignee": {"demo"}}, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "t1", out[0].ID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), out[0].Created.Time.UTC())
	assert.Nil(t, out[0].Due)
	assert.Nil(t, out[0].Due.Ptr())
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   cerr.Code
	}{
		{http.StatusNotFound, cerr.NotFound},
		{http.StatusBadRequest, cerr.InvalidArgument},
		{http.StatusUnauthorized, cerr.Internal},
		{http.StatusInternalServerError, cerr.Unavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(engineError{Type: "InvalidRequestException", Message: "No matching task"})
			}))
			defer srv.Close()

			err := New(srv.URL).Post(context.Background(), "/task/x/complete", map[string]any{}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, cerr.CodeOf(err))
		})
	}
}

func TestClientUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	err := New(srv.URL).Get(context.Background(), "/user", nil, nil)
	assert.Equal(t, cerr.Unavailable, cerr.CodeOf(err))
}

func TestClientDeadlineExceeded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := New(srv.URL).Get(ctx, "/task", nil, nil)
	assert.Equal(t, cerr.DeadlineExceeded, cerr.CodeOf(err))
}

func TestWithTimeoutCopiesHTTPClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c := New("http://engine", WithHTTPClient(shared), WithTimeout(time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, c.http.Timeout)
}

func TestNotFoundAs(t *testing.T) {
	err := NotFoundAs("task", cerr.NewError(cerr.NotFound, "not found", nil))
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "task not found", ce.Msg)
}
