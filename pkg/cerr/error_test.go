package cerr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curo-bpm/curo/pkg/storage"
)

func TestCodeHTTPCode(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{OK, http.StatusOK},
		{InvalidArgument, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Unauthenticated, http.StatusUnauthorized},
		{PermissionDenied, http.StatusForbidden},
		{Unimplemented, http.StatusNotImplemented},
		{Code(99), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPCode())
		})
	}
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "failed_precondition", FailedPrecondition.String())
	assert.Equal(t, "deadline_exceeded", DeadlineExceeded.String())
	assert.Equal(t, "unknown", Code(99).String())

	for c := OK; c <= Unauthenticated; c++ {
		assert.Contains(t, codeNames, c, "code %d has no name", int(c))
	}
}

func TestCodeFromHTTPStatus(t *testing.T) {
	assert.Equal(t, NotFound, CodeFromHTTPStatus(http.StatusNotFound))
	assert.Equal(t, InvalidArgument, CodeFromHTTPStatus(http.StatusBadRequest))
	assert.Equal(t, Unauthenticated, CodeFromHTTPStatus(http.StatusUnauthorized))
	assert.Equal(t, Unavailable, CodeFromHTTPStatus(http.StatusBadGateway))
	assert.Equal(t, OK, CodeFromHTTPStatus(http.StatusNoContent))
}

func TestNewFieldViolationRedactsSecrets(t *testing.T) {
	v := NewFieldViolation("password", "hunter2", "at least 8 characters")
	assert.Nil(t, v.Value)
	v = NewFieldViolation("engineToken", "abc", "non-empty")
	assert.Nil(t, v.Value)
	v = NewFieldViolation("title", "", "non-empty")
	assert.Equal(t, "", v.Value)
}

func TestResponseModelShapes(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	plain := ResponseModel(NewError(NotFound, "task not found", nil), "/api/tasks/x", now)
	model, ok := plain.(DefaultErrorModel)
	require.True(t, ok)
	assert.Equal(t, 404, model.Status)
	assert.Equal(t, "Not Found", model.Error)
	assert.Equal(t, "not_found", model.ErrorCode)
	assert.Equal(t, "/api/tasks/x", model.Path)
	assert.Equal(t, now, model.Timestamp)

	business := ResponseModel(NewBusinessError(FailedPrecondition, "TASK_NOT_ASSIGNED", "task is not assigned to you", nil), "/p", now)
	bm, ok := business.(BusinessErrorModel)
	require.True(t, ok)
	assert.Equal(t, "TASK_NOT_ASSIGNED", bm.BusinessCode)

	validation := ResponseModel(NewValidationError("invalid request",
		FieldViolation{FieldName: "secretKey", Value: "s3cr3t", Expected: "non-empty"},
		FieldViolation{FieldName: "title", Value: 1, Expected: "string"},
	), "/p", now)
	bd, ok := validation.(BadRequestDetail)
	require.True(t, ok)
	require.Len(t, bd.Violations, 2)
	assert.Nil(t, bd.Violations[0].Value)
	assert.Equal(t, 1, bd.Violations[1].Value)
}

func TestJSONChiMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(NewJSONChiMiddleware())
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		SetJSONResponse(r.Context(), map[string]string{"hello": "world"})
	})
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		SetJSONError(r.Context(), WrapStorageReadError("task", fmt.Errorf("tasks/x.yaml: %w", storage.ErrNotFound)))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		SetJSONError(r.Context(), errors.New("database exploded"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hello":"world"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body DefaultErrorModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "task not found", body.Message)
	assert.Equal(t, "/missing", body.Path)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknown error", body.Message)
	assert.NotContains(t, rec.Body.String(), "database exploded")
}

func TestNormalizeCanceled(t *testing.T) {
	err := Normalize(context.Background(), fmt.Errorf("read: %w", context.Canceled))
	assert.Equal(t, Canceled, err.Code)
	assert.Equal(t, 499, err.Code.HTTPCode())
}
