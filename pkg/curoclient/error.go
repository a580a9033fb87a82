package curoclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type FieldViolation struct {
	FieldName string `json:"fieldName"`
	Value     any    `json:"value,omitempty"`
	Expected  string `json:"expected"`
}

// ErrorModel is the JSON error body returned by the server. BusinessCode and
// Violations are only set for domain rule and validation failures.
type ErrorModel struct {
	Timestamp    string           `json:"timestamp"`
	Status       int              `json:"status"`
	Error        string           `json:"error"`
	ErrorCode    string           `json:"errorCode"`
	Message      string           `json:"message"`
	Path         string           `json:"path"`
	BusinessCode string           `json:"businessCode,omitempty"`
	Violations   []FieldViolation `json:"violations,omitempty"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Model      ErrorModel
}

func (e *APIError) Error() string {
	if e.Model.Message == "" {
		return fmt.Sprintf("curo api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("curo api: %d %s", e.StatusCode, e.Model.Message)
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(data, &apiErr.Model)
	return apiErr
}
