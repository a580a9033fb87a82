package cerr

import (
	"net/http"
	"strings"
	"time"
)

// DefaultErrorModel is the JSON body of every failed API request.
type DefaultErrorModel struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	ErrorCode string    `json:"errorCode"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// BusinessErrorModel is returned when a domain rule rejected the request.
type BusinessErrorModel struct {
	DefaultErrorModel
	BusinessCode string `json:"businessCode"`
}

// BadRequestDetail is returned for validation failures only.
type BadRequestDetail struct {
	DefaultErrorModel
	Violations []FieldViolation `json:"violations"`
}

type FieldViolation struct {
	FieldName string `json:"fieldName"`
	Value     any    `json:"value,omitempty"`
	Expected  string `json:"expected"`
}

var secretFieldMarkers = []string{"password", "secret", "token", "credential"}

// NewFieldViolation builds a violation for field. The rejected value is
// dropped when the field name looks like it holds a secret.
func NewFieldViolation(field string, value any, expected string) FieldViolation {
	v := FieldViolation{FieldName: field, Expected: expected}
	if !isSecretField(field) {
		v.Value = value
	}
	return v
}

func isSecretField(field string) bool {
	lower := strings.ToLower(field)
	for _, m := range secretFieldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// ResponseModel builds the body for err as seen on path at now.
func ResponseModel(err *Error, path string, now time.Time) any {
	status := err.Code.HTTPCode()
	base := DefaultErrorModel{
		Timestamp: now.UTC(),
		Status:    status,
		Error:     statusText(status),
		ErrorCode: err.Code.String(),
		Message:   err.Msg,
		Path:      path,
	}
	switch {
	case len(err.Violations) > 0:
		violations := make([]FieldViolation, len(err.Violations))
		for i, v := range err.Violations {
			violations[i] = NewFieldViolation(v.FieldName, v.Value, v.Expected)
		}
		return BadRequestDetail{DefaultErrorModel: base, Violations: violations}
	case err.BusinessCode != "":
		return BusinessErrorModel{DefaultErrorModel: base, BusinessCode: err.BusinessCode}
	default:
		return base
	}
}

func statusText(status int) string {
	if status == 499 {
		return "Client Closed Request"
	}
	return http.StatusText(status)
}
