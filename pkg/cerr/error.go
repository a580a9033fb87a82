package cerr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime"

	"github.com/curo-bpm/curo/pkg/clog"
)

type Error struct {
	Code         Code
	Msg          string           // message returned to the caller together with Code
	Err          error            // underlying error, logged only
	Stack        string           // stack trace, captured for error-level codes
	BusinessCode string           // domain rule identifier returned to the caller
	Violations   []FieldViolation // per-field validation failures returned to the caller
}

func NewError(code Code, msg string, underlying error) *Error {
	err := &Error{
		Code: code,
		Msg:  msg,
		Err:  underlying,
	}
	if clog.ConnectCodeToLevel(code.ConnectCode()) == clog.LevelError {
		stackTrace := make([]byte, 2048)
		n := runtime.Stack(stackTrace, false)
		err.Stack = string(stackTrace[0:n])
	}
	return err
}

// NewBusinessError reports a violated domain rule, e.g. completing a task that
// is assigned to someone else.
func NewBusinessError(code Code, businessCode, msg string, underlying error) *Error {
	err := NewError(code, msg, underlying)
	err.BusinessCode = businessCode
	return err
}

// NewValidationError returns an InvalidArgument error carrying field
// violations.
func NewValidationError(msg string, violations ...FieldViolation) *Error {
	err := NewError(InvalidArgument, msg, nil)
	err.Violations = append(err.Violations, violations...)
	return err
}

func (e *Error) AddViolation(v FieldViolation) *Error {
	e.Violations = append(e.Violations, v)
	return e
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code.String(), e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Msg, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Normalize converts any error into an *Error and records it on the request
// log attributes. Cancellations become Canceled, unknown errors Unknown.
func Normalize(ctx context.Context, err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return NewError(Canceled, "connection closed", err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.Err == "operation was canceled" {
		return NewError(Canceled, "connection closed", err)
	}

	clog.AddError(ctx, err)
	var cErr *Error
	if errors.As(err, &cErr) {
		if cErr.Stack != "" {
			clog.AddStack(ctx, cErr.Stack)
		}
		return cErr
	}
	u := NewError(Unknown, "unknown error", err)
	clog.AddStack(ctx, u.Stack)
	return u
}

func IsCode(err error, code Code) bool {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Code == code
	}
	return false
}

func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return Unknown
}
