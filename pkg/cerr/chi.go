package cerr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/curo-bpm/curo/pkg/clog"
)

type responseReceiverKey struct{}

type responseReceiver struct {
	response any
	err      error
	set      bool
}

func contextWithResponseReceiver(ctx context.Context, rr *responseReceiver) context.Context {
	return context.WithValue(ctx, responseReceiverKey{}, rr)
}

func responseReceiverFromContext(ctx context.Context) *responseReceiver {
	if rr, ok := ctx.Value(responseReceiverKey{}).(*responseReceiver); ok {
		return rr
	}
	return nil
}

func SetJSONResponse(ctx context.Context, response any) {
	if rr := responseReceiverFromContext(ctx); rr != nil {
		rr.response = response
		rr.set = true
	}
}

func SetJSONError(ctx context.Context, err error) {
	if rr := responseReceiverFromContext(ctx); rr != nil {
		rr.err = err
		rr.set = true
	}
}

func SetNewJSONError(ctx context.Context, code Code, msg string, err error) {
	SetJSONError(ctx, NewError(code, msg, err))
}

// Respond is the usual tail of a handler: an error wins over the response.
func Respond(ctx context.Context, response any, err error) {
	if err != nil {
		SetJSONError(ctx, err)
		return
	}
	SetJSONResponse(ctx, response)
}

// NewJSONChiMiddleware lets handlers hand their result to SetJSONResponse or
// SetJSONError and renders it once the handler returns. Handlers that write
// to the ResponseWriter themselves and never call either are left alone.
func NewJSONChiMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rr := &responseReceiver{}
			ctx := contextWithResponseReceiver(r.Context(), rr)
			next.ServeHTTP(rw, r.WithContext(ctx))
			if !rr.set {
				return
			}
			ExtractToHTTPResponse(ctx, rw, r, rr)
		})
	}
}

func ExtractToHTTPResponse(ctx context.Context, rw http.ResponseWriter, r *http.Request, response *responseReceiver) {
	if response.err == nil {
		writeJSON(ctx, rw, r, response.response)
		return
	}
	WriteError(ctx, rw, r, response.err)
}

// WriteError renders err as a JSON error body. Middlewares that reject a
// request before it reaches a handler use it directly.
func WriteError(ctx context.Context, rw http.ResponseWriter, r *http.Request, err error) {
	writeJSONError(ctx, rw, r, Normalize(ctx, err))
}

func writeJSON(ctx context.Context, rw http.ResponseWriter, r *http.Request, response any) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(response); err != nil {
		writeJSONError(ctx, rw, r, NewError(Internal, "server error", err))
		return
	}
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(http.StatusOK)
	if _, err := rw.Write(buf.Bytes()); err != nil {
		clog.AddError(ctx, NewError(Internal, "server error", err))
	}
}

func writeJSONError(ctx context.Context, rw http.ResponseWriter, r *http.Request, origErr *Error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(ResponseModel(origErr, r.URL.Path, time.Now())); err != nil {
		buf = bytes.NewBufferString(`{"status":500,"error":"Internal Server Error","errorCode":"internal","message":"server error"}`)
		origErr.Err = errors.Join(origErr.Err, err)
		clog.AddError(ctx, origErr)
	}
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(origErr.Code.HTTPCode())
	if _, err := rw.Write(buf.Bytes()); err != nil {
		origErr.Err = errors.Join(origErr.Err, err)
		clog.AddError(ctx, origErr)
	}
}

// DecodeJSONBody decodes the request body into v. An empty body leaves v
// untouched.
func DecodeJSONBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return NewError(InvalidArgument, "invalid request body", err)
	}
	return nil
}
