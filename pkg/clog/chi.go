package clog

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type chiConfig struct {
	filter      func(r *http.Request) bool
	queryParams []string
}

type ChiOption func(*chiConfig)

// WithChiFilter suppresses the access log line for requests where filter
// returns false.
func WithChiFilter(filter func(r *http.Request) bool) ChiOption {
	return func(cfg *chiConfig) {
		cfg.filter = filter
	}
}

// WithChiQueryParams copies the named query parameters into the access log,
// e.g. the attribute mask of a projection request.
func WithChiQueryParams(names ...string) ChiOption {
	return func(cfg *chiConfig) {
		cfg.queryParams = append(cfg.queryParams, names...)
	}
}

// SlogChiMiddleware opens the request attribute bag and writes one access log
// line per request at a level derived from the response status.
func SlogChiMiddleware(opts ...ChiOption) func(http.Handler) http.Handler {
	var cfg chiConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ctx := ContextWithSlog(r.Context())
			AddAttributes(ctx, map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"proto":      r.Proto,
				"request_id": middleware.GetReqID(r.Context()),
			})
			if q := queryAttributes(r, cfg.queryParams); len(q) > 0 {
				AddAttribute(ctx, "query", q)
			}

			next.ServeHTTP(ww, r.WithContext(ctx))

			if cfg.filter != nil && !cfg.filter(r) {
				return
			}
			status := ww.Status()
			attrs := map[string]any{
				"status":        status,
				"bytes_written": ww.BytesWritten(),
				"duration":      time.Since(start),
			}
			// The route pattern is only known once chi has matched the request.
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					attrs["route"] = pattern
				}
			}
			AddAttributes(ctx, attrs)

			msg := http.StatusText(status)
			switch HTTPStatusToLevel(status) {
			case LevelError:
				slog.ErrorContext(ctx, msg)
			case LevelWarn:
				slog.WarnContext(ctx, msg)
			default:
				slog.InfoContext(ctx, msg)
			}
		})
	}
}

func queryAttributes(r *http.Request, names []string) map[string]any {
	if len(names) == 0 {
		return nil
	}
	q := r.URL.Query()
	out := make(map[string]any)
	for _, name := range names {
		values, ok := q[name]
		if !ok {
			continue
		}
		if len(values) == 1 {
			out[name] = values[0]
		} else {
			out[name] = values
		}
	}
	return out
}
