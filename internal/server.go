package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"connectrpc.com/grpchealth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/curo-bpm/curo/internal/auth"
	"github.com/curo-bpm/curo/internal/config"
	"github.com/curo-bpm/curo/internal/permission"
	"github.com/curo-bpm/curo/internal/process"
	"github.com/curo-bpm/curo/internal/task"
	"github.com/curo-bpm/curo/internal/user"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/clog"
)

type Server struct {
	server           *http.Server
	env              *config.Env
	authenticator    *auth.Authenticator
	authServer       *auth.Server
	taskServer       *task.Server
	userServer       *user.Server
	permissionServer *permission.Server
	processServer    *process.Server
}

func NewServer(
	env *config.Env,
	authenticator *auth.Authenticator,
	authServer *auth.Server,
	taskServer *task.Server,
	userServer *user.Server,
	permissionServer *permission.Server,
	processServer *process.Server,
) *Server {
	return &Server{
		env:              env,
		authenticator:    authenticator,
		authServer:       authServer,
		taskServer:       taskServer,
		userServer:       userServer,
		permissionServer: permissionServer,
		processServer:    processServer,
	}
}

// Handler builds the full HTTP handler: the REST API under the base path,
// health endpoints and, when enabled, the frontend at "/".
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route(s.env.BasePath, func(r chi.Router) {
		r.Use(
			middleware.RequestID,
			clog.SlogChiMiddleware(clog.WithChiQueryParams("attributes", "variables", "loadFromHistoric", "groupId")),
			cerr.NewJSONChiMiddleware(),
		)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.InvalidArgument, "method not allowed", nil)
		})

		s.authServer.PublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(s.authenticator.Middleware)
			s.authServer.Routes(r)
			s.taskServer.Routes(r)
			s.userServer.Routes(r)
			s.permissionServer.Routes(r)
			s.processServer.Routes(r)
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/health", &HealthChecker{})
	mux.Handle(grpchealth.NewHandler(grpchealth.NewStaticChecker()))
	mux.Handle(s.env.BasePath+"/", r)
	if s.env.FrontendEnabled {
		mux.Handle("/", NewFrontendHandler(s.env.FrontendDir))
	}

	return h2c.NewHandler(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(mux), &http2.Server{})
}

// ListenAndServe starts the HTTP server. ctx becomes the base context of
// every request.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr, "base_path", s.env.BasePath, "frontend", s.env.FrontendEnabled)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type HealthChecker struct{}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// NewFrontendHandler serves the single page app in dir. Paths that do not
// name a file fall back to index.html so client side routes resolve.
func NewFrontendHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	})
}
