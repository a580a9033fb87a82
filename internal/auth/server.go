package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curo-bpm/curo/pkg/cerr"
)

type Server struct {
	loginType string
}

func NewServer(loginType string) *Server {
	return &Server{loginType: loginType}
}

// PublicRoutes are served without authentication.
func (s *Server) PublicRoutes(r chi.Router) {
	r.Get("/auth/loginType", s.handleLoginType)
}

func (s *Server) Routes(r chi.Router) {
	r.Post("/auth/success", s.handleSuccess)
}

func (s *Server) handleLoginType(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), s.loginType)
}

func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := RequirePrincipal(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	slog.InfoContext(ctx, "user logged in", "user", p.UserID, "groups", p.Groups)
	cerr.SetJSONResponse(ctx, struct{}{})
}
