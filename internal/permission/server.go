package permission

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curo-bpm/curo/internal/auth"
	"github.com/curo-bpm/curo/pkg/cerr"
)

type Server struct {
	repo   Repository
	policy *Policy
}

func NewServer(repo Repository, policy *Policy) *Server {
	return &Server{repo: repo, policy: policy}
}

func (s *Server) Routes(r chi.Router) {
	r.Post("/auth/permissions", s.handleLoadPermissions)
}

// LoadPermissions resolves req for the authenticated principal.
func (s *Server) LoadPermissions(ctx context.Context, req Request) (*Permissions, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(req); err != nil {
		return nil, err
	}
	grants, err := s.repo.Grants(ctx, p.UserID, p.Groups)
	if err != nil {
		return nil, err
	}
	groups := p.Groups
	if groups == nil {
		groups = []string{}
	}
	return &Permissions{
		UserID:          p.UserID,
		Groups:          groups,
		Permissions:     Evaluate(req, p.UserID, p.Groups, grants),
		CuroPermissions: s.policy.Evaluate(p.UserID, p.Groups),
	}, nil
}

func (s *Server) handleLoadPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := Request{}
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	resp, err := s.LoadPermissions(ctx, req)
	cerr.Respond(ctx, resp, err)
}
