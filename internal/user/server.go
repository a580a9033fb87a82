package user

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curo-bpm/curo/pkg/cerr"
)

type Server struct {
	repo Repository
}

func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/users", s.handleList)
}

// GetUsers lists users, optionally members of one group, projected to the
// requested attributes.
func (s *Server) GetUsers(ctx context.Context, attributes []string, groupID string) ([]*Response, error) {
	mask, err := ParseAttributes(attributes)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx, Filter{GroupID: groupID})
	if err != nil {
		return nil, err
	}
	out := make([]*Response, 0, len(users))
	for _, u := range users {
		out = append(out, Project(u, mask))
	}
	return out, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	resp, err := s.GetUsers(ctx, q["attributes"], q.Get("groupId"))
	cerr.Respond(ctx, resp, err)
}
