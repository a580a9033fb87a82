package process

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/curo-bpm/curo/internal/auth"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/clog"
	"github.com/curo-bpm/curo/pkg/variable"
)

type Server struct {
	repo Repository
}

func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Routes(r chi.Router) {
	r.Post("/process-definitions/key/{key}/start", s.handleStart)
}

type StartRequest struct {
	BusinessKey string       `json:"businessKey"`
	Title       string       `json:"title"`
	Category    string       `json:"category"`
	Variables   variable.Map `json:"variables"`
}

// Start starts a process instance with the Curo variables set and the
// principal recorded as initiator.
func (s *Server) Start(ctx context.Context, key string, req StartRequest) (*Instance, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, cerr.NewValidationError("invalid start request",
			cerr.NewFieldViolation("title", req.Title, "non-empty string"))
	}

	vars := make(variable.Map, len(req.Variables)+3)
	for name, v := range req.Variables {
		vars[name] = v
	}
	Title.Set(vars, req.Title)
	if req.Category != "" {
		Category.Set(vars, req.Category)
	}
	Initiator.Set(vars, p.UserID)

	inst, err := s.repo.Start(ctx, key, req.BusinessKey, vars)
	if err != nil {
		return nil, err
	}
	clog.AddAttribute(ctx, "process_instance_id", inst.ID)
	return inst, nil
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req StartRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	resp, err := s.Start(ctx, chi.URLParam(r, "key"), req)
	cerr.Respond(ctx, resp, err)
}
