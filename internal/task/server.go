package task

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/curo-bpm/curo/internal/auth"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/clog"
	"github.com/curo-bpm/curo/pkg/projection"
	"github.com/curo-bpm/curo/pkg/variable"
)

// BusinessCodeAssignedToOther rejects completing a task claimed by someone else.
const BusinessCodeAssignedToOther = "TASK_ASSIGNED_TO_OTHER_USER"

type Server struct {
	repo Repository
}

func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/tasks", s.handleList)
	r.Get("/tasks/{id}", s.handleGet)
	r.Get("/tasks/{id}/file/{fileId}", s.handleGetFile)
	r.Put("/tasks/{id}/assignee", s.handleSetAssignee)
	r.Post("/tasks/{id}/complete", s.handleComplete)
}

type GetQuery struct {
	Attributes       []string
	Variables        []string
	LoadFromHistoric bool
}

// GetTask loads one task projected to the requested attributes. With
// LoadFromHistoric a task missing from the runtime is looked up in history.
func (s *Server) GetTask(ctx context.Context, id string, q GetQuery) (*Response, error) {
	mask, err := ParseAttributes(q.Attributes)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil && q.LoadFromHistoric && cerr.IsCode(err, cerr.NotFound) {
		t, err = s.repo.GetHistoric(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadVariables(ctx, t, mask, splitValues(q.Variables)); err != nil {
		return nil, err
	}
	return Project(t, mask), nil
}

func (s *Server) loadVariables(ctx context.Context, t *Task, mask projection.Mask, names []string) error {
	if !mask.Has(AttributeVariables) {
		t.Variables = nil
		return nil
	}
	vars, err := s.repo.Variables(ctx, t, names)
	if err != nil {
		return err
	}
	t.Variables = vars
	return nil
}

type ListQuery struct {
	Filter
	Attributes []string
}

type ListResponse struct {
	Items  []*Response `json:"items"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

func (s *Server) ListTasks(ctx context.Context, q ListQuery) (*ListResponse, error) {
	mask, err := ParseAttributes(q.Attributes)
	if err != nil {
		return nil, err
	}
	if q.Limit == 0 {
		q.Limit = DefaultListLimit
	}
	tasks, total, err := s.repo.List(ctx, q.Filter)
	if err != nil {
		return nil, err
	}
	items := make([]*Response, 0, len(tasks))
	for _, t := range tasks {
		if err := s.loadVariables(ctx, t, mask, nil); err != nil {
			return nil, err
		}
		items = append(items, Project(t, mask))
	}
	return &ListResponse{Items: items, Total: total, Offset: q.Offset, Limit: q.Limit}, nil
}

func (s *Server) SetAssignee(ctx context.Context, id string, assignee *string) (*Response, error) {
	var userID string
	if assignee != nil {
		userID = strings.TrimSpace(*assignee)
	}
	if err := s.repo.SetAssignee(ctx, id, userID); err != nil {
		return nil, err
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Variables = nil
	return Project(t, nil), nil
}

func (s *Server) CompleteTask(ctx context.Context, id string, vars variable.Map) error {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return err
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.Assignee != "" && t.Assignee != p.UserID {
		return cerr.NewBusinessError(cerr.FailedPrecondition, BusinessCodeAssignedToOther,
			"task is assigned to another user", nil)
	}
	if err := s.repo.Complete(ctx, id, vars); err != nil {
		return err
	}
	clog.AddAttribute(ctx, "task_id", id)
	return nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	historic, err := parseBool(q, "loadFromHistoric")
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	resp, err := s.GetTask(ctx, chi.URLParam(r, "id"), GetQuery{
		Attributes:       q["attributes"],
		Variables:        q["variables"],
		LoadFromHistoric: historic,
	})
	cerr.Respond(ctx, resp, err)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	cerr.SetNewJSONError(r.Context(), cerr.Unimplemented, "task attachments are not supported", nil)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	lq := ListQuery{
		Filter: Filter{
			Assignee:          q.Get("assignee"),
			ProcessInstanceID: q.Get("processInstanceId"),
			CandidateGroup:    q.Get("candidateGroup"),
		},
		Attributes: q["attributes"],
	}

	var verr *cerr.Error
	offset, ok := parseInt(q, "offset", 0, -1)
	if !ok {
		verr = addViolation(verr, cerr.NewFieldViolation("offset", q.Get("offset"), "non-negative integer"))
	}
	limit, ok := parseInt(q, "limit", DefaultListLimit, MaxListLimit)
	if !ok {
		verr = addViolation(verr, cerr.NewFieldViolation("limit", q.Get("limit"), "integer between 1 and "+strconv.Itoa(MaxListLimit)))
	}
	if verr != nil {
		cerr.SetJSONError(ctx, verr)
		return
	}
	lq.Offset, lq.Limit = offset, limit

	resp, err := s.ListTasks(ctx, lq)
	cerr.Respond(ctx, resp, err)
}

type setAssigneeRequest struct {
	Assignee *string `json:"assignee"`
}

func (s *Server) handleSetAssignee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req setAssigneeRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	resp, err := s.SetAssignee(ctx, chi.URLParam(r, "id"), req.Assignee)
	cerr.Respond(ctx, resp, err)
}

type completeRequest struct {
	Variables variable.Map `json:"variables"`
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req completeRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	err := s.CompleteTask(ctx, chi.URLParam(r, "id"), req.Variables)
	cerr.Respond(ctx, struct{}{}, err)
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseBool(q map[string][]string, key string) (bool, error) {
	vs := q[key]
	if len(vs) == 0 || vs[0] == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(vs[0])
	if err != nil {
		return false, cerr.NewValidationError("invalid query parameter",
			cerr.NewFieldViolation(key, vs[0], "true or false"))
	}
	return b, nil
}

// parseInt reads a non-negative integer; max < 0 means unbounded and a limit
// of zero is rejected when max is set.
func parseInt(q map[string][]string, key string, def, max int) (int, bool) {
	vs := q[key]
	if len(vs) == 0 || vs[0] == "" {
		return def, true
	}
	n, err := strconv.Atoi(vs[0])
	if err != nil || n < 0 {
		return 0, false
	}
	if max >= 0 && (n == 0 || n > max) {
		return 0, false
	}
	return n, true
}

func addViolation(verr *cerr.Error, v cerr.FieldViolation) *cerr.Error {
	if verr == nil {
		return cerr.NewValidationError("invalid query parameters", v)
	}
	return verr.AddViolation(v)
}
