package repositoryimpl

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/curo-bpm/curo/internal/camunda"
	"github.com/curo-bpm/curo/internal/task"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/variable"
)

// CamundaRepository reads and mutates tasks through engine-rest.
type CamundaRepository struct {
	client *camunda.Client
}

func NewCamundaRepository(client *camunda.Client) *CamundaRepository {
	return &CamundaRepository{client: client}
}

type camundaTask struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Description         string        `json:"description"`
	Assignee            string        `json:"assignee"`
	Owner               string        `json:"owner"`
	Created             *camunda.Time `json:"created"`
	Due                 *camunda.Time `json:"due"`
	FollowUp            *camunda.Time `json:"followUp"`
	Priority            int           `json:"priority"`
	ProcessDefinitionID string        `json:"processDefinitionId"`
	ProcessInstanceID   string        `json:"processInstanceId"`
	ExecutionID         string        `json:"executionId"`
	TaskDefinitionKey   string        `json:"taskDefinitionKey"`
	FormKey             string        `json:"formKey"`
	TenantID            string        `json:"tenantId"`
	Suspended           bool          `json:"suspended"`
}

func (c *camundaTask) toTask() *task.Task {
	t := &task.Task{
		ID:                  c.ID,
		Name:                c.Name,
		Description:         c.Description,
		Assignee:            c.Assignee,
		Owner:               c.Owner,
		Due:                 c.Due.Ptr(),
		FollowUp:            c.FollowUp.Ptr(),
		Priority:            c.Priority,
		ProcessDefinitionID: c.ProcessDefinitionID,
		ProcessInstanceID:   c.ProcessInstanceID,
		ExecutionID:         c.ExecutionID,
		TaskDefinitionKey:   c.TaskDefinitionKey,
		FormKey:             c.FormKey,
		TenantID:            c.TenantID,
		Suspended:           c.Suspended,
	}
	if c.Created != nil {
		t.Created = c.Created.Time
	}
	return t
}

type camundaHistoricTask struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Description         string        `json:"description"`
	Assignee            string        `json:"assignee"`
	Owner               string        `json:"owner"`
	StartTime           *camunda.Time `json:"startTime"`
	EndTime             *camunda.Time `json:"endTime"`
	Due                 *camunda.Time `json:"due"`
	FollowUp            *camunda.Time `json:"followUp"`
	Priority            int           `json:"priority"`
	ProcessDefinitionID string        `json:"processDefinitionId"`
	ProcessInstanceID   string        `json:"processInstanceId"`
	ExecutionID         string        `json:"executionId"`
	TaskDefinitionKey   string        `json:"taskDefinitionKey"`
	TenantID            string        `json:"tenantId"`
}

func (c *camundaHistoricTask) toTask() *task.Task {
	t := &task.Task{
		ID:                  c.ID,
		Name:                c.Name,
		Description:         c.Description,
		Assignee:            c.Assignee,
		Owner:               c.Owner,
		Due:                 c.Due.Ptr(),
		FollowUp:            c.FollowUp.Ptr(),
		Completed:           c.EndTime.Ptr(),
		Priority:            c.Priority,
		ProcessDefinitionID: c.ProcessDefinitionID,
		ProcessInstanceID:   c.ProcessInstanceID,
		ExecutionID:         c.ExecutionID,
		TaskDefinitionKey:   c.TaskDefinitionKey,
		TenantID:            c.TenantID,
		Historic:            true,
	}
	if c.StartTime != nil {
		t.Created = c.StartTime.Time
	}
	return t
}

type historicVariable struct {
	Name      string         `json:"name"`
	Type      variable.Type  `json:"type"`
	Value     any            `json:"value"`
	ValueInfo map[string]any `json:"valueInfo"`
}

func (r *CamundaRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	var ct camundaTask
	if err := r.client.Get(ctx, "/task/"+url.PathEscape(id), nil, &ct); err != nil {
		return nil, camunda.NotFoundAs("task", err)
	}
	return ct.toTask(), nil
}

func (r *CamundaRepository) GetHistoric(ctx context.Context, id string) (*task.Task, error) {
	var hts []camundaHistoricTask
	if err := r.client.Get(ctx, "/history/task", url.Values{"taskId": {id}}, &hts); err != nil {
		return nil, err
	}
	if len(hts) == 0 {
		return nil, cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return hts[0].toTask(), nil
}

func (r *CamundaRepository) Variables(ctx context.Context, t *task.Task, names []string) (variable.Map, error) {
	if t.Historic {
		return r.historicVariables(ctx, t, names)
	}
	// The engine returns every variable of the task; names are applied here.
	q := url.Values{"deserializeValues": {"false"}}
	vars := variable.Map{}
	if err := r.client.Get(ctx, "/task/"+url.PathEscape(t.ID)+"/variables", q, &vars); err != nil {
		return nil, camunda.NotFoundAs("task", err)
	}
	if len(names) > 0 {
		vars = vars.Names(names)
	}
	return vars, nil
}

func (r *CamundaRepository) historicVariables(ctx context.Context, t *task.Task, names []string) (variable.Map, error) {
	vars := variable.Map{}
	if t.ProcessInstanceID == "" {
		return vars, nil
	}
	q := url.Values{
		"processInstanceId": {t.ProcessInstanceID},
		"deserializeValues": {"false"},
	}
	if len(names) > 0 {
		q.Set("variableNameIn", strings.Join(names, ","))
	}
	var hvs []historicVariable
	if err := r.client.Get(ctx, "/history/variable-instance", q, &hvs); err != nil {
		return nil, err
	}
	for _, hv := range hvs {
		vars[hv.Name] = variable.Value{Type: hv.Type, Value: hv.Value, ValueInfo: hv.ValueInfo}
	}
	return vars, nil
}

func filterQuery(f task.Filter) url.Values {
	q := url.Values{}
	if f.Assignee != "" {
		q.Set("assignee", f.Assignee)
	}
	if f.ProcessInstanceID != "" {
		q.Set("processInstanceId", f.ProcessInstanceID)
	}
	if f.CandidateGroup != "" {
		q.Set("candidateGroup", f.CandidateGroup)
	}
	return q
}

func (r *CamundaRepository) List(ctx context.Context, f task.Filter) ([]*task.Task, int, error) {
	var count struct {
		Count int `json:"count"`
	}
	if err := r.client.Get(ctx, "/task/count", filterQuery(f), &count); err != nil {
		return nil, 0, err
	}

	q := filterQuery(f)
	q.Set("sortBy", "created")
	q.Set("sortOrder", "asc")
	q.Set("firstResult", strconv.Itoa(f.Offset))
	if f.Limit > 0 {
		q.Set("maxResults", strconv.Itoa(f.Limit))
	}
	var cts []camundaTask
	if err := r.client.Get(ctx, "/task", q, &cts); err != nil {
		return nil, 0, err
	}
	tasks := make([]*task.Task, 0, len(cts))
	for i := range cts {
		tasks = append(tasks, cts[i].toTask())
	}
	return tasks, count.Count, nil
}

func (r *CamundaRepository) SetAssignee(ctx context.Context, id, assignee string) error {
	body := map[string]any{"userId": nil}
	if assignee != "" {
		body["userId"] = assignee
	}
	if err := r.client.Post(ctx, "/task/"+url.PathEscape(id)+"/assignee", body, nil); err != nil {
		return camunda.NotFoundAs("task", err)
	}
	return nil
}

func (r *CamundaRepository) Complete(ctx context.Context, id string, vars variable.Map) error {
	if vars == nil {
		vars = variable.Map{}
	}
	body := map[string]any{"variables": vars}
	if err := r.client.Post(ctx, "/task/"+url.PathEscape(id)+"/complete", body, nil); err != nil {
		return camunda.NotFoundAs("task", err)
	}
	return nil
}
