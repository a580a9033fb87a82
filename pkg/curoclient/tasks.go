package curoclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Variable struct {
	Type      string         `json:"type"`
	Value     any            `json:"value"`
	ValueInfo map[string]any `json:"valueInfo,omitempty"`
}

type Task struct {
	ID                  string              `json:"id,omitempty"`
	Name                string              `json:"name,omitempty"`
	Description         string              `json:"description,omitempty"`
	Assignee            string              `json:"assignee,omitempty"`
	Owner               string              `json:"owner,omitempty"`
	Created             *time.Time          `json:"created,omitempty"`
	Due                 *time.Time          `json:"due,omitempty"`
	FollowUp            *time.Time          `json:"followUp,omitempty"`
	Completed           *time.Time          `json:"completed,omitempty"`
	Priority            *int                `json:"priority,omitempty"`
	ProcessDefinitionID string              `json:"processDefinitionId,omitempty"`
	ProcessInstanceID   string              `json:"processInstanceId,omitempty"`
	ExecutionID         string              `json:"executionId,omitempty"`
	TaskDefinitionKey   string              `json:"taskDefinitionKey,omitempty"`
	FormKey             string              `json:"formKey,omitempty"`
	TenantID            string              `json:"tenantId,omitempty"`
	Suspended           *bool               `json:"suspended,omitempty"`
	Historic            *bool               `json:"historic,omitempty"`
	Variables           map[string]Variable `json:"variables,omitempty"`
}

type TaskPage struct {
	Items  []Task `json:"items"`
	Total  int    `json:"total"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetTaskOptions struct {
	Attributes       []string
	Variables        []string
	LoadFromHistoric bool
}

func (c *Client) GetTask(ctx context.Context, id string, opts GetTaskOptions) (*Task, error) {
	q := url.Values{}
	for _, a := range opts.Attributes {
		q.Add("attributes", a)
	}
	for _, v := range opts.Variables {
		q.Add("variables", v)
	}
	if opts.LoadFromHistoric {
		q.Set("loadFromHistoric", "true")
	}
	var t Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), q, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

type ListTasksOptions struct {
	Assignee          string
	ProcessInstanceID string
	CandidateGroup    string
	Attributes        []string
	Offset            int
	Limit             int
}

func (c *Client) ListTasks(ctx context.Context, opts ListTasksOptions) (*TaskPage, error) {
	q := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	setIf("assignee", opts.Assignee)
	setIf("processInstanceId", opts.ProcessInstanceID)
	setIf("candidateGroup", opts.CandidateGroup)
	for _, a := range opts.Attributes {
		q.Add("attributes", a)
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	var page TaskPage
	if err := c.do(ctx, http.MethodGet, "/tasks", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetAssignee claims a task for assignee, or unclaims it when assignee is nil.
func (c *Client) SetAssignee(ctx context.Context, id string, assignee *string) (*Task, error) {
	body := map[string]*string{"assignee": assignee}
	var t Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id)+"/assignee", nil, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CompleteTask(ctx context.Context, id string, vars map[string]Variable) error {
	body := map[string]any{"variables": vars}
	return c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/complete", nil, body, nil)
}

type StartProcessRequest struct {
	BusinessKey string              `json:"businessKey,omitempty"`
	Title       string              `json:"title"`
	Category    string              `json:"category,omitempty"`
	Variables   map[string]Variable `json:"variables,omitempty"`
}

type ProcessInstance struct {
	ID            string              `json:"id"`
	DefinitionID  string              `json:"definitionId"`
	DefinitionKey string              `json:"definitionKey"`
	BusinessKey   string              `json:"businessKey,omitempty"`
	Variables     map[string]Variable `json:"variables,omitempty"`
	StartedAt     time.Time           `json:"startedAt"`
}

func (c *Client) StartProcess(ctx context.Context, key string, req StartProcessRequest) (*ProcessInstance, error) {
	var inst ProcessInstance
	if err := c.do(ctx, http.MethodPost, "/process-definitions/key/"+url.PathEscape(key)+"/start", nil, req, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}
