package task

import (
	"time"

	"github.com/curo-bpm/curo/pkg/variable"
)

type Task struct {
	ID                  string       `yaml:"id"`
	Name                string       `yaml:"name"`
	Description         string       `yaml:"description,omitempty"`
	Assignee            string       `yaml:"assignee,omitempty"`
	Owner               string       `yaml:"owner,omitempty"`
	CandidateGroups     []string     `yaml:"candidate_groups,omitempty"`
	Created             time.Time    `yaml:"created"`
	Due                 *time.Time   `yaml:"due,omitempty"`
	FollowUp            *time.Time   `yaml:"follow_up,omitempty"`
	Completed           *time.Time   `yaml:"completed,omitempty"`
	Priority            int          `yaml:"priority"`
	ProcessDefinitionID string       `yaml:"process_definition_id,omitempty"`
	ProcessInstanceID   string       `yaml:"process_instance_id,omitempty"`
	ExecutionID         string       `yaml:"execution_id,omitempty"`
	TaskDefinitionKey   string       `yaml:"task_definition_key,omitempty"`
	FormKey             string       `yaml:"form_key,omitempty"`
	TenantID            string       `yaml:"tenant_id,omitempty"`
	Suspended           bool         `yaml:"suspended"`
	Variables           variable.Map `yaml:"variables,omitempty"`

	// Historic is set on tasks loaded from history.
	Historic bool `yaml:"-"`
}

// DefaultPriority is the engine's priority for tasks created without one.
const DefaultPriority = 50

// Filter narrows List. Empty fields do not filter.
type Filter struct {
	Assignee          string
	ProcessInstanceID string
	CandidateGroup    string
	Offset            int
	Limit             int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)
