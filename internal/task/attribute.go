package task

import (
	"time"

	"github.com/curo-bpm/curo/pkg/projection"
	"github.com/curo-bpm/curo/pkg/variable"
)

const (
	AttributeID                  = "id"
	AttributeName                = "name"
	AttributeDescription         = "description"
	AttributeAssignee            = "assignee"
	AttributeOwner               = "owner"
	AttributeCreated             = "created"
	AttributeDue                 = "due"
	AttributeFollowUp            = "followUp"
	AttributeCompleted           = "completed"
	AttributePriority            = "priority"
	AttributeProcessDefinitionID = "processDefinitionId"
	AttributeProcessInstanceID   = "processInstanceId"
	AttributeExecutionID         = "executionId"
	AttributeTaskDefinitionKey   = "taskDefinitionKey"
	AttributeFormKey             = "formKey"
	AttributeTenantID            = "tenantId"
	AttributeSuspended           = "suspended"
	AttributeHistoric            = "historic"
	AttributeVariables           = "variables"
)

// Response is the JSON shape of a task. Absent fields were either masked out
// or null in the engine.
type Response struct {
	ID                  *string      `json:"id,omitempty"`
	Name                *string      `json:"name,omitempty"`
	Description         *string      `json:"description,omitempty"`
	Assignee            *string      `json:"assignee,omitempty"`
	Owner               *string      `json:"owner,omitempty"`
	Created             *time.Time   `json:"created,omitempty"`
	Due                 *time.Time   `json:"due,omitempty"`
	FollowUp            *time.Time   `json:"followUp,omitempty"`
	Completed           *time.Time   `json:"completed,omitempty"`
	Priority            *int         `json:"priority,omitempty"`
	ProcessDefinitionID *string      `json:"processDefinitionId,omitempty"`
	ProcessInstanceID   *string      `json:"processInstanceId,omitempty"`
	ExecutionID         *string      `json:"executionId,omitempty"`
	TaskDefinitionKey   *string      `json:"taskDefinitionKey,omitempty"`
	FormKey             *string      `json:"formKey,omitempty"`
	TenantID            *string      `json:"tenantId,omitempty"`
	Suspended           *bool        `json:"suspended,omitempty"`
	Historic            *bool        `json:"historic,omitempty"`
	Variables           variable.Map `json:"variables,omitempty"`
}

type field = projection.Field[Task, Response]

var schema = projection.NewSchema(
	field{Name: AttributeID, Copy: func(d *Response, t *Task) { d.ID = projection.NonZero(t.ID) }},
	field{Name: AttributeName, Copy: func(d *Response, t *Task) { d.Name = projection.NonZero(t.Name) }},
	field{Name: AttributeDescription, Copy: func(d *Response, t *Task) { d.Description = projection.NonZero(t.Description) }},
	field{Name: AttributeAssignee, Copy: func(d *Response, t *Task) { d.Assignee = projection.NonZero(t.Assignee) }},
	field{Name: AttributeOwner, Copy: func(d *Response, t *Task) { d.Owner = projection.NonZero(t.Owner) }},
	field{Name: AttributeCreated, Copy: func(d *Response, t *Task) { d.Created = timePtr(t.Created) }},
	field{Name: AttributeDue, Copy: func(d *Response, t *Task) { d.Due = t.Due }},
	field{Name: AttributeFollowUp, Copy: func(d *Response, t *Task) { d.FollowUp = t.FollowUp }},
	field{Name: AttributeCompleted, Copy: func(d *Response, t *Task) { d.Completed = t.Completed }},
	field{Name: AttributePriority, Copy: func(d *Response, t *Task) { d.Priority = projection.Value(t.Priority) }},
	field{Name: AttributeProcessDefinitionID, Copy: func(d *Response, t *Task) { d.ProcessDefinitionID = projection.NonZero(t.ProcessDefinitionID) }},
	field{Name: AttributeProcessInstanceID, Copy: func(d *Response, t *Task) { d.ProcessInstanceID = projection.NonZero(t.ProcessInstanceID) }},
	field{Name: AttributeExecutionID, Copy: func(d *Response, t *Task) { d.ExecutionID = projection.NonZero(t.ExecutionID) }},
	field{Name: AttributeTaskDefinitionKey, Copy: func(d *Response, t *Task) { d.TaskDefinitionKey = projection.NonZero(t.TaskDefinitionKey) }},
	field{Name: AttributeFormKey, Copy: func(d *Response, t *Task) { d.FormKey = projection.NonZero(t.FormKey) }},
	field{Name: AttributeTenantID, Copy: func(d *Response, t *Task) { d.TenantID = projection.NonZero(t.TenantID) }},
	field{Name: AttributeSuspended, Copy: func(d *Response, t *Task) { d.Suspended = projection.Value(t.Suspended) }},
	field{Name: AttributeHistoric, Copy: func(d *Response, t *Task) { d.Historic = projection.Value(t.Historic) }},
	field{Name: AttributeVariables, Copy: func(d *Response, t *Task) { d.Variables = t.Variables }},
)

// ParseAttributes validates the attributes query values of a request.
func ParseAttributes(values []string) (projection.Mask, error) {
	return schema.Parse("attributes", values)
}

// Project copies the fields selected by mask into a Response.
func Project(t *Task, mask projection.Mask) *Response {
	return schema.Project(t, mask)
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
