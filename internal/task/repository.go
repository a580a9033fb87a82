package task

import (
	"context"

	"github.com/curo-bpm/curo/pkg/variable"
)

type Repository interface {
	// Get returns a runtime task or a NotFound error.
	Get(ctx context.Context, id string) (*Task, error)
	// GetHistoric returns a completed task or a NotFound error.
	GetHistoric(ctx context.Context, id string) (*Task, error)
	// Variables loads the variables visible to t. A nil names slice loads all.
	Variables(ctx context.Context, t *Task, names []string) (variable.Map, error)
	List(ctx context.Context, f Filter) ([]*Task, int, error)
	// SetAssignee claims or reassigns a task. An empty assignee unclaims it.
	SetAssignee(ctx context.Context, id, assignee string) error
	Complete(ctx context.Context, id string, vars variable.Map) error
}
