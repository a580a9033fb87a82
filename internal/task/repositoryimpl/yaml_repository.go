package repositoryimpl

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/curo-bpm/curo/internal/task"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/storage"
	"github.com/curo-bpm/curo/pkg/variable"
)

const (
	tasksPrefix   = "tasks"
	historyPrefix = "history/tasks"
)

// YAMLRepository keeps runtime tasks under tasks/ and moves them to
// history/tasks/ when they are completed.
type YAMLRepository struct {
	storage storage.Storage
	mu      sync.Mutex
	now     func() time.Time
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s, now: time.Now}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", tasksPrefix, id)
}

func historyPath(id string) string {
	return fmt.Sprintf("%s/%s.yaml", historyPrefix, id)
}

// Create stores a new runtime task, assigning an id and creation time when
// they are missing.
func (r *YAMLRepository) Create(ctx context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = ulid.Make().String()
	}
	if t.Created.IsZero() {
		t.Created = r.now()
	}
	exists, err := r.storage.Exists(ctx, path(t.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("task", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "task already exists", nil)
	}
	return r.write(ctx, path(t.ID), t)
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	return r.read(ctx, path(id))
}

func (r *YAMLRepository) GetHistoric(ctx context.Context, id string) (*task.Task, error) {
	t, err := r.read(ctx, historyPath(id))
	if err != nil {
		return nil, err
	}
	t.Historic = true
	return t, nil
}

func (r *YAMLRepository) Variables(ctx context.Context, t *task.Task, names []string) (variable.Map, error) {
	p := path(t.ID)
	if t.Historic {
		p = historyPath(t.ID)
	}
	stored, err := r.read(ctx, p)
	if err != nil {
		return nil, err
	}
	vars := stored.Variables.Names(names)
	if vars == nil {
		vars = variable.Map{}
	}
	return vars, nil
}

func (r *YAMLRepository) List(ctx context.Context, f task.Filter) ([]*task.Task, int, error) {
	paths, err := r.storage.List(ctx, tasksPrefix)
	if err != nil {
		return nil, 0, cerr.WrapStorageReadError("tasks", err)
	}

	var all []*task.Task
	for _, p := range paths {
		t, err := r.read(ctx, p)
		if err != nil {
			continue
		}
		if f.Assignee != "" && t.Assignee != f.Assignee {
			continue
		}
		if f.ProcessInstanceID != "" && t.ProcessInstanceID != f.ProcessInstanceID {
			continue
		}
		if f.CandidateGroup != "" && !slices.Contains(t.CandidateGroups, f.CandidateGroup) {
			continue
		}
		all = append(all, t)
	}

	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *YAMLRepository) SetAssignee(ctx context.Context, id, assignee string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.read(ctx, path(id))
	if err != nil {
		return err
	}
	t.Assignee = assignee
	return r.write(ctx, path(id), t)
}

func (r *YAMLRepository) Complete(ctx context.Context, id string, vars variable.Map) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.read(ctx, path(id))
	if err != nil {
		return err
	}
	if t.Suspended {
		return cerr.NewError(cerr.FailedPrecondition, "task is suspended", nil)
	}
	if len(vars) > 0 && t.Variables == nil {
		t.Variables = variable.Map{}
	}
	for name, v := range vars {
		t.Variables[name] = v
	}
	completed := r.now()
	t.Completed = &completed
	if err := r.write(ctx, path(id), t); err != nil {
		return err
	}
	if err := storage.Move(ctx, r.storage, path(id), historyPath(id)); err != nil {
		return cerr.WrapStorageWriteError("task", err)
	}
	return nil
}

func (r *YAMLRepository) read(ctx context.Context, p string) (*task.Task, error) {
	data, err := r.storage.Read(ctx, p)
	if err != nil {
		return nil, cerr.WrapStorageReadError("task", err)
	}
	var t task.Task
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, cerr.WrapDecodeError("task", err)
	}
	return &t, nil
}

func (r *YAMLRepository) write(ctx context.Context, p string, t *task.Task) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return cerr.WrapEncodeError("task", err)
	}
	if err := r.storage.Write(ctx, p, data); err != nil {
		return cerr.WrapStorageWriteError("task", err)
	}
	return nil
}
