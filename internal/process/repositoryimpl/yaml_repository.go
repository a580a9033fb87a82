package repositoryimpl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/curo-bpm/curo/internal/process"
	"github.com/curo-bpm/curo/internal/task"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/storage"
	"github.com/curo-bpm/curo/pkg/variable"
)

const (
	definitionsPrefix = "process-definitions"
	instancesPrefix   = "process-instances"
)

// TaskCreator opens the start task of a new instance.
type TaskCreator interface {
	Create(ctx context.Context, t *task.Task) error
}

type YAMLRepository struct {
	storage storage.Storage
	tasks   TaskCreator
}

func NewYAMLRepository(s storage.Storage, tasks TaskCreator) *YAMLRepository {
	return &YAMLRepository{storage: s, tasks: tasks}
}

func definitionPath(key string) string {
	return fmt.Sprintf("%s/%s.yaml", definitionsPrefix, key)
}

func instancePath(id string) string {
	return fmt.Sprintf("%s/%s.yaml", instancesPrefix, id)
}

func (r *YAMLRepository) SaveDefinition(ctx context.Context, d *process.Definition) error {
	if d.Version == 0 {
		d.Version = 1
	}
	data, err := yaml.Marshal(d)
	if err != nil {
		return cerr.WrapEncodeError("process definition", err)
	}
	if err := r.storage.Write(ctx, definitionPath(d.Key), data); err != nil {
		return cerr.WrapStorageWriteError("process definition", err)
	}
	return nil
}

func (r *YAMLRepository) Start(ctx context.Context, key, businessKey string, vars variable.Map) (*process.Instance, error) {
	data, err := r.storage.Read(ctx, definitionPath(key))
	if err != nil {
		return nil, cerr.WrapStorageReadError("process definition", err)
	}
	var def process.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, cerr.WrapDecodeError("process definition", err)
	}

	id := ulid.Make().String()
	inst := &process.Instance{
		ID:            id,
		DefinitionID:  fmt.Sprintf("%s:%d:%s", def.Key, def.Version, id),
		DefinitionKey: def.Key,
		BusinessKey:   businessKey,
		Variables:     vars,
		StartedAt:     time.Now(),
	}
	data, err = yaml.Marshal(inst)
	if err != nil {
		return nil, cerr.WrapEncodeError("process instance", err)
	}
	if err := r.storage.Write(ctx, instancePath(id), data); err != nil {
		return nil, cerr.WrapStorageWriteError("process instance", err)
	}

	if def.StartTask != nil && r.tasks != nil {
		t := &task.Task{
			Name:                def.StartTask.Name,
			CandidateGroups:     def.StartTask.CandidateGroups,
			Priority:            task.DefaultPriority,
			ProcessDefinitionID: inst.DefinitionID,
			ProcessInstanceID:   inst.ID,
			ExecutionID:         inst.ID,
			TaskDefinitionKey:   def.StartTask.Key,
			FormKey:             def.StartTask.FormKey,
			Variables:           vars,
		}
		if err := r.tasks.Create(ctx, t); err != nil {
			// An instance without its start task is unreachable; drop it.
			if delErr := r.storage.Delete(ctx, instancePath(id)); delErr != nil {
				slog.WarnContext(ctx, "failed to remove process instance", "instance_id", id, "error", delErr)
			}
			return nil, err
		}
	}
	return inst, nil
}
