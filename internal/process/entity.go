package process

import (
	"time"

	"github.com/curo-bpm/curo/pkg/variable"
)

type Instance struct {
	ID            string       `yaml:"id" json:"id"`
	DefinitionID  string       `yaml:"definition_id" json:"definitionId"`
	DefinitionKey string       `yaml:"definition_key" json:"definitionKey"`
	BusinessKey   string       `yaml:"business_key,omitempty" json:"businessKey,omitempty"`
	Variables     variable.Map `yaml:"variables,omitempty" json:"variables,omitempty"`
	StartedAt     time.Time    `yaml:"started_at" json:"startedAt"`
}

// Definition describes a deployable process for the local engine. The local
// engine does not execute BPMN; starting an instance only opens StartTask.
type Definition struct {
	Key       string     `yaml:"key"`
	Name      string     `yaml:"name"`
	Version   int        `yaml:"version"`
	StartTask *StartTask `yaml:"start_task,omitempty"`
}

type StartTask struct {
	Key             string   `yaml:"key"`
	Name            string   `yaml:"name"`
	FormKey         string   `yaml:"form_key,omitempty"`
	CandidateGroups []string `yaml:"candidate_groups,omitempty"`
}
