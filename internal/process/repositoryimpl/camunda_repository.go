package repositoryimpl

import (
	"context"
	"net/url"
	"time"

	"github.com/curo-bpm/curo/internal/camunda"
	"github.com/curo-bpm/curo/internal/process"
	"github.com/curo-bpm/curo/pkg/variable"
)

type CamundaRepository struct {
	client *camunda.Client
}

func NewCamundaRepository(client *camunda.Client) *CamundaRepository {
	return &CamundaRepository{client: client}
}

type startRequest struct {
	BusinessKey string       `json:"businessKey,omitempty"`
	Variables   variable.Map `json:"variables"`
}

type camundaInstance struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definitionId"`
	BusinessKey  string `json:"businessKey"`
}

func (r *CamundaRepository) Start(ctx context.Context, key, businessKey string, vars variable.Map) (*process.Instance, error) {
	if vars == nil {
		vars = variable.Map{}
	}
	var ci camundaInstance
	req := startRequest{BusinessKey: businessKey, Variables: vars}
	if err := r.client.Post(ctx, "/process-definition/key/"+url.PathEscape(key)+"/start", req, &ci); err != nil {
		return nil, camunda.NotFoundAs("process definition", err)
	}
	return &process.Instance{
		ID:            ci.ID,
		DefinitionID:  ci.DefinitionID,
		DefinitionKey: key,
		BusinessKey:   ci.BusinessKey,
		Variables:     vars,
		StartedAt:     time.Now(),
	}, nil
}
