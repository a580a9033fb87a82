package process

import (
	"context"

	"github.com/curo-bpm/curo/pkg/variable"
)

type Repository interface {
	// Start starts the latest version of the definition with key.
	Start(ctx context.Context, key, businessKey string, vars variable.Map) (*Instance, error)
}
