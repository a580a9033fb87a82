package repositoryimpl

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/curo-bpm/curo/internal/permission"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/storage"
)

const authorizationsPrefix = "authorizations"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", authorizationsPrefix, id)
}

// Save stores a grant, assigning an id when it has none.
func (r *YAMLRepository) Save(ctx context.Context, g *permission.Grant) error {
	if g.ID == "" {
		g.ID = ulid.Make().String()
	}
	if _, ok := permission.LookupResource(g.ResourceType); !ok {
		return cerr.NewValidationError("invalid grant",
			cerr.NewFieldViolation("resourceType", g.ResourceType, "known resource type"))
	}
	data, err := yaml.Marshal(g)
	if err != nil {
		return cerr.WrapEncodeError("authorization", err)
	}
	if err := r.storage.Write(ctx, path(g.ID), data); err != nil {
		return cerr.WrapStorageWriteError("authorization", err)
	}
	return nil
}

// Grants returns every stored row; the evaluator decides which apply.
func (r *YAMLRepository) Grants(ctx context.Context, _ string, _ []string) ([]*permission.Grant, error) {
	paths, err := r.storage.List(ctx, authorizationsPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("authorizations", err)
	}
	grants := make([]*permission.Grant, 0, len(paths))
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			return nil, cerr.WrapStorageReadError("authorization", err)
		}
		var g permission.Grant
		if err := yaml.Unmarshal(data, &g); err != nil {
			return nil, cerr.WrapDecodeError("authorization", err)
		}
		grants = append(grants, &g)
	}
	return grants, nil
}
