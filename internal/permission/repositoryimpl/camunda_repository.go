package repositoryimpl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/curo-bpm/curo/internal/camunda"
	"github.com/curo-bpm/curo/internal/permission"
)

type CamundaRepository struct {
	client *camunda.Client
}

func NewCamundaRepository(client *camunda.Client) *CamundaRepository {
	return &CamundaRepository{client: client}
}

// engine-rest authorization types
const (
	camundaGlobal = 0
	camundaGrant  = 1
	camundaRevoke = 2
)

type camundaAuthorization struct {
	ID           string   `json:"id"`
	Type         int      `json:"type"`
	Permissions  []string `json:"permissions"`
	UserID       string   `json:"userId"`
	GroupID      string   `json:"groupId"`
	ResourceType int      `json:"resourceType"`
	ResourceID   string   `json:"resourceId"`
}

func (c camundaAuthorization) toGrant() (*permission.Grant, bool) {
	res, ok := permission.LookupResourceCode(c.ResourceType)
	if !ok {
		return nil, false
	}
	g := &permission.Grant{
		ID:           c.ID,
		UserID:       c.UserID,
		GroupID:      c.GroupID,
		ResourceType: res.Name,
		ResourceID:   c.ResourceID,
		Permissions:  c.Permissions,
	}
	switch c.Type {
	case camundaGlobal:
		g.Type = permission.GrantTypeGlobal
	case camundaGrant:
		g.Type = permission.GrantTypeGrant
	case camundaRevoke:
		g.Type = permission.GrantTypeRevoke
	default:
		return nil, false
	}
	return g, true
}

// Grants queries user rows (global rows carry userId "*") and group rows
// separately since engine-rest combines query parameters with AND.
func (r *CamundaRepository) Grants(ctx context.Context, userID string, groups []string) ([]*permission.Grant, error) {
	queries := []url.Values{{"userIdIn": {userID + "," + permission.Wildcard}}}
	if len(groups) > 0 {
		queries = append(queries, url.Values{"groupIdIn": {strings.Join(groups, ",")}})
	}

	seen := map[string]struct{}{}
	var grants []*permission.Grant
	for _, q := range queries {
		var rows []camundaAuthorization
		if err := r.client.Get(ctx, "/authorization", q, &rows); err != nil {
			return nil, err
		}
		for _, row := range rows {
			if _, dup := seen[row.ID]; dup {
				continue
			}
			seen[row.ID] = struct{}{}
			g, ok := row.toGrant()
			if !ok {
				slog.DebugContext(ctx, "skipping unsupported authorization", "id", row.ID, "resource_type", row.ResourceType)
				continue
			}
			grants = append(grants, g)
		}
	}
	return grants, nil
}
