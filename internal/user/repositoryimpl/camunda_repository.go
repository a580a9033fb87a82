package repositoryimpl

import (
	"context"
	"net/url"

	"github.com/curo-bpm/curo/internal/camunda"
	"github.com/curo-bpm/curo/internal/user"
)

type CamundaRepository struct {
	client *camunda.Client
}

func NewCamundaRepository(client *camunda.Client) *CamundaRepository {
	return &CamundaRepository{client: client}
}

type camundaUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (c camundaUser) toUser() *user.User {
	return &user.User{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email}
}

func (r *CamundaRepository) List(ctx context.Context, f user.Filter) ([]*user.User, error) {
	q := url.Values{"sortBy": {"userId"}, "sortOrder": {"asc"}}
	if f.GroupID != "" {
		q.Set("memberOfGroup", f.GroupID)
	}
	var cus []camundaUser
	if err := r.client.Get(ctx, "/user", q, &cus); err != nil {
		return nil, err
	}
	users := make([]*user.User, 0, len(cus))
	for _, cu := range cus {
		users = append(users, cu.toUser())
	}
	return users, nil
}

func (r *CamundaRepository) Get(ctx context.Context, id string) (*user.User, error) {
	var cu camundaUser
	if err := r.client.Get(ctx, "/user/"+url.PathEscape(id)+"/profile", nil, &cu); err != nil {
		return nil, camunda.NotFoundAs("user", err)
	}
	return cu.toUser(), nil
}

func (r *CamundaRepository) CheckPassword(ctx context.Context, id, password string) (bool, error) {
	var out struct {
		Authenticated bool `json:"authenticated"`
	}
	body := map[string]string{"username": id, "password": password}
	if err := r.client.Post(ctx, "/identity/verify", body, &out); err != nil {
		return false, err
	}
	return out.Authenticated, nil
}

func (r *CamundaRepository) Groups(ctx context.Context, userID string) ([]*user.Group, error) {
	var groups []*user.Group
	q := url.Values{"member": {userID}, "sortBy": {"id"}, "sortOrder": {"asc"}}
	if err := r.client.Get(ctx, "/group", q, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
