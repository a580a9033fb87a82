package repositoryimpl

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/curo-bpm/curo/internal/user"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/storage"
)

const (
	usersPrefix  = "users"
	groupsPrefix = "groups"
)

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func userPath(id string) string {
	return fmt.Sprintf("%s/%s.yaml", usersPrefix, id)
}

func groupPath(id string) string {
	return fmt.Sprintf("%s/%s.yaml", groupsPrefix, id)
}

// HashPassword returns the bcrypt hash stored for local users.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Save creates or replaces a user.
func (r *YAMLRepository) Save(ctx context.Context, u *user.User) error {
	data, err := yaml.Marshal(u)
	if err != nil {
		return cerr.WrapEncodeError("user", err)
	}
	if err := r.storage.Write(ctx, userPath(u.ID), data); err != nil {
		return cerr.WrapStorageWriteError("user", err)
	}
	return nil
}

// SaveGroup creates or replaces a group.
func (r *YAMLRepository) SaveGroup(ctx context.Context, g *user.Group) error {
	data, err := yaml.Marshal(g)
	if err != nil {
		return cerr.WrapEncodeError("group", err)
	}
	if err := r.storage.Write(ctx, groupPath(g.ID), data); err != nil {
		return cerr.WrapStorageWriteError("group", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*user.User, error) {
	data, err := r.storage.Read(ctx, userPath(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("user", err)
	}
	var u user.User
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, cerr.WrapDecodeError("user", err)
	}
	return &u, nil
}

func (r *YAMLRepository) List(ctx context.Context, f user.Filter) ([]*user.User, error) {
	paths, err := r.storage.List(ctx, usersPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("users", err)
	}
	var users []*user.User
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var u user.User
		if err := yaml.Unmarshal(data, &u); err != nil {
			continue
		}
		if f.GroupID != "" && !slices.Contains(u.Groups, f.GroupID) {
			continue
		}
		users = append(users, &u)
	}
	return users, nil
}

func (r *YAMLRepository) CheckPassword(ctx context.Context, id, password string) (bool, error) {
	u, err := r.Get(ctx, id)
	if err != nil {
		if cerr.IsCode(err, cerr.NotFound) {
			return false, nil
		}
		return false, err
	}
	if u.PasswordHash == "" {
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to compare password hash: %w", err))
	}
	return true, nil
}

func (r *YAMLRepository) Groups(ctx context.Context, userID string) ([]*user.Group, error) {
	u, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups := make([]*user.Group, 0, len(u.Groups))
	for _, id := range u.Groups {
		g := &user.Group{ID: id, Name: id}
		data, err := r.storage.Read(ctx, groupPath(id))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, g); err != nil {
				return nil, cerr.WrapDecodeError("group", err)
			}
		case !errors.Is(err, storage.ErrNotFound):
			return nil, cerr.WrapStorageReadError("group", err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}
