// Package demo seeds the local engine with a demo user, groups, grants, a
// process definition and a task so a fresh checkout can be explored.
package demo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curo-bpm/curo/internal/permission"
	"github.com/curo-bpm/curo/internal/process"
	"github.com/curo-bpm/curo/internal/task"
	"github.com/curo-bpm/curo/internal/user"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/variable"
)

const (
	UserID     = "demo"
	Password   = "demo"
	AdminGroup = "admin"
)

type UserStore interface {
	Save(ctx context.Context, u *user.User) error
	SaveGroup(ctx context.Context, g *user.Group) error
}

type GrantStore interface {
	Save(ctx context.Context, g *permission.Grant) error
}

type DefinitionStore interface {
	SaveDefinition(ctx context.Context, d *process.Definition) error
}

type TaskStore interface {
	Create(ctx context.Context, t *task.Task) error
}

type Stores struct {
	Users       UserStore
	Grants      GrantStore
	Definitions DefinitionStore
	Tasks       TaskStore
	// HashPassword turns the demo password into the stored hash.
	HashPassword func(string) (string, error)
}

// Seed writes the demo data. Running it again overwrites the same records.
func Seed(ctx context.Context, s Stores) error {
	hash, err := s.HashPassword(Password)
	if err != nil {
		return err
	}
	if err := s.Users.SaveGroup(ctx, &user.Group{ID: AdminGroup, Name: "Administrators", Type: "SYSTEM"}); err != nil {
		return fmt.Errorf("failed to seed group: %w", err)
	}
	if err := s.Users.Save(ctx, &user.User{
		ID:           UserID,
		FirstName:    "Demo",
		LastName:     "Demo",
		Email:        "demo@example.com",
		PasswordHash: hash,
		Groups:       []string{AdminGroup},
	}); err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	grants := []*permission.Grant{
		{ID: "demo-global-definitions", Type: permission.GrantTypeGlobal, UserID: permission.Wildcard, ResourceType: "PROCESS_DEFINITION", ResourceID: permission.Wildcard, Permissions: []string{"READ"}},
		{ID: "demo-global-application", Type: permission.GrantTypeGlobal, UserID: permission.Wildcard, ResourceType: "APPLICATION", ResourceID: permission.Wildcard, Permissions: []string{"ACCESS"}},
	}
	for _, res := range permission.Resources {
		grants = append(grants, &permission.Grant{
			ID:           "demo-admin-" + res.Name,
			Type:         permission.GrantTypeGrant,
			GroupID:      AdminGroup,
			ResourceType: res.Name,
			ResourceID:   permission.Wildcard,
			Permissions:  []string{permission.PermissionAll},
		})
	}
	for _, g := range grants {
		if err := s.Grants.Save(ctx, g); err != nil {
			return fmt.Errorf("failed to seed grant %s: %w", g.ID, err)
		}
	}

	if err := s.Definitions.SaveDefinition(ctx, &process.Definition{
		Key:  "holiday",
		Name: "Holiday request",
		StartTask: &process.StartTask{
			Key:             "approveHoliday",
			Name:            "Approve holiday request",
			CandidateGroups: []string{AdminGroup},
		},
	}); err != nil {
		return fmt.Errorf("failed to seed process definition: %w", err)
	}

	welcome := &task.Task{
		ID:                "demo-welcome",
		Name:              "Welcome to Curo",
		Description:       "Open the task list and complete this task.",
		Assignee:          UserID,
		Priority:          task.DefaultPriority,
		TaskDefinitionKey: "welcome",
		Variables:         variable.Map{},
	}
	process.Title.Set(welcome.Variables, "Getting started")
	process.Initiator.Set(welcome.Variables, UserID)
	if err := s.Tasks.Create(ctx, welcome); err != nil && !cerr.IsCode(err, cerr.AlreadyExists) {
		return fmt.Errorf("failed to seed task: %w", err)
	}

	slog.InfoContext(ctx, "demo data seeded", "user", UserID, "grants", len(grants))
	return nil
}
