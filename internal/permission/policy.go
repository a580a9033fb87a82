package permission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/curo-bpm/curo/pkg/storage"
)

// Rule lists who holds one application permission.
type Rule struct {
	Users  []string `yaml:"users"`
	Groups []string `yaml:"groups"`
}

// Policy holds the application permissions read from a YAML file of the form
//
//	manageProcesses:
//	  users: [demo]
//	  groups: [admin]
//
// A missing file is an empty policy.
type Policy struct {
	path  string
	rules atomic.Pointer[map[string]Rule]
}

func LoadPolicy(path string) (*Policy, error) {
	p := &Policy{path: path}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewStaticPolicy returns a policy that is never reloaded.
func NewStaticPolicy(rules map[string]Rule) *Policy {
	p := &Policy{}
	p.rules.Store(&rules)
	return p
}

func (p *Policy) Reload() error {
	rules := map[string]Rule{}
	if p.path != "" {
		data, err := os.ReadFile(p.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return fmt.Errorf("failed to read permission policy %s: %w", p.path, err)
		default:
			if err := yaml.Unmarshal(data, &rules); err != nil {
				return fmt.Errorf("failed to parse permission policy %s: %w", p.path, err)
			}
		}
	}
	if rules == nil {
		rules = map[string]Rule{}
	}
	p.rules.Store(&rules)
	return nil
}

// Evaluate reports every application permission for the user.
func (p *Policy) Evaluate(userID string, groups []string) map[string]bool {
	rules := *p.rules.Load()
	out := make(map[string]bool, len(rules))
	for name, rule := range rules {
		out[name] = slices.Contains(rule.Users, userID) ||
			slices.Contains(rule.Users, Wildcard) ||
			slices.ContainsFunc(rule.Groups, func(g string) bool { return slices.Contains(groups, g) })
	}
	return out
}

// Watch reloads the policy whenever its file changes, until ctx is done. A
// file that fails to parse keeps the previous policy.
func (p *Policy) Watch(ctx context.Context) error {
	if p.path == "" {
		<-ctx.Done()
		return nil
	}
	return storage.WatchFile(ctx, p.path, func() {
		if err := p.Reload(); err != nil {
			slog.Error("failed to reload permission policy", "path", p.path, "error", err)
			return
		}
		slog.Info("permission policy reloaded", "path", p.path)
	})
}
