package permission

import (
	"slices"

	"github.com/curo-bpm/curo/pkg/cerr"
)

// Validate checks every resource type and action of req against the
// catalogue. Violations are reported per "<scope>.<TYPE>".
func Validate(req Request) error {
	var verr *cerr.Error
	add := func(v cerr.FieldViolation) {
		if verr == nil {
			verr = cerr.NewValidationError("invalid permission request")
		}
		verr.AddViolation(v)
	}
	for _, scope := range sortedKeys(req) {
		types := req[scope]
		for _, typ := range sortedKeys(types) {
			field := scope + "." + typ
			res, ok := LookupResource(typ)
			if !ok {
				add(cerr.NewFieldViolation(field, typ, "known resource type"))
				continue
			}
			for _, action := range types[typ] {
				if action != Wildcard && !res.HasAction(action) {
					add(cerr.NewFieldViolation(field, action, "\"*\" or an action of "+typ))
				}
			}
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}

// Evaluate resolves req against grants for userID and groups. req must be
// valid. Every requested scope and type appears in the result; action lists
// keep catalogue order.
func Evaluate(req Request, userID string, groups []string, grants []*Grant) Request {
	var applicable []*Grant
	for _, g := range grants {
		if applies(g, userID, groups) {
			applicable = append(applicable, g)
		}
	}

	out := make(Request, len(req))
	for scope, types := range req {
		out[scope] = make(map[string][]string, len(types))
		for typ, requested := range types {
			res, _ := LookupResource(typ)
			granted := []string{}
			for _, action := range res.Actions {
				if !slices.Contains(requested, Wildcard) && !slices.Contains(requested, action) {
					continue
				}
				if isGranted(applicable, typ, scope, action) {
					granted = append(granted, action)
				}
			}
			out[scope][typ] = granted
		}
	}
	return out
}

func applies(g *Grant, userID string, groups []string) bool {
	if g.Type == GrantTypeGlobal {
		return true
	}
	if g.UserID != "" && (g.UserID == userID || g.UserID == Wildcard) {
		return true
	}
	return g.GroupID != "" && slices.Contains(groups, g.GroupID)
}

func isGranted(grants []*Grant, typ, scope, action string) bool {
	granted := false
	for _, g := range grants {
		if g.ResourceType != typ || !matchesScope(g, scope) || !covers(g, action) {
			continue
		}
		if g.Type == GrantTypeRevoke {
			return false
		}
		granted = true
	}
	return granted
}

// matchesScope treats "*" rows as matching every scope. A "*" scope only
// matches "*" rows.
func matchesScope(g *Grant, scope string) bool {
	return g.ResourceID == Wildcard || g.ResourceID == scope
}

func covers(g *Grant, action string) bool {
	return slices.Contains(g.Permissions, PermissionAll) || slices.Contains(g.Permissions, action)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
