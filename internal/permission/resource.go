package permission

import "slices"

// PermissionAll on a grant row covers every action of its resource type.
const PermissionAll = "ALL"

// Wildcard requests every action of a type, or every resource as a scope.
const Wildcard = "*"

// ResourceType is an engine resource type with the actions it supports, in
// the order permission lists are reported.
type ResourceType struct {
	Name    string
	Code    int
	Actions []string
}

var crud = []string{"READ", "UPDATE", "CREATE", "DELETE"}

// Resources is the catalogue of engine resource types. Codes are the
// engine-rest resourceType numbers.
var Resources = []ResourceType{
	{Name: "APPLICATION", Code: 0, Actions: []string{"ACCESS"}},
	{Name: "USER", Code: 1, Actions: crud},
	{Name: "GROUP", Code: 2, Actions: crud},
	{Name: "GROUP_MEMBERSHIP", Code: 3, Actions: []string{"CREATE", "DELETE"}},
	{Name: "AUTHORIZATION", Code: 4, Actions: crud},
	{Name: "FILTER", Code: 5, Actions: crud},
	{Name: "PROCESS_DEFINITION", Code: 6, Actions: []string{
		"READ", "UPDATE", "DELETE", "SUSPEND", "CREATE_INSTANCE", "READ_INSTANCE",
		"UPDATE_INSTANCE", "RETRY_JOB", "SUSPEND_INSTANCE", "DELETE_INSTANCE",
		"MIGRATE_INSTANCE", "READ_TASK", "UPDATE_TASK", "TASK_ASSIGN", "TASK_WORK",
		"READ_TASK_VARIABLE", "READ_HISTORY", "READ_HISTORY_VARIABLE", "DELETE_HISTORY",
		"READ_INSTANCE_VARIABLE", "UPDATE_INSTANCE_VARIABLE", "UPDATE_TASK_VARIABLE",
		"UPDATE_HISTORY",
	}},
	{Name: "TASK", Code: 7, Actions: []string{
		"READ", "UPDATE", "CREATE", "DELETE", "TASK_ASSIGN", "TASK_WORK",
		"UPDATE_VARIABLE", "READ_VARIABLE", "READ_HISTORY", "DELETE_HISTORY",
	}},
	{Name: "PROCESS_INSTANCE", Code: 8, Actions: []string{
		"READ", "UPDATE", "CREATE", "DELETE", "RETRY_JOB", "SUSPEND", "UPDATE_VARIABLE",
	}},
	{Name: "DEPLOYMENT", Code: 9, Actions: []string{"READ", "CREATE", "DELETE"}},
	{Name: "DECISION_DEFINITION", Code: 10, Actions: []string{
		"READ", "UPDATE", "CREATE_INSTANCE", "READ_HISTORY", "DELETE_HISTORY",
	}},
	{Name: "TENANT", Code: 11, Actions: crud},
	{Name: "TENANT_MEMBERSHIP", Code: 12, Actions: []string{"CREATE", "DELETE"}},
	{Name: "BATCH", Code: 13, Actions: []string{"READ", "UPDATE", "CREATE", "DELETE", "READ_HISTORY", "DELETE_HISTORY"}},
	{Name: "DECISION_REQUIREMENTS_DEFINITION", Code: 14, Actions: []string{"READ"}},
	{Name: "OPERATION_LOG_CATEGORY", Code: 17, Actions: []string{"READ", "UPDATE", "DELETE"}},
	{Name: "HISTORIC_TASK", Code: 19, Actions: []string{"READ", "READ_VARIABLE"}},
	{Name: "HISTORIC_PROCESS_INSTANCE", Code: 20, Actions: []string{"READ"}},
}

func LookupResource(name string) (ResourceType, bool) {
	i := slices.IndexFunc(Resources, func(r ResourceType) bool { return r.Name == name })
	if i < 0 {
		return ResourceType{}, false
	}
	return Resources[i], true
}

func LookupResourceCode(code int) (ResourceType, bool) {
	i := slices.IndexFunc(Resources, func(r ResourceType) bool { return r.Code == code })
	if i < 0 {
		return ResourceType{}, false
	}
	return Resources[i], true
}

func (r ResourceType) HasAction(action string) bool {
	return slices.Contains(r.Actions, action)
}
