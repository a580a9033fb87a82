package task

import (
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/variable"
)

func fullTask() *Task {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	return &Task{
		ID:                  "t1",
		Name:                "Approve invoice",
		Description:         "Check the amount",
		Assignee:            "demo",
		Owner:               "mary",
		Created:             now,
		Due:                 &later,
		FollowUp:            &later,
		Completed:           &later,
		Priority:            50,
		ProcessDefinitionID: "invoice:1:abc",
		ProcessInstanceID:   "pi-1",
		ExecutionID:         "ex-1",
		TaskDefinitionKey:   "approve",
		FormKey:             "embedded:app:forms/approve.html",
		TenantID:            "acme",
		Suspended:           true,
		Historic:            true,
		Variables:           variable.Map{"amount": {Type: variable.TypeLong, Value: 30}},
	}
}

func projectedKeys(t *testing.T, resp *Response) []string {
	t.Helper()
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestProjectMatchesMask(t *testing.T) {
	all := schema.Names()
	tests := [][]string{
		nil,
		{AttributeID},
		{AttributeName, AttributeAssignee},
		{AttributeVariables, AttributeSuspended, AttributeDue},
		all,
	}
	for i := range all {
		tests = append(tests, all[:i+1])
	}

	for _, attrs := range tests {
		mask, err := ParseAttributes(attrs)
		require.NoError(t, err)

		got := projectedKeys(t, Project(fullTask(), mask))
		want := attrs
		if len(want) == 0 {
			want = all
		}
		want = append([]string(nil), want...)
		sort.Strings(want)
		assert.Equal(t, want, got, "attributes %v", attrs)
	}
}

func TestProjectOmitsNulls(t *testing.T) {
	keys := projectedKeys(t, Project(&Task{ID: "t2", Priority: 0}, nil))
	assert.Equal(t, []string{"historic", "id", "priority", "suspended"}, keys)
}

func TestParseAttributesCommaSeparated(t *testing.T) {
	mask, err := ParseAttributes([]string{"id,name", "assignee"})
	require.NoError(t, err)
	assert.Len(t, mask, 3)
	assert.False(t, mask.Has(AttributeOwner))
}

func TestParseAttributesUnknown(t *testing.T) {
	_, err := ParseAttributes([]string{"id,colour"})
	assert.Equal(t, cerr.InvalidArgument, cerr.CodeOf(err))
}
