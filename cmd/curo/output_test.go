package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curo-bpm/curo/internal/permission"
	"github.com/curo-bpm/curo/pkg/curoclient"
)

func init() {
	color.NoColor = true
}

func TestCredential(t *testing.T) {
	tests := []struct {
		name     string
		scheme   string
		user     string
		password string
		token    string
		want     string
		ok       bool
	}{
		{name: "curo basic", scheme: "CuroBasic", user: "demo", password: "demo", want: curoclient.CuroBasic("demo", "demo").Header(), ok: true},
		{name: "basic", scheme: "Basic", user: "demo", password: "demo", want: curoclient.Basic("demo", "demo").Header(), ok: true},
		{name: "bearer", scheme: "Bearer", token: "abc", want: "Bearer abc", ok: true},
		{name: "token without user", scheme: "CuroBasic", token: "abc", want: "Bearer abc", ok: true},
		{name: "bearer without token", scheme: "Bearer", user: "demo"},
		{name: "anonymous", scheme: "CuroBasic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, ok := credential(tt.scheme, tt.user, tt.password, tt.token)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, cred.Header())
			}
		})
	}
}

func TestStringVariables(t *testing.T) {
	assert.Nil(t, stringVariables(nil))
	vars := stringVariables(map[string]string{"approved": "yes"})
	assert.Equal(t, map[string]curoclient.Variable{
		"approved": {Type: "String", Value: "yes"},
	}, vars)
}

func TestPrinterJSON(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, true)
	called := false
	require.NoError(t, p.value(map[string]string{"loginType": "BASIC"}, func() { called = true }))
	assert.False(t, called)
	assert.JSONEq(t, `{"loginType":"BASIC"}`, buf.String())
}

func TestPrinterTasks(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false)
	p.tasks(&curoclient.TaskPage{
		Items:  []curoclient.Task{{ID: "t1", Name: "Approve"}, {ID: "t2", Name: "Review", Assignee: "demo"}},
		Total:  12,
		Offset: 10,
		Limit:  2,
	})
	out := buf.String()
	assert.Contains(t, out, "Approve")
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "11-12 of 12")
}

func TestPrinterTaskVariablesSorted(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false)
	p.task(&curoclient.Task{
		ID: "t1",
		Variables: map[string]curoclient.Variable{
			"zeta":  {Type: "String", Value: "z"},
			"alpha": {Type: "Integer", Value: 1},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "alpha (Integer) = 1")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("alpha")), bytes.Index(buf.Bytes(), []byte("zeta")))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &curoclient.APIError{
		StatusCode: 400,
		Model: curoclient.ErrorModel{
			Message:      "task is assigned to another user",
			BusinessCode: "TASK_ASSIGNED_TO_OTHER_USER",
			Violations:   []curoclient.FieldViolation{{FieldName: "limit", Value: "0", Expected: "1..500"}},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "error: 400 task is assigned to another user [TASK_ASSIGNED_TO_OTHER_USER]")
	assert.Contains(t, out, "limit: got 0, expected 1..500")

	buf.Reset()
	printError(&buf, fmt.Errorf("dial tcp: refused"))
	assert.Equal(t, "error: dial tcp: refused\n", buf.String())
}

func TestPermissionsExampleUsesWildcardScope(t *testing.T) {
	var req permission.Request
	require.NoError(t, json.Unmarshal([]byte(permissionsExample), &req))
	require.NoError(t, permission.Validate(req))
	assert.Contains(t, req, "*")
	assert.Len(t, req, 1)
}
