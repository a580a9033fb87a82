package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/curo-bpm/curo/pkg/curoclient"
)

var (
	headerColor  = color.New(color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed, color.Bold)
	grantedColor = color.New(color.FgGreen)
	deniedColor  = color.New(color.FgHiBlack)
)

type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	return &printer{w: w, json: asJSON}
}

// value prints v as indented JSON in json mode, otherwise calls human.
func (p *printer) value(v any, human func()) error {
	if !p.json {
		human()
		return nil
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *printer) success(s string) {
	successColor.Fprintln(p.w, s)
}

func (p *printer) users(users []curoclient.User) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(tw, "ID\tFIRST NAME\tLAST NAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.FirstName, u.LastName, u.Email)
	}
	tw.Flush()
}

func (p *printer) tasks(page *curoclient.TaskPage) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(tw, "ID\tNAME\tASSIGNEE\tCREATED")
	for _, t := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Name, orDash(t.Assignee), formatTime(t.Created))
	}
	tw.Flush()
	fmt.Fprintf(p.w, "%d-%d of %d\n", page.Offset+min(1, len(page.Items)), page.Offset+len(page.Items), page.Total)
}

func (p *printer) task(t *curoclient.Task) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s\t%s\n", headerColor.Sprint(k), v)
		}
	}
	row("id", t.ID)
	row("name", t.Name)
	row("description", t.Description)
	row("assignee", t.Assignee)
	row("owner", t.Owner)
	row("created", formatTimeOrEmpty(t.Created))
	row("due", formatTimeOrEmpty(t.Due))
	row("followUp", formatTimeOrEmpty(t.FollowUp))
	row("completed", formatTimeOrEmpty(t.Completed))
	if t.Priority != nil {
		row("priority", fmt.Sprint(*t.Priority))
	}
	row("processDefinitionId", t.ProcessDefinitionID)
	row("processInstanceId", t.ProcessInstanceID)
	row("taskDefinitionKey", t.TaskDefinitionKey)
	row("formKey", t.FormKey)
	if t.Historic != nil && *t.Historic {
		row("historic", "true")
	}
	tw.Flush()

	if len(t.Variables) == 0 {
		return
	}
	headerColor.Fprintln(p.w, "variables:")
	names := make([]string, 0, len(t.Variables))
	for name := range t.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := t.Variables[name]
		fmt.Fprintf(p.w, "  %s (%s) = %v\n", name, v.Type, v.Value)
	}
}

func (p *printer) permissions(perms *curoclient.Permissions) {
	fmt.Fprintf(p.w, "%s %s\n", headerColor.Sprint("user:"), perms.UserID)
	fmt.Fprintf(p.w, "%s %s\n", headerColor.Sprint("groups:"), strings.Join(perms.Groups, ", "))
	for _, scope := range sortedKeys(perms.Permissions) {
		headerColor.Fprintf(p.w, "%s:\n", scope)
		resources := perms.Permissions[scope]
		for _, res := range sortedKeys(resources) {
			actions := resources[res]
			if len(actions) == 0 {
				fmt.Fprintf(p.w, "  %s %s\n", res, deniedColor.Sprint("(none)"))
				continue
			}
			fmt.Fprintf(p.w, "  %s %s\n", res, grantedColor.Sprint(strings.Join(actions, ", ")))
		}
	}
	if len(perms.CuroPermissions) > 0 {
		headerColor.Fprintln(p.w, "curo:")
		for _, name := range sortedKeys(perms.CuroPermissions) {
			c := deniedColor
			if perms.CuroPermissions[name] {
				c = grantedColor
			}
			fmt.Fprintf(p.w, "  %s\n", c.Sprint(name))
		}
	}
}

func printError(w io.Writer, err error) {
	var apiErr *curoclient.APIError
	if !errors.As(err, &apiErr) {
		errorColor.Fprintf(w, "error: %v\n", err)
		return
	}
	m := apiErr.Model
	msg := m.Message
	if m.BusinessCode != "" {
		msg = fmt.Sprintf("%s [%s]", msg, m.BusinessCode)
	}
	errorColor.Fprintf(w, "error: %d %s\n", apiErr.StatusCode, msg)
	for _, v := range m.Violations {
		fmt.Fprintf(w, "  %s: got %v, expected %s\n", v.FieldName, v.Value, v.Expected)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatTimeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(t)
}
