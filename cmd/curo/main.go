package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/curo-bpm/curo/pkg/curoclient"
)

// permissionsExample asks for READ on process definitions in the "*" scope.
const permissionsExample = `{"*":{"PROCESS_DEFINITION":["READ"]}}`

var (
	app = kingpin.New("curo", "Command line client for the Curo BPM backend")

	baseURL  = app.Flag("url", "Base URL of the Curo API").Envar("CURO_URL").Default("http://localhost:8090/api").String()
	userID   = app.Flag("user", "User to authenticate as").Short('u').Envar("CURO_USER").String()
	password = app.Flag("password", "Password of the user").Envar("CURO_PASSWORD").String()
	token    = app.Flag("token", "Bearer token, used instead of user and password").Envar("CURO_TOKEN").String()
	scheme   = app.Flag("scheme", "Authorization scheme").Default("CuroBasic").Enum("CuroBasic", "Basic", "Bearer")
	asJSON   = app.Flag("json", "Print raw JSON").Bool()

	loginTypeCmd = app.Command("login-type", "Show the configured login type")

	confirmCmd = app.Command("confirm", "Confirm that the credentials are accepted")

	permissionsCmd     = app.Command("permissions", "Evaluate permissions for the current user")
	permissionsRequest = permissionsCmd.Arg("request", "Permission request as JSON, e.g. "+permissionsExample).Default("{}").String()

	usersCmd        = app.Command("users", "List users")
	usersGroup      = usersCmd.Flag("group", "Only users of this group").Short('g').String()
	usersAttributes = usersCmd.Flag("attribute", "Attribute to return (repeatable)").Short('a').Strings()

	taskCmd        = app.Command("task", "Show a task")
	taskID         = taskCmd.Arg("id", "Task ID").Required().String()
	taskAttributes = taskCmd.Flag("attribute", "Attribute to return (repeatable)").Short('a').Strings()
	taskVariables  = taskCmd.Flag("variable", "Variable to load (repeatable)").Short('v').Strings()
	taskHistoric   = taskCmd.Flag("historic", "Fall back to the task history").Bool()

	tasksCmd            = app.Command("tasks", "List open tasks")
	tasksAssignee       = tasksCmd.Flag("assignee", "Filter by assignee").String()
	tasksCandidateGroup = tasksCmd.Flag("candidate-group", "Filter by candidate group").String()
	tasksProcess        = tasksCmd.Flag("process-instance", "Filter by process instance").String()
	tasksOffset         = tasksCmd.Flag("offset", "Index of the first task").Int()
	tasksLimit          = tasksCmd.Flag("limit", "Maximum number of tasks").Int()

	claimCmd      = app.Command("claim", "Assign a task to a user")
	claimID       = claimCmd.Arg("id", "Task ID").Required().String()
	claimAssignee = claimCmd.Arg("assignee", "Assignee, defaults to the current user").String()

	unclaimCmd = app.Command("unclaim", "Remove the assignee of a task")
	unclaimID  = unclaimCmd.Arg("id", "Task ID").Required().String()

	completeCmd  = app.Command("complete", "Complete a task")
	completeID   = completeCmd.Arg("id", "Task ID").Required().String()
	completeVars = completeCmd.Flag("set", "Variable as name=value (repeatable)").Short('s').StringMap()

	startCmd      = app.Command("start", "Start a process instance")
	startKey      = startCmd.Arg("key", "Process definition key").Required().String()
	startTitle    = startCmd.Flag("title", "Title of the instance").Required().String()
	startCategory = startCmd.Flag("category", "Category of the instance").String()
	startBusiness = startCmd.Flag("business-key", "Business key").String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := newClient()
	if err != nil {
		app.Fatalf("%v", err)
	}
	out := newPrinter(os.Stdout, *asJSON)

	if err := run(ctx, command, client, out); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() (*curoclient.Client, error) {
	var opts []curoclient.Option
	if cred, ok := credential(*scheme, *userID, *password, *token); ok {
		opts = append(opts, curoclient.WithCredential(cred))
	}
	return curoclient.New(*baseURL, opts...)
}

func credential(scheme, user, password, token string) (curoclient.Credential, bool) {
	switch {
	case scheme == "Bearer" || (token != "" && user == ""):
		if token == "" {
			return curoclient.Credential{}, false
		}
		return curoclient.Bearer(token), true
	case user == "":
		return curoclient.Credential{}, false
	case scheme == "Basic":
		return curoclient.Basic(user, password), true
	default:
		return curoclient.CuroBasic(user, password), true
	}
}

func run(ctx context.Context, command string, client *curoclient.Client, out *printer) error {
	switch command {
	case loginTypeCmd.FullCommand():
		loginType, err := client.LoginType(ctx)
		if err != nil {
			return err
		}
		return out.value(loginType, func() { out.line(loginType) })

	case confirmCmd.FullCommand():
		resp, err := client.ConfirmAuthSuccess(ctx)
		if err != nil {
			return err
		}
		return out.value(resp, func() { out.success("credentials accepted") })

	case permissionsCmd.FullCommand():
		var req curoclient.PermissionRequest
		if err := json.Unmarshal([]byte(*permissionsRequest), &req); err != nil {
			return fmt.Errorf("invalid permission request: %w", err)
		}
		perms, err := client.LoadPermissions(ctx, req)
		if err != nil {
			return err
		}
		return out.value(perms, func() { out.permissions(perms) })

	case usersCmd.FullCommand():
		var (
			users []curoclient.User
			err   error
		)
		if *usersGroup != "" {
			users, err = client.GetGroupUsers(ctx, *usersGroup, *usersAttributes...)
		} else {
			users, err = client.GetUsers(ctx, *usersAttributes...)
		}
		if err != nil {
			return err
		}
		return out.value(users, func() { out.users(users) })

	case taskCmd.FullCommand():
		t, err := client.GetTask(ctx, *taskID, curoclient.GetTaskOptions{
			Attributes:       *taskAttributes,
			Variables:        *taskVariables,
			LoadFromHistoric: *taskHistoric,
		})
		if err != nil {
			return err
		}
		return out.value(t, func() { out.task(t) })

	case tasksCmd.FullCommand():
		page, err := client.ListTasks(ctx, curoclient.ListTasksOptions{
			Assignee:          *tasksAssignee,
			CandidateGroup:    *tasksCandidateGroup,
			ProcessInstanceID: *tasksProcess,
			Offset:            *tasksOffset,
			Limit:             *tasksLimit,
		})
		if err != nil {
			return err
		}
		return out.value(page, func() { out.tasks(page) })

	case claimCmd.FullCommand():
		assignee := *claimAssignee
		if assignee == "" {
			assignee = *userID
		}
		if assignee == "" {
			return fmt.Errorf("no assignee given and no --user set")
		}
		t, err := client.SetAssignee(ctx, *claimID, &assignee)
		if err != nil {
			return err
		}
		return out.value(t, func() { out.success(fmt.Sprintf("task %s assigned to %s", t.ID, t.Assignee)) })

	case unclaimCmd.FullCommand():
		t, err := client.SetAssignee(ctx, *unclaimID, nil)
		if err != nil {
			return err
		}
		return out.value(t, func() { out.success(fmt.Sprintf("task %s unassigned", t.ID)) })

	case completeCmd.FullCommand():
		if err := client.CompleteTask(ctx, *completeID, stringVariables(*completeVars)); err != nil {
			return err
		}
		out.success(fmt.Sprintf("task %s completed", *completeID))
		return nil

	case startCmd.FullCommand():
		inst, err := client.StartProcess(ctx, *startKey, curoclient.StartProcessRequest{
			BusinessKey: *startBusiness,
			Title:       *startTitle,
			Category:    *startCategory,
		})
		if err != nil {
			return err
		}
		return out.value(inst, func() { out.success(fmt.Sprintf("started %s (%s)", inst.ID, inst.DefinitionID)) })
	}
	return fmt.Errorf("unknown command %q", command)
}

// stringVariables turns --set name=value pairs into String typed variables.
func stringVariables(m map[string]string) map[string]curoclient.Variable {
	if len(m) == 0 {
		return nil
	}
	vars := make(map[string]curoclient.Variable, len(m))
	for k, v := range m {
		vars[k] = curoclient.Variable{Type: "String", Value: v}
	}
	return vars
}
