package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command: a partial task update.
type EditCmd struct {
	projectID string
	title     string
	desc      string
	status    string
	priority  string
	assign    string
	due       string
	titleSet  bool
	descSet   bool
	assignSet bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Update a task" }
func (c *EditCmd) Usage() string {
	return "taskdeck edit [common flags] --project <id> [--title <t>] [--status <s>] [--priority <p>] [--assign <user-id>] [--due <date>] <task-id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.projectID, "project", "", "")
	fs.StringVar(&c.projectID, "p", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.Func("title", "", func(v string) error {
		c.title, c.titleSet = v, true
		return nil
	})
	fs.Func("desc", "", func(v string) error {
		c.desc, c.descSet = v, true
		return nil
	})
	fs.Func("assign", "", func(v string) error {
		c.assign, c.assignSet = v, true
		return nil
	})
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.projectID == "" {
		fmt.Fprintln(errOut, "error: --project required")
		return exitcode.UserError
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	taskID := strings.TrimSpace(args[0])

	var patch service.TaskPatch
	if c.titleSet {
		if strings.TrimSpace(c.title) == "" {
			fmt.Fprintln(errOut, "error: title cannot be empty")
			return exitcode.UserError
		}
		patch.Title = &c.title
	}
	if c.descSet {
		patch.Description = &c.desc
	}
	if c.assignSet {
		patch.AssignedTo = &c.assign
	}
	if c.status != "" {
		s, err := service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		patch.Status = &s
	}
	if c.priority != "" {
		p, err := service.ParsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		patch.Priority = &p
	}
	if c.due != "" {
		due, err := parseDueDate(c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		patch.DueDate = due
	}

	if patch == (service.TaskPatch{}) {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	if _, err := svc.UpdateTask(ctx, c.projectID, taskID, patch); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
