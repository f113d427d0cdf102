package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	projectID   string
	description string
	priority    string
	due         string
}

// SetProjectID sets the target project (for testing).
func (c *AddCmd) SetProjectID(id string) {
	c.projectID = id
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdeck add [common flags] --project <id> [--priority <p>] [--due <date>] [--desc <text>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.projectID, "project", "", "")
	fs.StringVar(&c.projectID, "p", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.projectID == "" {
		fmt.Fprintln(errOut, "error: --project required")
		return exitcode.UserError
	}

	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	task := service.NewTask{
		ProjectID:   c.projectID,
		Title:       title,
		Description: c.description,
	}

	if c.priority != "" {
		p, err := service.ParsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		task.Priority = p
	}
	if c.due != "" {
		due, err := parseDueDate(c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		task.DueDate = due
	}

	if _, err := svc.CreateTask(ctx, task); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseDueDate accepts a plain date or a full RFC 3339 timestamp.
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid due date: %s (want YYYY-MM-DD)", s)
}
