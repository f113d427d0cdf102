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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command, a shortcut for edit --status done.
type DoneCmd struct {
	projectID string
}

// SetProjectID sets the target project (for testing).
func (c *DoneCmd) SetProjectID(id string) {
	c.projectID = id
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task done" }
func (c *DoneCmd) Usage() string     { return "taskdeck done [common flags] --project <id> <task-id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.projectID, "project", "", "")
	fs.StringVar(&c.projectID, "p", "", "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.projectID == "" {
		fmt.Fprintln(errOut, "error: --project required")
		return exitcode.UserError
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	taskID := strings.TrimSpace(args[0])

	status := service.StatusDone
	if _, err := svc.UpdateTask(ctx, c.projectID, taskID, service.TaskPatch{Status: &status}); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
