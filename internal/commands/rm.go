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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	projectID string
}

// SetProjectID sets the target project (for testing).
func (c *RmCmd) SetProjectID(id string) {
	c.projectID = id
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskdeck rm [common flags] --project <id> <task-id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.projectID, "project", "", "")
	fs.StringVar(&c.projectID, "p", "", "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.projectID == "" {
		fmt.Fprintln(errOut, "error: --project required")
		return exitcode.UserError
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	taskID := strings.TrimSpace(args[0])

	if err := svc.DeleteTask(ctx, c.projectID, taskID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
