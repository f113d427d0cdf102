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
	Register(&RmProjectCmd{})
}

// RmProjectCmd implements the rmproject command.
type RmProjectCmd struct{}

func (c *RmProjectCmd) Name() string      { return "rmproject" }
func (c *RmProjectCmd) Aliases() []string { return nil }
func (c *RmProjectCmd) Synopsis() string  { return "Delete a project and its tasks" }
func (c *RmProjectCmd) Usage() string     { return "taskdeck rmproject [common flags] <project-id>" }
func (c *RmProjectCmd) NeedsAuth() bool   { return true }

func (c *RmProjectCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmProjectCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: project id required")
		return exitcode.UserError
	}
	projectID := strings.TrimSpace(args[0])

	if err := svc.DeleteProject(ctx, projectID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
