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
	Register(&EditProjectCmd{})
}

// EditProjectCmd implements the editproject command.
type EditProjectCmd struct {
	name    string
	desc    string
	nameSet bool
	descSet bool
}

func (c *EditProjectCmd) Name() string      { return "editproject" }
func (c *EditProjectCmd) Aliases() []string { return nil }
func (c *EditProjectCmd) Synopsis() string  { return "Rename or describe a project" }
func (c *EditProjectCmd) Usage() string {
	return "taskdeck editproject [common flags] [--name <name>] [--desc <text>] <project-id>"
}
func (c *EditProjectCmd) NeedsAuth() bool { return true }

func (c *EditProjectCmd) RegisterFlags(fs *flag.FlagSet) {
	// Func distinguishes "flag absent" from "flag set to empty".
	fs.Func("name", "", func(v string) error {
		c.name, c.nameSet = v, true
		return nil
	})
	fs.Func("desc", "", func(v string) error {
		c.desc, c.descSet = v, true
		return nil
	})
}

func (c *EditProjectCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: project id required")
		return exitcode.UserError
	}
	projectID := strings.TrimSpace(args[0])

	var patch service.ProjectPatch
	if c.nameSet {
		if strings.TrimSpace(c.name) == "" {
			fmt.Fprintln(errOut, "error: project name cannot be empty")
			return exitcode.UserError
		}
		patch.Name = &c.name
	}
	if c.descSet {
		patch.Description = &c.desc
	}
	if patch.Name == nil && patch.Description == nil {
		fmt.Fprintln(errOut, "error: nothing to change (use --name or --desc)")
		return exitcode.UserError
	}

	if _, err := svc.UpdateProject(ctx, projectID, patch); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
