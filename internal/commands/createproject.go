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
	Register(&CreateProjectCmd{})
}

// CreateProjectCmd implements the createproject command.
type CreateProjectCmd struct {
	description string
}

// SetDescription sets the project description (for testing).
func (c *CreateProjectCmd) SetDescription(desc string) {
	c.description = desc
}

func (c *CreateProjectCmd) Name() string      { return "createproject" }
func (c *CreateProjectCmd) Aliases() []string { return []string{"addproject"} }
func (c *CreateProjectCmd) Synopsis() string  { return "Create a project" }
func (c *CreateProjectCmd) Usage() string {
	return "taskdeck createproject [common flags] [--desc <text>] <name...>"
}
func (c *CreateProjectCmd) NeedsAuth() bool { return true }

func (c *CreateProjectCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
}

func (c *CreateProjectCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: project name required")
		return exitcode.UserError
	}

	created, err := svc.CreateProject(ctx, service.NewProject{
		Name:        name,
		Description: c.description,
	})
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created project %s\n", created.ID)
	}
	return exitcode.Success
}
