package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&ProjectsCmd{})
}

// ProjectsCmd implements the projects command, the dashboard view.
// Also handles bare `taskdeck` with no args.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string      { return "projects" }
func (c *ProjectsCmd) Aliases() []string { return []string{"ls"} }
func (c *ProjectsCmd) Synopsis() string  { return "List your projects" }
func (c *ProjectsCmd) Usage() string     { return "taskdeck projects [common flags]" }
func (c *ProjectsCmd) NeedsAuth() bool   { return true }

func (c *ProjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	projects, err := svc.ListProjects(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	if len(projects) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no projects found")
		}
		return exitcode.Success
	}

	for i, p := range projects {
		output.FormatProjectItem(out, i+1, p)
	}
	return exitcode.Success
}
