package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&ProjectCmd{})
}

// ProjectCmd implements the project command: one project with its tasks.
type ProjectCmd struct{}

func (c *ProjectCmd) Name() string      { return "project" }
func (c *ProjectCmd) Aliases() []string { return []string{"show"} }
func (c *ProjectCmd) Synopsis() string  { return "Show a project and its tasks" }
func (c *ProjectCmd) Usage() string     { return "taskdeck project [common flags] <project-id>" }
func (c *ProjectCmd) NeedsAuth() bool   { return true }

func (c *ProjectCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: project id required")
		return exitcode.UserError
	}
	projectID := strings.TrimSpace(args[0])

	detail, err := svc.GetProject(ctx, projectID)
	if err != nil {
		return fail(errOut, err)
	}

	output.FormatProjectHeader(out, detail.Project)
	for i, task := range detail.Tasks {
		output.FormatTask(out, i+1, task)
	}
	if len(detail.Tasks) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks")
	}
	return exitcode.Success
}
