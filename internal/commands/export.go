package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskdeck/internal/clock"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/export"
	"taskdeck/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command: request a server-side export,
// wait for it to finish, and save the payload to disk.
type ExportCmd struct {
	out     string
	timeout time.Duration

	clk      clock.Clock
	interval time.Duration
}

// SetClock replaces the poll clock (for testing).
func (c *ExportCmd) SetClock(clk clock.Clock) {
	c.clk = clk
}

// SetInterval overrides the poll interval (for testing).
func (c *ExportCmd) SetInterval(d time.Duration) {
	c.interval = d
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export a project's tasks to a file" }
func (c *ExportCmd) Usage() string {
	return "taskdeck export [common flags] [--out <file>] [--timeout <dur>] <project-id>"
}
func (c *ExportCmd) NeedsAuth() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.out, "out", "", "")
	fs.DurationVar(&c.timeout, "timeout", export.DefaultBudget, "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: project id required")
		return exitcode.UserError
	}
	projectID := strings.TrimSpace(args[0])

	if c.timeout <= 0 {
		fmt.Fprintf(errOut, "error: invalid timeout: %s\n", c.timeout)
		return exitcode.UserError
	}

	clk := c.clk
	if clk == nil {
		clk = clock.Real{}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "export requested, waiting...")
	}

	watcher := export.NewWatcher(svc, clk, c.interval, c.timeout)
	res, err := watcher.Run(ctx, projectID)
	if err != nil {
		return fail(errOut, err)
	}

	switch res.State {
	case export.TimedOut:
		// Not an error: the job keeps running server-side and a later
		// export request will find it finished.
		if !cfg.Quiet {
			fmt.Fprintf(out, "export %s still running after %s, try again later\n", res.ExportID, c.timeout)
		}
		return exitcode.Success

	case export.Completed:
		path := c.out
		if path == "" {
			path = export.DefaultFilename(projectID, clk.Now())
		}
		if err := export.SaveFile(path, res.Data); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "saved %s\n", path)
		}
		return exitcode.Success
	}

	fmt.Fprintf(errOut, "error: export ended in unexpected state: %s\n", res.State)
	return exitcode.BackendError
}
