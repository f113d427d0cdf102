package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                           List your projects
  taskdeck projects [common flags]                   List your projects
  taskdeck project [common flags] <project-id>       Show a project and its tasks
  taskdeck createproject [common flags] [--desc <text>] <name...>
  taskdeck editproject [common flags] [--name <name>] [--desc <text>] <project-id>
  taskdeck rmproject [common flags] <project-id>
  taskdeck add [common flags] --project <id> [--priority <p>] [--due <date>] [--desc <text>] <title...>
  taskdeck edit [common flags] --project <id> [--title <t>] [--status <s>] [--priority <p>] [--assign <user-id>] [--due <date>] <task-id>
  taskdeck done [common flags] --project <id> <task-id>
  taskdeck rm [common flags] --project <id> <task-id>
  taskdeck export [common flags] [--out <file>] [--timeout <dur>] <project-id>
  taskdeck register [common flags] --name <name> --email <email> --password <password>
  taskdeck login [common flags] --email <email> --password <password>
  taskdeck logout [common flags]
  taskdeck help
  taskdeck version

Status values:   todo, in-progress, done
Priority values: low, medium, high

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
