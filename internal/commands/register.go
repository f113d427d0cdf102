package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/backend/rest"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command. A successful registration
// also logs the new user in.
type RegisterCmd struct {
	name     string
	email    string
	password string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskdeck register --name <name> --email <email> --password <password>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.name == "" || c.email == "" || c.password == "" {
		fmt.Fprintln(errOut, "error: --name, --email and --password required")
		return exitcode.UserError
	}

	client := rest.New(cfg, "")
	res, err := client.Register(ctx, c.name, c.email, c.password)
	if err != nil {
		return fail(errOut, err)
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := session.Save(cfg.SessionPath(), &session.Session{Token: res.Token, User: res.User}); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered as %s\n", res.User.Email)
	}
	return exitcode.Success
}
