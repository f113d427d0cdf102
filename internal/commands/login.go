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
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets the login credentials (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with the task server" }
func (c *LoginCmd) Usage() string     { return "taskdeck login --email <email> --password <password>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.email == "" || c.password == "" {
		fmt.Fprintln(errOut, "error: --email and --password required")
		return exitcode.UserError
	}

	client := rest.New(cfg, "")
	res, err := client.Login(ctx, c.email, c.password)
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
		fmt.Fprintf(out, "logged in as %s\n", res.User.Email)
	}
	return exitcode.Success
}
