package cli_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_BareInvocationListsProjects(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "no projects found\n" {
		t.Errorf("expected dashboard output, got %q", stdout.String())
	}
}

func TestDispatcher_Alias(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("proj-1", "Alpha")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"ls"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Alpha")) {
		t.Errorf("expected project listing, got %q", stdout.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "taskdeck 0.1.0\n" {
		t.Errorf("expected 'taskdeck 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagNeedsValue(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"add", "--project"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -project\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FactoryAuthError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("not logged in")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"projects"}, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !bytes.Contains(stderr.Bytes(), []byte("auth error")) {
		t.Errorf("expected auth error, got %q", stderr.String())
	}
}

func TestDispatcher_FactoryBackendError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"projects"}, &stdout, &stderr)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !bytes.Contains(stderr.Bytes(), []byte("backend error")) {
		t.Errorf("expected backend error, got %q", stderr.String())
	}
}
