// Package main is the entry point for the taskdeck CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskdeck/internal/backend/rest"
	"taskdeck/internal/cache"
	"taskdeck/internal/cli"
	"taskdeck/internal/clock"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create service factory: the stored session's token authenticates the
	// HTTP backend, and a process-wide cache sits in front of it
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		sess, err := session.Load(cfg.SessionPath())
		if err != nil {
			return nil, err
		}
		backend := rest.New(cfg, sess.Token)
		return service.NewCached(backend, cache.New(clock.Real{})), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
