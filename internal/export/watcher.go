// Package export drives a server-side export job from creation to download.
//
// Each Watcher handles exactly one export: it requests the job, polls its
// status at a fixed interval until the server reports a terminal state or
// the time budget runs out, and retrieves the payload exactly once on
// completion. The next poll is scheduled only after the previous one
// resolves, so a slow network never piles up requests.
package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskdeck/internal/clock"
	"taskdeck/internal/service"
)

const (
	// DefaultPollInterval is the delay between status reads.
	DefaultPollInterval = time.Second

	// DefaultBudget bounds how long a watcher polls before giving up.
	// A timed-out job stays queryable on the server.
	DefaultBudget = 2 * time.Minute
)

// State is the watcher's position in its lifecycle.
type State int

const (
	Idle State = iota
	Requested
	Polling
	Completed
	Failed
	TimedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requested:
		return "requested"
	case Polling:
		return "polling"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed out"
	}
	return "unknown"
}

// Exporter is the slice of the backend the watcher drives.
type Exporter interface {
	StartExport(ctx context.Context, projectID string) (service.ExportJob, error)
	ExportStatus(ctx context.Context, exportID string) (service.ExportJob, error)
	DownloadExport(ctx context.Context, exportID string) ([]byte, error)
}

// Result is the outcome of one watch.
type Result struct {
	State    State
	ExportID string

	// Data holds the export payload when State is Completed.
	Data []byte
}

// Watcher follows one export job. Create a new Watcher per export; state is
// scoped to a single export ID so concurrent exports cannot cross-signal.
type Watcher struct {
	svc      Exporter
	clk      clock.Clock
	interval time.Duration
	budget   time.Duration

	mu       sync.Mutex
	state    State
	exportID string
}

// NewWatcher creates a watcher. Zero interval or budget select the defaults.
func NewWatcher(svc Exporter, clk clock.Clock, interval, budget time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Watcher{svc: svc, clk: clk, interval: interval, budget: budget}
}

// State returns the watcher's current state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// ExportID returns the job ID once the export has been created.
func (w *Watcher) ExportID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exportID
}

func (w *Watcher) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Run creates the export and blocks until a terminal state. It returns a nil
// error for Completed and TimedOut; a timed-out watch is not a failure, the
// job simply outlived the budget. Cancelling ctx stops the poll timer and
// returns the context's error.
func (w *Watcher) Run(ctx context.Context, projectID string) (Result, error) {
	w.setState(Requested)

	job, err := w.svc.StartExport(ctx, projectID)
	if err != nil {
		w.setState(Failed)
		return Result{State: Failed}, err
	}

	w.mu.Lock()
	w.exportID = job.ID
	w.state = Polling
	w.mu.Unlock()

	deadline := w.clk.Now().Add(w.budget)

	for {
		cur, err := w.svc.ExportStatus(ctx, job.ID)
		if err != nil {
			// A transport error ends the watch; it does not retry.
			w.setState(Failed)
			return Result{State: Failed, ExportID: job.ID}, err
		}

		switch cur.Status {
		case service.ExportCompleted:
			data, err := w.svc.DownloadExport(ctx, job.ID)
			if err != nil {
				w.setState(Failed)
				return Result{State: Failed, ExportID: job.ID}, err
			}
			w.setState(Completed)
			return Result{State: Completed, ExportID: job.ID, Data: data}, nil

		case service.ExportFailed:
			w.setState(Failed)
			return Result{State: Failed, ExportID: job.ID}, fmt.Errorf("export %s failed on the server", job.ID)
		}

		// Still PENDING or PROCESSING.
		if !w.clk.Now().Before(deadline) {
			w.setState(TimedOut)
			return Result{State: TimedOut, ExportID: job.ID}, nil
		}

		select {
		case <-ctx.Done():
			w.setState(Idle)
			return Result{State: Idle, ExportID: job.ID}, ctx.Err()
		case <-w.clk.After(w.interval):
		}
	}
}
