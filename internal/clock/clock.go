// Package clock abstracts wall-clock time so polling loops and cache TTLs
// can be tested without real waits.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time and timer channels.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that delivers once d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// Real is the wall clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Fake is a manually driven clock for tests.
// With AutoAdvance set, After moves the clock forward immediately and fires,
// which lets polling loops run to completion without any coordination.
type Fake struct {
	mu          sync.Mutex
	now         time.Time
	waiters     []fakeWaiter
	AutoAdvance bool
}

type fakeWaiter struct {
	at time.Time
	ch chan time.Time
}

// NewFake creates a fake clock starting at the given time.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan time.Time, 1)
	if f.AutoAdvance || d <= 0 {
		f.now = f.now.Add(d)
		ch <- f.now
		return ch
	}
	f.waiters = append(f.waiters, fakeWaiter{at: f.now.Add(d), ch: ch})
	return ch
}

// Advance moves the clock forward and fires any timers that come due.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
	remaining := f.waiters[:0]
	for _, w := range f.waiters {
		if !w.at.After(f.now) {
			w.ch <- f.now
		} else {
			remaining = append(remaining, w)
		}
	}
	f.waiters = remaining
}
