package athena

import (
	"context"
	"fmt"
	"time"
)

// Sleeper pauses between polls. Tests inject a fake to avoid real
// waits; the default honors context cancellation.
type Sleeper func(ctx context.Context, d time.Duration) error

// sleepContext sleeps for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck // cancellation propagated as-is
	case <-timer.C:
		return nil
	}
}

// Poller repeatedly observes execution status at a fixed interval until
// a terminal state is reached or the timeout elapses. There is no
// backoff or jitter; query durations are seconds-to-minutes and poll
// cost is negligible.
type Poller struct {
	engine   Engine
	interval time.Duration
	timeout  time.Duration
	sleep    Sleeper
}

// PollResult is the terminal observation of one Await call.
type PollResult struct {
	// Status is the last observed status. Nil only when TimedOut is
	// set and the final poll could not produce one.
	Status *Status

	// Elapsed is the sleep time accumulated by the fixed-interval loop.
	Elapsed time.Duration

	// Polls counts status checks made.
	Polls int

	// TimedOut is set when the deadline expired while non-terminal.
	TimedOut bool
}

// NewPoller creates a poller for the given engine. A nil sleep uses the
// context-aware default.
func NewPoller(engine Engine, interval, timeout time.Duration, sleep Sleeper) *Poller {
	if sleep == nil {
		sleep = sleepContext
	}
	return &Poller{
		engine:   engine,
		interval: interval,
		timeout:  timeout,
		sleep:    sleep,
	}
}

// Await polls until the execution reaches a terminal state or the
// timeout elapses. At least one status check is always made: the
// timeout gates continuation, not the first attempt. Once a terminal
// status is observed the loop stops immediately with no further polls.
// A failed status check is returned as an error (no transient retry at
// this layer).
func (p *Poller) Await(ctx context.Context, executionID string) (*PollResult, error) {
	result := &PollResult{}

	for {
		status, err := p.engine.ExecutionStatus(ctx, executionID)
		if err != nil {
			return nil, fmt.Errorf("checking execution status: %w", err)
		}
		result.Polls++
		result.Status = status

		if status.State.Terminal() {
			return result, nil
		}

		if result.Elapsed >= p.timeout {
			result.TimedOut = true
			return result, nil
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			return nil, fmt.Errorf("waiting between status checks: %w", err)
		}
		result.Elapsed += p.interval
	}
}
