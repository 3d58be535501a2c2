package athena

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultPollInterval is the fixed delay between status checks.
	DefaultPollInterval = 2 * time.Second

	// DefaultQueryTimeout bounds how long a query may stay non-terminal.
	DefaultQueryTimeout = 300 * time.Second

	// DefaultMaxRows bounds the single result page fetched on success.
	DefaultMaxRows = 1000

	// unknownErrorReason substitutes for a missing engine reason string.
	unknownErrorReason = "Unknown error"
)

// RunnerConfig holds runner defaults. Zero values fall back to the
// package defaults above.
type RunnerConfig struct {
	Region         string
	Database       string
	Workgroup      string
	OutputLocation string
	PollInterval   time.Duration
	QueryTimeout   time.Duration
	MaxRows        int32
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithSleeper overrides the inter-poll sleep. Used by tests to inject
// a fake clock.
func WithSleeper(sleep Sleeper) RunnerOption {
	return func(r *Runner) {
		r.sleep = sleep
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Runner orchestrates one query end to end: resolve the result
// location, submit, poll to a terminal state, decode the results.
// Every failure mode is folded into the Outcome; nothing escapes
// RunQuery as an error. Each invocation is independent - no state is
// shared between calls, so a Runner is safe for concurrent use.
type Runner struct {
	engine   Engine
	identity IdentityResolver
	cfg      RunnerConfig
	sleep    Sleeper
	logger   *slog.Logger
}

// NewRunner creates a runner over the given engine. The identity
// resolver may be nil; the default result location is used then.
func NewRunner(engine Engine, identity IdentityResolver, cfg RunnerConfig, opts ...RunnerOption) (*Runner, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = DefaultQueryTimeout
	}
	if cfg.MaxRows == 0 {
		cfg.MaxRows = DefaultMaxRows
	}

	r := &Runner{
		engine:   engine,
		identity: identity,
		cfg:      cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns the effective runner configuration.
func (r *Runner) Config() RunnerConfig {
	return r.cfg
}

// RunQuery executes one query and returns exactly one of Success,
// Failure or Timeout. Steps are strictly sequential: resolve the
// result location, submit, poll, fetch and decode.
func (r *Runner) RunQuery(ctx context.Context, req Request) Outcome {
	if req.Database == "" {
		req.Database = r.cfg.Database
	}
	if req.Workgroup == "" {
		req.Workgroup = r.cfg.Workgroup
	}

	location := r.cfg.OutputLocation
	if location == "" {
		location = ResolveResultLocation(ctx, r.cfg.Region, r.identity)
	}

	executionID, err := r.engine.Submit(ctx, req, location)
	if err != nil {
		return Outcome{Kind: OutcomeFailure, Reason: err.Error()}
	}

	r.logger.Debug("query submitted",
		"execution_id", executionID,
		"database", req.Database,
		"workgroup", req.Workgroup,
	)

	poller := NewPoller(r.engine, r.cfg.PollInterval, r.cfg.QueryTimeout, r.sleep)
	poll, err := poller.Await(ctx, executionID)
	if err != nil {
		return Outcome{Kind: OutcomeFailure, ExecutionID: executionID, Reason: err.Error()}
	}

	if poll.TimedOut {
		return Outcome{
			Kind:        OutcomeTimeout,
			ExecutionID: executionID,
			ElapsedMS:   r.cfg.QueryTimeout.Milliseconds(),
		}
	}

	status := poll.Status
	if status.State != StateSucceeded {
		reason := status.Reason
		if reason == "" {
			reason = unknownErrorReason
		}
		return Outcome{
			Kind:        OutcomeFailure,
			ExecutionID: executionID,
			Reason:      reason,
		}
	}

	raw, err := r.engine.FetchResults(ctx, executionID, r.cfg.MaxRows)
	if err != nil {
		return Outcome{Kind: OutcomeFailure, ExecutionID: executionID, Reason: err.Error()}
	}

	table := Decode(raw)
	elapsed := status.Stats.ExecutionTimeMS
	if elapsed == 0 {
		elapsed = poll.Elapsed.Milliseconds()
	}

	return Outcome{
		Kind:        OutcomeSuccess,
		ExecutionID: executionID,
		Table:       table,
		RowCount:    len(table.Rows),
		Stats:       status.Stats,
		ElapsedMS:   elapsed,
	}
}

// Status returns the current execution status without polling.
func (r *Runner) Status(ctx context.Context, executionID string) (*Status, error) {
	status, err := r.engine.ExecutionStatus(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("getting execution status: %w", err)
	}
	return status, nil
}

// Cancel requests the engine stop the named execution. The ack is
// always a locally synthesized success: the stop call can race-lose to
// a concurrently completing query, and the engine is deliberately not
// polled to confirm. A stop error is logged and swallowed.
func (r *Runner) Cancel(ctx context.Context, executionID string) CancelAck {
	if err := r.engine.CancelExecution(ctx, executionID); err != nil {
		r.logger.Warn("cancel request failed, acknowledging anyway",
			"execution_id", executionID,
			"error", err,
		)
	}
	return CancelAck{
		ExecutionID: executionID,
		Status:      string(StateCancelled),
		Message:     "cancellation requested",
	}
}
