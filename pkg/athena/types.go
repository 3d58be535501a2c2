// Package athena provides asynchronous query execution against an
// Athena-style interactive query service: submit, poll to completion,
// and materialize results into a uniform in-memory table.
package athena

// Request describes a single query to execute. It is immutable once
// constructed; empty Database and Workgroup fall back to runner defaults.
type Request struct {
	SQL       string `json:"sql"`
	Database  string `json:"database,omitempty"`
	Workgroup string `json:"workgroup,omitempty"`
}

// ExecutionState is the engine-reported state of a query execution.
// Transitions are owned by the remote engine; this layer only observes.
type ExecutionState string

const (
	// StateQueued means the query is waiting to run.
	StateQueued ExecutionState = "QUEUED"

	// StateRunning means the query is executing.
	StateRunning ExecutionState = "RUNNING"

	// StateSucceeded means the query completed and results are available.
	StateSucceeded ExecutionState = "SUCCEEDED"

	// StateFailed means the engine rejected or aborted the query.
	StateFailed ExecutionState = "FAILED"

	// StateCancelled means the execution was stopped before completion.
	StateCancelled ExecutionState = "CANCELLED"
)

// Terminal reports whether no further state transition can occur.
func (s ExecutionState) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// Stats carries engine-reported execution statistics.
type Stats struct {
	DataScannedBytes int64 `json:"data_scanned_bytes"`
	ExecutionTimeMS  int64 `json:"execution_time_ms"`
	QueueTimeMS      int64 `json:"queue_time_ms"`
	PlanningTimeMS   int64 `json:"planning_time_ms"`
}

// Status is a point-in-time observation of an execution.
type Status struct {
	State ExecutionState `json:"state"`

	// Reason is the engine-reported state change reason. Only meaningful
	// for FAILED and CANCELLED; may be empty even then.
	Reason string `json:"reason,omitempty"`

	Stats Stats `json:"stats"`
}

// ColumnInfo is engine-reported column metadata.
type ColumnInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

// RawResultSet is the wire shape of a fetched result page. A nil cell
// means the engine omitted the value for that position.
type RawResultSet struct {
	Columns []ColumnInfo
	Rows    [][]*string
}

// ResultTable is the uniform in-memory table produced by decoding.
// Column order matches wire order; every cell is a string.
type ResultTable struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// OutcomeKind tags the variant of an Outcome.
type OutcomeKind string

const (
	// OutcomeSuccess carries a fully decoded result table.
	OutcomeSuccess OutcomeKind = "success"

	// OutcomeFailure carries an error reason; covers submission errors,
	// poll errors, fetch errors and terminal FAILED/CANCELLED states.
	OutcomeFailure OutcomeKind = "failure"

	// OutcomeTimeout means the deadline expired while still QUEUED/RUNNING.
	OutcomeTimeout OutcomeKind = "timeout"
)

// Outcome is the tagged result of a single RunQuery call. Exactly one
// of the three kinds is produced; no error escapes RunQuery's boundary.
type Outcome struct {
	Kind        OutcomeKind  `json:"kind"`
	ExecutionID string       `json:"execution_id,omitempty"`
	Table       *ResultTable `json:"table,omitempty"`
	RowCount    int          `json:"row_count,omitempty"`
	Stats       Stats        `json:"stats,omitempty"`
	ElapsedMS   int64        `json:"elapsed_ms,omitempty"`
	Reason      string       `json:"reason,omitempty"`
}

// Success reports whether the outcome carries a decoded table.
func (o Outcome) Success() bool {
	return o.Kind == OutcomeSuccess
}

// CancelAck acknowledges a cancellation request. The ack is synthesized
// locally; the engine is not polled to confirm the stop took effect.
type CancelAck struct {
	ExecutionID string `json:"execution_id"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}
