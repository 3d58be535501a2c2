// Package audit provides query execution audit logging.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/txn2/mcp-athena/pkg/athena"
)

// Logger defines the interface for query audit logging.
type Logger interface {
	// Log records a query execution event.
	Log(ctx context.Context, event Event) error

	// Query retrieves audit events matching the filter.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Close releases resources.
	Close() error
}

// Event records one query execution outcome.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ExecutionID  string    `json:"execution_id,omitempty"`
	SQL          string    `json:"sql"`
	Database     string    `json:"database,omitempty"`
	Workgroup    string    `json:"workgroup,omitempty"`
	Outcome      string    `json:"outcome"`
	ErrorMessage string    `json:"error_message,omitempty"`
	RowCount     int       `json:"row_count"`
	BytesScanned int64     `json:"bytes_scanned"`
	ElapsedMS    int64     `json:"elapsed_ms"`
}

// NewEvent creates an audit event for one request/outcome pair.
func NewEvent(req athena.Request, outcome athena.Outcome) Event {
	return Event{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		ExecutionID:  outcome.ExecutionID,
		SQL:          req.SQL,
		Database:     req.Database,
		Workgroup:    req.Workgroup,
		Outcome:      string(outcome.Kind),
		ErrorMessage: outcome.Reason,
		RowCount:     outcome.RowCount,
		BytesScanned: outcome.Stats.DataScannedBytes,
		ElapsedMS:    outcome.ElapsedMS,
	}
}

// QueryFilter defines criteria for querying audit events.
type QueryFilter struct {
	StartTime   *time.Time
	EndTime     *time.Time
	ExecutionID string
	Database    string
	Outcome     string
	Limit       int
	Offset      int
}

// Config configures audit logging.
type Config struct {
	Enabled       bool
	RetentionDays int
}
