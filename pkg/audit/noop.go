package audit

import (
	"context"
	"log/slog"
)

// NoopLogger discards all events.
type NoopLogger struct{}

// Log does nothing.
func (*NoopLogger) Log(_ context.Context, _ Event) error {
	return nil
}

// Query returns no events.
func (*NoopLogger) Query(_ context.Context, _ QueryFilter) ([]Event, error) {
	return []Event{}, nil
}

// Close does nothing.
func (*NoopLogger) Close() error {
	return nil
}

// SlogLogger writes events to a structured logger. Query is not
// supported; use the postgres store when history is needed.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a logger writing to l, or slog.Default when nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{logger: l}
}

// Log emits one structured log record per event.
func (s *SlogLogger) Log(ctx context.Context, event Event) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "query executed",
		slog.String("event_id", event.ID),
		slog.String("execution_id", event.ExecutionID),
		slog.String("database", event.Database),
		slog.String("outcome", event.Outcome),
		slog.Int("row_count", event.RowCount),
		slog.Int64("bytes_scanned", event.BytesScanned),
		slog.Int64("elapsed_ms", event.ElapsedMS),
	)
	return nil
}

// Query returns no events; slog records are write-only.
func (*SlogLogger) Query(_ context.Context, _ QueryFilter) ([]Event, error) {
	return []Event{}, nil
}

// Close does nothing.
func (*SlogLogger) Close() error {
	return nil
}

// Verify interface compliance.
var (
	_ Logger = (*NoopLogger)(nil)
	_ Logger = (*SlogLogger)(nil)
)
