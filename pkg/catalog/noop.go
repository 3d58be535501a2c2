package catalog

import (
	"context"
	"fmt"
)

// NoopProvider is a no-op implementation used when no catalog is
// configured.
type NoopProvider struct{}

// NewNoopProvider creates a new no-op provider.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// Name returns the provider name.
func (*NoopProvider) Name() string {
	return "noop"
}

// ListDatabases returns an empty list.
func (*NoopProvider) ListDatabases(_ context.Context) ([]Database, error) {
	return []Database{}, nil
}

// ListTables returns an empty list.
func (*NoopProvider) ListTables(_ context.Context, _ string, _ int) ([]Table, error) {
	return []Table{}, nil
}

// GetTable reports the table as not found.
func (*NoopProvider) GetTable(_ context.Context, database, table string) (*Table, error) {
	return nil, fmt.Errorf("no catalog provider configured: %s.%s", database, table)
}

// Close does nothing.
func (*NoopProvider) Close() error {
	return nil
}

// Verify interface compliance.
var _ Provider = (*NoopProvider)(nil)
