// Package catalog provides abstractions for data catalog providers.
package catalog

import "context"

// Provider exposes catalog metadata for the query engine's databases
// and tables. Glue implements this; other metastores can too.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// ListDatabases returns all databases in the catalog.
	ListDatabases(ctx context.Context) ([]Database, error)

	// ListTables returns up to limit tables in a database.
	ListTables(ctx context.Context, database string, limit int) ([]Table, error)

	// GetTable returns detailed metadata for one table.
	GetTable(ctx context.Context, database, table string) (*Table, error)

	// Close releases resources.
	Close() error
}
