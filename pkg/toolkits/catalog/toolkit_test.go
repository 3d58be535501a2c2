package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-athena/pkg/catalog"
)

// fakeProvider implements catalog.Provider for testing.
type fakeProvider struct {
	listDatabasesFunc func(ctx context.Context) ([]catalog.Database, error)
	listTablesFunc    func(ctx context.Context, database string, limit int) ([]catalog.Table, error)
	getTableFunc      func(ctx context.Context, database, table string) (*catalog.Table, error)
	closed            bool
}

func (*fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) ListDatabases(ctx context.Context) ([]catalog.Database, error) {
	if f.listDatabasesFunc != nil {
		return f.listDatabasesFunc(ctx)
	}
	return []catalog.Database{}, nil
}

func (f *fakeProvider) ListTables(ctx context.Context, database string, limit int) ([]catalog.Table, error) {
	if f.listTablesFunc != nil {
		return f.listTablesFunc(ctx, database, limit)
	}
	return []catalog.Table{}, nil
}

func (f *fakeProvider) GetTable(ctx context.Context, database, table string) (*catalog.Table, error) {
	if f.getTableFunc != nil {
		return f.getTableFunc(ctx, database, table)
	}
	return &catalog.Table{}, nil
}

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestNew(t *testing.T) {
	t.Run("nil provider", func(t *testing.T) {
		if _, err := New("glue", Config{}, nil); err == nil {
			t.Error("expected error for nil provider")
		}
	})

	t.Run("identity", func(t *testing.T) {
		toolkit, err := New("glue", Config{}, &fakeProvider{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if toolkit.Kind() != "catalog" {
			t.Errorf("expected kind 'catalog', got %q", toolkit.Kind())
		}
		if toolkit.Name() != "glue" || toolkit.Connection() != "glue" {
			t.Errorf("unexpected identity: %s/%s", toolkit.Name(), toolkit.Connection())
		}
		if len(toolkit.Tools()) != 3 {
			t.Errorf("expected 3 tools, got %d", len(toolkit.Tools()))
		}
	})
}

func TestHandleListDatabases(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		provider := &fakeProvider{
			listDatabasesFunc: func(_ context.Context) ([]catalog.Database, error) {
				return []catalog.Database{
					{Name: "analytics", TableCount: 4},
					{Name: "staging"},
				}, nil
			},
		}
		toolkit, _ := New("glue", Config{}, provider)

		result, _, err := toolkit.handleListDatabases(context.Background(), nil, listDatabasesInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var databases []catalog.Database
		if jsonErr := json.Unmarshal([]byte(resultText(t, result)), &databases); jsonErr != nil {
			t.Fatalf("decoding databases: %v", jsonErr)
		}
		if len(databases) != 2 || databases[0].Name != "analytics" {
			t.Errorf("unexpected databases: %+v", databases)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		provider := &fakeProvider{
			listDatabasesFunc: func(_ context.Context) ([]catalog.Database, error) {
				return nil, errors.New("access denied")
			},
		}
		toolkit, _ := New("glue", Config{}, provider)

		result, _, _ := toolkit.handleListDatabases(context.Background(), nil, listDatabasesInput{})
		if !result.IsError {
			t.Error("expected tool error")
		}
	})
}

func TestHandleListTables(t *testing.T) {
	t.Run("passes database and limit", func(t *testing.T) {
		provider := &fakeProvider{
			listTablesFunc: func(_ context.Context, database string, limit int) ([]catalog.Table, error) {
				if database != "analytics" || limit != 5 {
					t.Errorf("unexpected call: %s limit=%d", database, limit)
				}
				return []catalog.Table{{Name: "events", Database: "analytics"}}, nil
			},
		}
		toolkit, _ := New("glue", Config{}, provider)

		result, _, err := toolkit.handleListTables(context.Background(), nil, listTablesInput{Database: "analytics", Limit: 5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var tables []catalog.Table
		if jsonErr := json.Unmarshal([]byte(resultText(t, result)), &tables); jsonErr != nil {
			t.Fatalf("decoding tables: %v", jsonErr)
		}
		if len(tables) != 1 || tables[0].Name != "events" {
			t.Errorf("unexpected tables: %+v", tables)
		}
	})

	t.Run("missing database", func(t *testing.T) {
		toolkit, _ := New("glue", Config{}, &fakeProvider{})
		result, _, _ := toolkit.handleListTables(context.Background(), nil, listTablesInput{})
		if !result.IsError {
			t.Error("expected tool error for missing database")
		}
	})
}

func TestHandleGetTableMetadata(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		provider := &fakeProvider{
			getTableFunc: func(_ context.Context, database, table string) (*catalog.Table, error) {
				if database != "analytics" || table != "events" {
					t.Errorf("unexpected lookup %s.%s", database, table)
				}
				return &catalog.Table{
					Name:     "events",
					Database: "analytics",
					Columns:  []catalog.Column{{Name: "id", Type: "bigint"}},
					Storage:  catalog.StorageDescriptor{Location: "s3://data/events/"},
				}, nil
			},
		}
		toolkit, _ := New("glue", Config{}, provider)

		result, _, err := toolkit.handleGetTableMetadata(context.Background(), nil, tableMetadataInput{Database: "analytics", Table: "events"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var table catalog.Table
		if jsonErr := json.Unmarshal([]byte(resultText(t, result)), &table); jsonErr != nil {
			t.Fatalf("decoding table: %v", jsonErr)
		}
		if table.Storage.Location != "s3://data/events/" || len(table.Columns) != 1 {
			t.Errorf("unexpected table: %+v", table)
		}
	})

	t.Run("missing arguments", func(t *testing.T) {
		toolkit, _ := New("glue", Config{}, &fakeProvider{})
		result, _, _ := toolkit.handleGetTableMetadata(context.Background(), nil, tableMetadataInput{Database: "analytics"})
		if !result.IsError {
			t.Error("expected tool error for missing table")
		}
	})

	t.Run("provider error", func(t *testing.T) {
		provider := &fakeProvider{
			getTableFunc: func(_ context.Context, _, _ string) (*catalog.Table, error) {
				return nil, errors.New("table not found")
			},
		}
		toolkit, _ := New("glue", Config{}, provider)

		result, _, _ := toolkit.handleGetTableMetadata(context.Background(), nil, tableMetadataInput{Database: "db", Table: "t"})
		if !result.IsError {
			t.Error("expected tool error")
		}
	})
}

func TestClose(t *testing.T) {
	provider := &fakeProvider{}
	toolkit, _ := New("glue", Config{}, provider)

	if err := toolkit.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !provider.closed {
		t.Error("expected provider to be closed")
	}
}
