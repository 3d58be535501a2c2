package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpserver "github.com/txn2/mcp-athena/internal/server"
	"github.com/txn2/mcp-athena/pkg/athena"
	"github.com/txn2/mcp-athena/pkg/audit"
	"github.com/txn2/mcp-athena/pkg/catalog"
	"github.com/txn2/mcp-athena/pkg/platform"
)

// stubEngine returns a one-row result for any query.
type stubEngine struct{}

func (*stubEngine) Submit(_ context.Context, _ athena.Request, _ string) (string, error) {
	return "exec-stream-1", nil
}

func (*stubEngine) ExecutionStatus(_ context.Context, _ string) (*athena.Status, error) {
	return &athena.Status{
		State: athena.StateSucceeded,
		Stats: athena.Stats{DataScannedBytes: 2048, ExecutionTimeMS: 15},
	}, nil
}

func (*stubEngine) FetchResults(_ context.Context, _ string, _ int32) (*athena.RawResultSet, error) {
	one := "1"
	return &athena.RawResultSet{
		Columns: []athena.ColumnInfo{{Name: "n", Type: "integer"}},
		Rows:    [][]*string{{&one}},
	}, nil
}

func (*stubEngine) CancelExecution(_ context.Context, _ string) error { return nil }

func (*stubEngine) Close() error { return nil }

type stubIdentity struct{}

func (*stubIdentity) AccountID(_ context.Context) (string, error) {
	return "123456789012", nil
}

// queryReply mirrors the athena_query response envelope.
type queryReply struct {
	Success          bool                `json:"success"`
	ExecutionID      string              `json:"execution_id"`
	Columns          []string            `json:"columns"`
	Rows             []map[string]string `json:"rows"`
	RowCount         int                 `json:"row_count"`
	DataScannedBytes int64               `json:"data_scanned_bytes"`
}

// TestStreamableHTTP_QueryRoundTrip runs a full client/server exchange
// over the Streamable HTTP transport: connect, call athena_query, and
// decode the result envelope.
func TestStreamableHTTP_QueryRoundTrip(t *testing.T) {
	ctx := context.Background()

	cfg := &platform.Config{
		Server: platform.ServerConfig{Transport: "http", Address: ":0"},
		AWS:    platform.AWSConfig{Region: "us-east-1"},
	}
	srv, err := mcpserver.New(ctx, cfg,
		platform.WithEngine(&stubEngine{}),
		platform.WithIdentity(&stubIdentity{}),
		platform.WithCatalogProvider(catalog.NewNoopProvider()),
		platform.WithAuditLogger(&audit.NoopLogger{}),
	)
	require.NoError(t, err)
	defer func() { _ = srv.Close() }()

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return srv.Platform().MCPServer()
	}, nil)
	httpServer := httptest.NewServer(handler)
	defer httpServer.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: httpServer.URL}, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "athena_query",
		Arguments: map[string]any{"sql": "SELECT 1 AS n"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var reply queryReply
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &reply))
	assert.True(t, reply.Success)
	assert.Equal(t, "exec-stream-1", reply.ExecutionID)
	assert.Equal(t, []string{"n"}, reply.Columns)
	require.Len(t, reply.Rows, 1)
	assert.Equal(t, "1", reply.Rows[0]["n"])
	assert.Equal(t, 1, reply.RowCount)
	assert.Equal(t, int64(2048), reply.DataScannedBytes)
}

// TestStreamableHTTP_ListTools verifies every toolkit tool is visible
// to a connected client.
func TestStreamableHTTP_ListTools(t *testing.T) {
	ctx := context.Background()

	cfg := &platform.Config{
		Server: platform.ServerConfig{Transport: "http", Address: ":0"},
		AWS:    platform.AWSConfig{Region: "us-east-1"},
	}
	srv, err := mcpserver.New(ctx, cfg,
		platform.WithEngine(&stubEngine{}),
		platform.WithIdentity(&stubIdentity{}),
		platform.WithCatalogProvider(catalog.NewNoopProvider()),
		platform.WithAuditLogger(&audit.NoopLogger{}),
	)
	require.NoError(t, err)
	defer func() { _ = srv.Close() }()

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return srv.Platform().MCPServer()
	}, nil)
	httpServer := httptest.NewServer(handler)
	defer httpServer.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: httpServer.URL}, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make(map[string]bool, len(tools.Tools))
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"athena_query",
		"athena_get_execution",
		"athena_cancel_query",
		"athena_list_databases",
		"athena_list_tables",
		"athena_get_table_metadata",
		"server_info",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}
