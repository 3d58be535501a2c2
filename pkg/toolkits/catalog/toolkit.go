// Package catalog provides Glue data catalog discovery tools for the
// MCP server.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-athena/pkg/catalog"
)

// Config holds catalog toolkit configuration.
type Config struct {
	ConnectionName string `yaml:"connection_name"`
}

// Toolkit exposes data catalog discovery as MCP tools.
type Toolkit struct {
	name     string
	config   Config
	provider catalog.Provider
}

// New creates a new catalog toolkit.
func New(name string, cfg Config, provider catalog.Provider) (*Toolkit, error) {
	if provider == nil {
		return nil, fmt.Errorf("catalog provider is required")
	}
	if cfg.ConnectionName == "" {
		cfg.ConnectionName = name
	}
	return &Toolkit{
		name:     name,
		config:   cfg,
		provider: provider,
	}, nil
}

// Kind returns the toolkit kind.
func (*Toolkit) Kind() string {
	return "catalog"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// Connection returns the connection name for audit logging.
func (t *Toolkit) Connection() string {
	return t.config.ConnectionName
}

// listDatabasesInput is empty since the tool has no parameters.
type listDatabasesInput struct{}

// listTablesInput is the input for the athena_list_tables tool.
type listTablesInput struct {
	Database string `json:"database" jsonschema:"Database to list tables from"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of tables to return"`
}

// tableMetadataInput is the input for the athena_get_table_metadata tool.
type tableMetadataInput struct {
	Database string `json:"database" jsonschema:"Database containing the table"`
	Table    string `json:"table" jsonschema:"Table name"`
}

// RegisterTools registers catalog tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        "athena_list_databases",
		Description: "List databases in the data catalog with table counts.",
	}, t.handleListDatabases)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "athena_list_tables",
		Description: "List tables in a database, including storage locations and column summaries.",
	}, t.handleListTables)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "athena_get_table_metadata",
		Description: "Get full metadata for one table: columns, partition keys, storage format and parameters.",
	}, t.handleGetTableMetadata)
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{
		"athena_list_databases",
		"athena_list_tables",
		"athena_get_table_metadata",
	}
}

// handleListDatabases handles the athena_list_databases tool call.
func (t *Toolkit) handleListDatabases(ctx context.Context, _ *mcp.CallToolRequest, _ listDatabasesInput) (*mcp.CallToolResult, any, error) {
	databases, err := t.provider.ListDatabases(ctx)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return jsonResult(databases), nil, nil
}

// handleListTables handles the athena_list_tables tool call.
func (t *Toolkit) handleListTables(ctx context.Context, _ *mcp.CallToolRequest, in listTablesInput) (*mcp.CallToolResult, any, error) {
	if in.Database == "" {
		return errorResult("database is required"), nil, nil
	}

	tables, err := t.provider.ListTables(ctx, in.Database, in.Limit)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return jsonResult(tables), nil, nil
}

// handleGetTableMetadata handles the athena_get_table_metadata tool call.
func (t *Toolkit) handleGetTableMetadata(ctx context.Context, _ *mcp.CallToolRequest, in tableMetadataInput) (*mcp.CallToolResult, any, error) {
	if in.Database == "" || in.Table == "" {
		return errorResult("database and table are required"), nil, nil
	}

	table, err := t.provider.GetTable(ctx, in.Database, in.Table)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return jsonResult(table), nil, nil
}

// Close releases the underlying provider.
func (t *Toolkit) Close() error {
	return t.provider.Close()
}

// jsonResult renders a value as an indented JSON tool result.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}

// errorResult renders a tool-level error result.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}
}
