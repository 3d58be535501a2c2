// Package athena provides the Athena query toolkit for the MCP server.
package athena

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-athena/pkg/athena"
)

// Config holds Athena toolkit configuration.
type Config struct {
	Region          string        `yaml:"region"`
	Profile         string        `yaml:"profile"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	SessionToken    string        `yaml:"session_token"`
	Database        string        `yaml:"database"`
	Workgroup       string        `yaml:"workgroup"`
	OutputLocation  string        `yaml:"output_location"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
	MaxRows         int32         `yaml:"max_rows"`
	ConnectionName  string        `yaml:"connection_name"`
}

// QueryRecorder receives the outcome of every query run through the
// toolkit. The audit subsystem implements this.
type QueryRecorder func(ctx context.Context, req athena.Request, outcome athena.Outcome)

// Toolkit exposes Athena query execution as MCP tools.
type Toolkit struct {
	name     string
	config   Config
	runner   *athena.Runner
	recorder QueryRecorder
}

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithQueryRecorder sets a callback invoked after each query run.
func WithQueryRecorder(recorder QueryRecorder) Option {
	return func(t *Toolkit) {
		t.recorder = recorder
	}
}

// New creates a new Athena toolkit.
func New(name string, cfg Config, runner *athena.Runner, opts ...Option) (*Toolkit, error) {
	if runner == nil {
		return nil, fmt.Errorf("athena runner is required")
	}
	if cfg.ConnectionName == "" {
		cfg.ConnectionName = name
	}

	t := &Toolkit{
		name:   name,
		config: cfg,
		runner: runner,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Kind returns the toolkit kind.
func (*Toolkit) Kind() string {
	return "athena"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// Connection returns the connection name for audit logging.
func (t *Toolkit) Connection() string {
	return t.config.ConnectionName
}

// queryInput is the input for the athena_query tool.
type queryInput struct {
	SQL      string `json:"sql" jsonschema:"SQL statement to execute"`
	Database string `json:"database,omitempty" jsonschema:"Database to query (defaults to the configured database)"`
}

// executionInput identifies an execution for status and cancel tools.
type executionInput struct {
	ExecutionID string `json:"execution_id" jsonschema:"Query execution identifier"`
}

// queryEnvelope is the uniform result shape returned by athena_query.
// Every call produces one of these; failures never surface as protocol
// errors.
type queryEnvelope struct {
	Success          bool                `json:"success"`
	ExecutionID      string              `json:"execution_id,omitempty"`
	Columns          []string            `json:"columns,omitempty"`
	Rows             []map[string]string `json:"rows,omitempty"`
	RowCount         int                 `json:"row_count,omitempty"`
	DataScannedBytes int64               `json:"data_scanned_bytes,omitempty"`
	ElapsedMS        int64               `json:"elapsed_ms,omitempty"`
	TimeoutMS        int64               `json:"timeout_ms,omitempty"`
	Error            string              `json:"error,omitempty"`
}

// executionStatus is the response shape for athena_get_execution.
type executionStatus struct {
	ExecutionID      string `json:"execution_id"`
	State            string `json:"state"`
	Reason           string `json:"reason,omitempty"`
	DataScannedBytes int64  `json:"data_scanned_bytes"`
	ExecutionTimeMS  int64  `json:"execution_time_ms"`
	QueueTimeMS      int64  `json:"queue_time_ms"`
	PlanningTimeMS   int64  `json:"planning_time_ms"`
}

// RegisterTools registers Athena tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name: "athena_query",
		Description: "Execute a SQL query on AWS Athena and wait for results. " +
			"Returns columns, rows and execution statistics. Failures and " +
			"timeouts are reported in the result envelope, never as errors.",
	}, t.handleQuery)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "athena_get_execution",
		Description: "Get the current state and statistics of a query execution.",
	}, t.handleGetExecution)

	mcp.AddTool(s, &mcp.Tool{
		Name: "athena_cancel_query",
		Description: "Request cancellation of a running query execution. " +
			"The acknowledgement does not confirm the engine honored the request.",
	}, t.handleCancel)
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{
		"athena_query",
		"athena_get_execution",
		"athena_cancel_query",
	}
}

// handleQuery handles the athena_query tool call.
func (t *Toolkit) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, in queryInput) (*mcp.CallToolResult, any, error) {
	if in.SQL == "" {
		return errorResult("sql is required"), nil, nil
	}

	req := athena.Request{
		SQL:      in.SQL,
		Database: in.Database,
	}
	outcome := t.runner.RunQuery(ctx, req)

	if t.recorder != nil {
		t.recorder(ctx, req, outcome)
	}

	return jsonResult(renderEnvelope(t.runner.Config(), outcome)), nil, nil
}

// renderEnvelope converts a query outcome into the wire envelope.
func renderEnvelope(cfg athena.RunnerConfig, outcome athena.Outcome) queryEnvelope {
	env := queryEnvelope{
		Success:     outcome.Success(),
		ExecutionID: outcome.ExecutionID,
	}

	switch outcome.Kind {
	case athena.OutcomeSuccess:
		if outcome.Table != nil {
			env.Columns = outcome.Table.Columns
			env.Rows = outcome.Table.Rows
		}
		env.RowCount = outcome.RowCount
		env.DataScannedBytes = outcome.Stats.DataScannedBytes
		env.ElapsedMS = outcome.ElapsedMS
	case athena.OutcomeTimeout:
		env.TimeoutMS = cfg.QueryTimeout.Milliseconds()
		env.Error = fmt.Sprintf("query timed out after %s", cfg.QueryTimeout)
	case athena.OutcomeFailure:
		env.Error = outcome.Reason
	}

	return env
}

// handleGetExecution handles the athena_get_execution tool call.
func (t *Toolkit) handleGetExecution(ctx context.Context, _ *mcp.CallToolRequest, in executionInput) (*mcp.CallToolResult, any, error) {
	if in.ExecutionID == "" {
		return errorResult("execution_id is required"), nil, nil
	}

	status, err := t.runner.Status(ctx, in.ExecutionID)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	return jsonResult(executionStatus{
		ExecutionID:      in.ExecutionID,
		State:            string(status.State),
		Reason:           status.Reason,
		DataScannedBytes: status.Stats.DataScannedBytes,
		ExecutionTimeMS:  status.Stats.ExecutionTimeMS,
		QueueTimeMS:      status.Stats.QueueTimeMS,
		PlanningTimeMS:   status.Stats.PlanningTimeMS,
	}), nil, nil
}

// handleCancel handles the athena_cancel_query tool call.
func (t *Toolkit) handleCancel(ctx context.Context, _ *mcp.CallToolRequest, in executionInput) (*mcp.CallToolResult, any, error) {
	if in.ExecutionID == "" {
		return errorResult("execution_id is required"), nil, nil
	}

	ack := t.runner.Cancel(ctx, in.ExecutionID)
	return jsonResult(ack), nil, nil
}

// Close releases resources.
func (*Toolkit) Close() error {
	return nil
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
