package platform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
)

// Resource template URI patterns.
const (
	executionTemplateURI = "execution://{execution_id}"
)

// registerResourceTemplates registers all MCP resource templates.
// Only called when resources.enabled is true.
func (p *Platform) registerResourceTemplates() {
	if !p.config.Resources.Enabled {
		return
	}

	p.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: executionTemplateURI,
		Name:        "Query Execution",
		Description: "Current state, failure reason and statistics of one query execution",
		MIMEType:    "application/json",
	}, p.handleExecutionResource)
}

// parseTemplateVars extracts named variables from a URI using a URI template.
// Returns a map of variable names to their values, or an error if the URI
// doesn't match the template.
func parseTemplateVars(templateStr, uri string) (map[string]string, error) {
	tmpl, err := uritemplate.New(templateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid template %q: %w", templateStr, err)
	}

	match := tmpl.Match(uri)
	if match == nil {
		return nil, fmt.Errorf("uri %q does not match template %q", uri, templateStr)
	}

	result := make(map[string]string)
	for _, name := range tmpl.Varnames() {
		val := match.Get(name)
		result[name] = val.String()
	}
	return result, nil
}

// executionResourceResult wraps execution status for serialization.
type executionResourceResult struct {
	ExecutionID      string `json:"execution_id"`
	State            string `json:"state"`
	Terminal         bool   `json:"terminal"`
	Reason           string `json:"reason,omitempty"`
	DataScannedBytes int64  `json:"data_scanned_bytes"`
	ExecutionTimeMS  int64  `json:"execution_time_ms"`
	QueueTimeMS      int64  `json:"queue_time_ms"`
	PlanningTimeMS   int64  `json:"planning_time_ms"`
}

// handleExecutionResource handles execution://{execution_id} requests.
func (p *Platform) handleExecutionResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	vars, err := parseTemplateVars(executionTemplateURI, uri)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri) //nolint:wrapcheck // MCP protocol error returned as-is for SDK type matching
	}

	executionID := vars["execution_id"]
	if executionID == "" {
		return nil, mcp.ResourceNotFoundError(uri) //nolint:wrapcheck // MCP protocol error returned as-is for SDK type matching
	}

	status, err := p.runner.Status(ctx, executionID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri) //nolint:wrapcheck // MCP protocol error returned as-is for SDK type matching
	}

	result := executionResourceResult{
		ExecutionID:      executionID,
		State:            string(status.State),
		Terminal:         status.State.Terminal(),
		Reason:           status.Reason,
		DataScannedBytes: status.Stats.DataScannedBytes,
		ExecutionTimeMS:  status.Stats.ExecutionTimeMS,
		QueueTimeMS:      status.Stats.QueueTimeMS,
		PlanningTimeMS:   status.Stats.PlanningTimeMS,
	}

	return marshalResourceResult(uri, result)
}

// marshalResourceResult marshals a value to JSON and wraps it in a ReadResourceResult.
func marshalResourceResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
