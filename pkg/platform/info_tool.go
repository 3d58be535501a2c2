package platform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Info contains information about the server deployment.
type Info struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Toolkits    []string `json:"toolkits"`
	Tools       []string `json:"tools"`
	Features    Features `json:"features"`
}

// Features describes enabled server features.
type Features struct {
	AuditLogging      bool `json:"audit_logging"`
	ResourceTemplates bool `json:"resource_templates"`
}

// serverInfoInput is empty since this tool has no parameters.
type serverInfoInput struct{}

// registerInfoTool registers the server_info tool with the MCP server.
func (p *Platform) registerInfoTool() {
	mcp.AddTool(p.mcpServer, &mcp.Tool{
		Name:        "server_info",
		Description: p.buildInfoToolDescription(),
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ serverInfoInput) (*mcp.CallToolResult, any, error) {
		return p.handleInfo(ctx, req)
	})
}

// buildInfoToolDescription builds a tool description based on configuration.
func (p *Platform) buildInfoToolDescription() string {
	base := "Get information about this Athena MCP server"
	if p.config.Server.Name != "" && p.config.Server.Name != "mcp-athena" {
		base = fmt.Sprintf("Get information about %s", p.config.Server.Name)
	}
	return base + ", including available tools and enabled features. " +
		"Call this first to understand what query and catalog capabilities are available."
}

// handleInfo handles the server_info tool call.
func (p *Platform) handleInfo(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, any, error) {
	var kinds, tools []string
	for _, toolkit := range p.toolkits {
		kinds = append(kinds, toolkit.Kind())
		tools = append(tools, toolkit.Tools()...)
	}

	info := Info{
		Name:        p.config.Server.Name,
		Version:     p.config.Server.Version,
		Description: p.config.Server.Description,
		Toolkits:    kinds,
		Tools:       tools,
		Features: Features{
			AuditLogging:      p.config.Audit.Enabled,
			ResourceTemplates: p.config.Resources.Enabled,
		},
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{ //nolint:nilerr // MCP protocol: tool errors are returned in CallToolResult.IsError, not as Go errors
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Error: " + err.Error()},
			},
			IsError: true,
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
