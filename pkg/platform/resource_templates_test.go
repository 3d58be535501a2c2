package platform

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/mcp-athena/pkg/athena"
)

func TestParseTemplateVars(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		vars, err := parseTemplateVars(executionTemplateURI, "execution://exec-123")
		require.NoError(t, err)
		assert.Equal(t, "exec-123", vars["execution_id"])
	})

	t.Run("no match", func(t *testing.T) {
		_, err := parseTemplateVars(executionTemplateURI, "schema://foo/bar")
		assert.Error(t, err)
	})
}

func TestHandleExecutionResource(t *testing.T) {
	engine := &fakeEngine{
		status: &athena.Status{
			State:  athena.StateFailed,
			Reason: "SYNTAX_ERROR",
			Stats:  athena.Stats{DataScannedBytes: 1024},
		},
	}
	cfg := testConfig()
	cfg.Resources.Enabled = true
	p := newTestPlatform(t, cfg, WithEngine(engine))
	defer func() { _ = p.Close() }()

	result, err := p.handleExecutionResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "execution://exec-42"},
	})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	var status executionResourceResult
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &status))
	assert.Equal(t, "exec-42", status.ExecutionID)
	assert.Equal(t, "FAILED", status.State)
	assert.True(t, status.Terminal)
	assert.Equal(t, "SYNTAX_ERROR", status.Reason)
	assert.Equal(t, int64(1024), status.DataScannedBytes)
}

func TestHandleExecutionResource_BadURI(t *testing.T) {
	p := newTestPlatform(t, testConfig())
	defer func() { _ = p.Close() }()

	_, err := p.handleExecutionResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "bogus://nope"},
	})
	assert.Error(t, err)
}

func TestInfoTool(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = false
	cfg.Resources.Enabled = true
	p := newTestPlatform(t, cfg)
	defer func() { _ = p.Close() }()

	result, _, err := p.handleInfo(context.Background(), nil)
	require.NoError(t, err)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var info Info
	require.NoError(t, json.Unmarshal([]byte(text.Text), &info))
	assert.Equal(t, "mcp-athena", info.Name)
	assert.Contains(t, info.Toolkits, "athena")
	assert.Contains(t, info.Toolkits, "catalog")
	assert.Contains(t, info.Tools, "athena_query")
	assert.Contains(t, info.Tools, "athena_list_databases")
	assert.True(t, info.Features.ResourceTemplates)
	assert.False(t, info.Features.AuditLogging)
}
