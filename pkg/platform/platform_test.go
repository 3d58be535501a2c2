package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/mcp-athena/pkg/athena"
	"github.com/txn2/mcp-athena/pkg/audit"
	"github.com/txn2/mcp-athena/pkg/catalog"
)

// fakeEngine implements athena.Engine for platform tests.
type fakeEngine struct {
	status *athena.Status
	closed bool
}

func (*fakeEngine) Submit(_ context.Context, _ athena.Request, _ string) (string, error) {
	return "exec-1", nil
}

func (f *fakeEngine) ExecutionStatus(_ context.Context, _ string) (*athena.Status, error) {
	if f.status != nil {
		return f.status, nil
	}
	return &athena.Status{State: athena.StateSucceeded}, nil
}

func (*fakeEngine) FetchResults(_ context.Context, _ string, _ int32) (*athena.RawResultSet, error) {
	return &athena.RawResultSet{}, nil
}

func (*fakeEngine) CancelExecution(_ context.Context, _ string) error {
	return nil
}

func (f *fakeEngine) Close() error {
	f.closed = true
	return nil
}

// fakeIdentity implements athena.IdentityResolver.
type fakeIdentity struct{}

func (*fakeIdentity) AccountID(_ context.Context) (string, error) {
	return "123456789012", nil
}

func testConfig() *Config {
	cfg := &Config{
		AWS: AWSConfig{Region: "us-east-1"},
		Toolkits: map[string]any{
			"athena": map[string]any{
				"database": "analytics",
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}

func newTestPlatform(t *testing.T, cfg *Config, extra ...Option) *Platform {
	t.Helper()
	opts := append([]Option{
		WithConfig(cfg),
		WithEngine(&fakeEngine{}),
		WithIdentity(&fakeIdentity{}),
		WithCatalogProvider(catalog.NewNoopProvider()),
		WithAuditLogger(&audit.NoopLogger{}),
	}, extra...)

	p, err := New(context.Background(), opts...)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	t.Run("requires config", func(t *testing.T) {
		_, err := New(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config is required")
	})

	t.Run("validates config", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.Transport = "grpc"
		_, err := New(context.Background(), WithConfig(cfg), WithEngine(&fakeEngine{}))
		assert.Error(t, err)
	})

	t.Run("builds server and toolkits", func(t *testing.T) {
		p := newTestPlatform(t, testConfig())
		defer func() { _ = p.Close() }()

		assert.NotNil(t, p.MCPServer())
		assert.NotNil(t, p.Runner())
		require.Len(t, p.Toolkits(), 2)
		assert.Equal(t, "athena", p.Toolkits()[0].Kind())
		assert.Equal(t, "catalog", p.Toolkits()[1].Kind())
	})
}

func TestRunnerConfigFromToolkitSection(t *testing.T) {
	cfg := testConfig()
	cfg.Toolkits["athena"] = map[string]any{
		"database":        "sales",
		"workgroup":       "primary",
		"output_location": "s3://results/",
		"max_rows":        50,
	}

	p := newTestPlatform(t, cfg)
	defer func() { _ = p.Close() }()

	runnerCfg := p.Runner().Config()
	assert.Equal(t, "sales", runnerCfg.Database)
	assert.Equal(t, "primary", runnerCfg.Workgroup)
	assert.Equal(t, "s3://results/", runnerCfg.OutputLocation)
	assert.Equal(t, int32(50), runnerCfg.MaxRows)
	assert.Equal(t, athena.DefaultPollInterval, runnerCfg.PollInterval)
}

func TestAWSRegionFallsThrough(t *testing.T) {
	cfg := testConfig()
	cfg.AWS.Region = "eu-central-1"

	p := newTestPlatform(t, cfg)
	defer func() { _ = p.Close() }()

	assert.Equal(t, "eu-central-1", p.Runner().Config().Region)
}

func TestAuditDisabledUsesSlogLogger(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = false

	p, err := New(context.Background(),
		WithConfig(cfg),
		WithEngine(&fakeEngine{}),
		WithIdentity(&fakeIdentity{}),
		WithCatalogProvider(catalog.NewNoopProvider()),
	)
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	_, ok := p.auditLogger.(*audit.SlogLogger)
	assert.True(t, ok, "expected slog audit logger when auditing is disabled")
}

func TestRecordQuery(t *testing.T) {
	recorder := &recordingLogger{}
	p := newTestPlatform(t, testConfig(), WithAuditLogger(recorder))
	defer func() { _ = p.Close() }()

	outcome := p.Runner().RunQuery(context.Background(), athena.Request{SQL: "SELECT 1"})
	p.recordQuery(context.Background(), athena.Request{SQL: "SELECT 1"}, outcome)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, "SELECT 1", recorder.events[0].SQL)
	assert.Equal(t, "exec-1", recorder.events[0].ExecutionID)
}

// recordingLogger captures audit events in memory.
type recordingLogger struct {
	events []audit.Event
}

func (r *recordingLogger) Log(_ context.Context, event audit.Event) error {
	r.events = append(r.events, event)
	return nil
}

func (*recordingLogger) Query(_ context.Context, _ audit.QueryFilter) ([]audit.Event, error) {
	return nil, nil
}

func (*recordingLogger) Close() error { return nil }

func TestClose(t *testing.T) {
	engine := &fakeEngine{}
	p := newTestPlatform(t, testConfig(), WithEngine(engine))

	require.NoError(t, p.Close())
	assert.True(t, engine.closed)
}
