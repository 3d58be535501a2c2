package platform

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Registers the postgres driver for the audit store.
	_ "github.com/lib/pq"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-athena/pkg/athena"
	"github.com/txn2/mcp-athena/pkg/athena/awsathena"
	"github.com/txn2/mcp-athena/pkg/audit"
	auditpg "github.com/txn2/mcp-athena/pkg/audit/postgres"
	"github.com/txn2/mcp-athena/pkg/catalog"
	"github.com/txn2/mcp-athena/pkg/catalog/glue"
	"github.com/txn2/mcp-athena/pkg/database/migrate"
	athenatoolkit "github.com/txn2/mcp-athena/pkg/toolkits/athena"
	catalogtoolkit "github.com/txn2/mcp-athena/pkg/toolkits/catalog"
)

// auditCleanupInterval is how often expired audit events are purged.
const auditCleanupInterval = 24 * time.Hour

// Toolkit is the contract every registered toolkit satisfies.
type Toolkit interface {
	Kind() string
	Name() string
	Connection() string
	RegisterTools(s *mcp.Server)
	Tools() []string
	Close() error
}

// Platform wires the query engine, catalog, audit store and toolkits
// into one MCP server.
type Platform struct {
	config *Config

	mcpServer *mcp.Server

	engine          athena.Engine
	identity        athena.IdentityResolver
	runner          *athena.Runner
	catalogProvider catalog.Provider
	auditLogger     audit.Logger
	db              *sql.DB

	toolkits []Toolkit
}

// New creates a new platform instance.
func New(ctx context.Context, opts ...Option) (*Platform, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := options.Config.Validate(); err != nil {
		return nil, err
	}

	p := &Platform{config: options.Config}

	if err := p.initializeComponents(ctx, options); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("initializing components: %w", err)
	}

	return p, nil
}

// initializeComponents initializes all platform components.
func (p *Platform) initializeComponents(ctx context.Context, opts *Options) error {
	athenaCfg, err := p.athenaToolkitConfig()
	if err != nil {
		return err
	}

	if err := p.initEngine(ctx, opts, athenaCfg); err != nil {
		return err
	}
	if err := p.initCatalog(ctx, opts, athenaCfg); err != nil {
		return err
	}
	if err := p.initAudit(opts); err != nil {
		return err
	}
	if err := p.initRunner(athenaCfg); err != nil {
		return err
	}
	if err := p.initToolkits(athenaCfg); err != nil {
		return err
	}
	p.finalizeSetup()
	return nil
}

// athenaToolkitConfig parses the athena toolkit section, filling AWS
// fields from the shared aws section when the toolkit omits them.
func (p *Platform) athenaToolkitConfig() (athenatoolkit.Config, error) {
	raw, _ := p.config.Toolkits["athena"].(map[string]any)
	cfg, err := athenatoolkit.ParseConfig(raw)
	if err != nil {
		return cfg, fmt.Errorf("parsing athena toolkit config: %w", err)
	}

	if cfg.Region == "" {
		cfg.Region = p.config.AWS.Region
	}
	if cfg.Profile == "" {
		cfg.Profile = p.config.AWS.Profile
	}
	if cfg.AccessKeyID == "" {
		cfg.AccessKeyID = p.config.AWS.AccessKeyID
		cfg.SecretAccessKey = p.config.AWS.SecretAccessKey
		cfg.SessionToken = p.config.AWS.SessionToken
	}
	return cfg, nil
}

// awsConfig converts a toolkit config into the shared AWS client config.
func awsConfig(cfg athenatoolkit.Config) awsathena.Config {
	return awsathena.Config{
		Region:          cfg.Region,
		Profile:         cfg.Profile,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		SessionToken:    cfg.SessionToken,
	}
}

// initEngine initializes the query engine and identity resolver.
func (p *Platform) initEngine(ctx context.Context, opts *Options, cfg athenatoolkit.Config) error {
	if opts.Engine != nil {
		p.engine = opts.Engine
	} else {
		engine, err := awsathena.NewFromConfig(ctx, awsConfig(cfg))
		if err != nil {
			return fmt.Errorf("creating athena engine: %w", err)
		}
		p.engine = engine
	}

	if opts.Identity != nil {
		p.identity = opts.Identity
	} else {
		identity, err := awsathena.NewIdentityFromConfig(ctx, awsConfig(cfg))
		if err != nil {
			return fmt.Errorf("creating identity resolver: %w", err)
		}
		p.identity = identity
	}
	return nil
}

// initCatalog initializes the data catalog provider.
func (p *Platform) initCatalog(ctx context.Context, opts *Options, cfg athenatoolkit.Config) error {
	if opts.CatalogProvider != nil {
		p.catalogProvider = opts.CatalogProvider
		return nil
	}

	provider, err := glue.NewFromConfig(ctx, awsConfig(cfg))
	if err != nil {
		return fmt.Errorf("creating glue catalog provider: %w", err)
	}
	p.catalogProvider = provider
	return nil
}

// initAudit initializes the audit logger. With auditing disabled events
// go to the structured log only.
func (p *Platform) initAudit(opts *Options) error {
	if opts.AuditLogger != nil {
		p.auditLogger = opts.AuditLogger
		return nil
	}

	if !p.config.Audit.Enabled {
		p.auditLogger = audit.NewSlogLogger(nil)
		return nil
	}

	db, err := sql.Open("postgres", p.config.Audit.DSN)
	if err != nil {
		return fmt.Errorf("opening audit database: %w", err)
	}
	db.SetMaxOpenConns(p.config.Audit.MaxOpenConns)
	p.db = db

	if err := migrate.Run(db); err != nil {
		return fmt.Errorf("migrating audit database: %w", err)
	}

	store := auditpg.New(db, auditpg.Config{RetentionDays: p.config.Audit.RetentionDays})
	store.StartCleanupRoutine(auditCleanupInterval)
	p.auditLogger = store
	return nil
}

// initRunner builds the query runner from the toolkit configuration.
func (p *Platform) initRunner(cfg athenatoolkit.Config) error {
	runner, err := athena.NewRunner(p.engine, p.identity, athena.RunnerConfig{
		Region:         cfg.Region,
		Database:       cfg.Database,
		Workgroup:      cfg.Workgroup,
		OutputLocation: cfg.OutputLocation,
		PollInterval:   cfg.PollInterval,
		QueryTimeout:   cfg.QueryTimeout,
		MaxRows:        cfg.MaxRows,
	})
	if err != nil {
		return fmt.Errorf("creating query runner: %w", err)
	}
	p.runner = runner
	return nil
}

// initToolkits builds the athena and catalog toolkits.
func (p *Platform) initToolkits(cfg athenatoolkit.Config) error {
	queryToolkit, err := athenatoolkit.New("athena", cfg, p.runner,
		athenatoolkit.WithQueryRecorder(p.recordQuery))
	if err != nil {
		return fmt.Errorf("creating athena toolkit: %w", err)
	}
	p.toolkits = append(p.toolkits, queryToolkit)

	catalogCfg := catalogtoolkit.Config{}
	if raw, ok := p.config.Toolkits["catalog"].(map[string]any); ok {
		if name, ok := raw["connection_name"].(string); ok {
			catalogCfg.ConnectionName = name
		}
	}
	discoveryToolkit, err := catalogtoolkit.New("catalog", catalogCfg, p.catalogProvider)
	if err != nil {
		return fmt.Errorf("creating catalog toolkit: %w", err)
	}
	p.toolkits = append(p.toolkits, discoveryToolkit)
	return nil
}

// recordQuery writes one audit event per completed query.
func (p *Platform) recordQuery(ctx context.Context, req athena.Request, outcome athena.Outcome) {
	if p.auditLogger == nil {
		return
	}
	if err := p.auditLogger.Log(ctx, audit.NewEvent(req, outcome)); err != nil {
		slog.Warn("writing audit event failed", "error", err)
	}
}

// finalizeSetup creates the MCP server and registers all tools and
// resource templates.
func (p *Platform) finalizeSetup() {
	p.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    p.config.Server.Name,
		Version: p.config.Server.Version,
	}, nil)

	for _, toolkit := range p.toolkits {
		toolkit.RegisterTools(p.mcpServer)
	}
	p.registerInfoTool()
	p.registerResourceTemplates()
}

// MCPServer returns the MCP server.
func (p *Platform) MCPServer() *mcp.Server {
	return p.mcpServer
}

// Config returns the platform configuration.
func (p *Platform) Config() *Config {
	return p.config
}

// Runner returns the query runner.
func (p *Platform) Runner() *athena.Runner {
	return p.runner
}

// Toolkits returns the registered toolkits.
func (p *Platform) Toolkits() []Toolkit {
	return p.toolkits
}

// closeResource closes a resource and appends any error.
func closeResource(errs *[]error, closeFn func() error) {
	if closeFn == nil {
		return
	}
	if err := closeFn(); err != nil {
		*errs = append(*errs, err)
	}
}

// Close closes all platform resources.
func (p *Platform) Close() error {
	var errs []error

	for _, toolkit := range p.toolkits {
		closeResource(&errs, toolkit.Close)
	}
	if p.engine != nil {
		closeResource(&errs, p.engine.Close)
	}
	if p.auditLogger != nil {
		closeResource(&errs, p.auditLogger.Close)
	}
	if p.db != nil {
		closeResource(&errs, p.db.Close)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing platform: %v", errs)
	}
	return nil
}
