package platform

import (
	"github.com/txn2/mcp-athena/pkg/athena"
	"github.com/txn2/mcp-athena/pkg/audit"
	"github.com/txn2/mcp-athena/pkg/catalog"
)

// Options holds optional dependency overrides for platform construction.
// Unset dependencies are built from configuration.
type Options struct {
	Config          *Config
	Engine          athena.Engine
	Identity        athena.IdentityResolver
	CatalogProvider catalog.Provider
	AuditLogger     audit.Logger
}

// Option configures platform options.
type Option func(*Options)

// WithConfig sets the platform configuration.
func WithConfig(cfg *Config) Option {
	return func(o *Options) {
		o.Config = cfg
	}
}

// WithEngine injects a query engine, bypassing AWS client construction.
func WithEngine(engine athena.Engine) Option {
	return func(o *Options) {
		o.Engine = engine
	}
}

// WithIdentity injects an identity resolver.
func WithIdentity(identity athena.IdentityResolver) Option {
	return func(o *Options) {
		o.Identity = identity
	}
}

// WithCatalogProvider injects a catalog provider.
func WithCatalogProvider(provider catalog.Provider) Option {
	return func(o *Options) {
		o.CatalogProvider = provider
	}
}

// WithAuditLogger injects an audit logger, bypassing database setup.
func WithAuditLogger(logger audit.Logger) Option {
	return func(o *Options) {
		o.AuditLogger = logger
	}
}
