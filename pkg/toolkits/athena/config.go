package athena

import (
	"time"

	"github.com/txn2/mcp-athena/pkg/athena"
)

// ParseConfig parses an Athena toolkit configuration from a map.
func ParseConfig(cfg map[string]any) (Config, error) {
	c := Config{
		PollInterval: athena.DefaultPollInterval,
		QueryTimeout: athena.DefaultQueryTimeout,
		MaxRows:      athena.DefaultMaxRows,
	}

	// String fields
	c.Region = getString(cfg, "region")
	c.Profile = getString(cfg, "profile")
	c.AccessKeyID = getString(cfg, "access_key_id")
	c.SecretAccessKey = getString(cfg, "secret_access_key")
	c.SessionToken = getString(cfg, "session_token")
	c.Database = getString(cfg, "database")
	c.Workgroup = getString(cfg, "workgroup")
	c.OutputLocation = getString(cfg, "output_location")
	c.ConnectionName = getString(cfg, "connection_name")

	// Polling and result bounds
	c.PollInterval = getDuration(cfg, "poll_interval", c.PollInterval)
	c.QueryTimeout = getDuration(cfg, "query_timeout", c.QueryTimeout)
	c.MaxRows = getInt32(cfg, "max_rows", c.MaxRows)

	return c, nil
}

// getString extracts a string value from a config map.
func getString(cfg map[string]any, key string) string {
	if v, ok := cfg[key].(string); ok {
		return v
	}
	return ""
}

// getInt32 extracts an int32 value from a config map with a default.
func getInt32(cfg map[string]any, key string, defaultVal int32) int32 {
	if v, ok := cfg[key].(int); ok {
		return int32(v)
	}
	if v, ok := cfg[key].(float64); ok {
		return int32(v)
	}
	return defaultVal
}

// getDuration extracts a duration value from a config map. Bare numbers
// are interpreted as seconds.
func getDuration(cfg map[string]any, key string, defaultVal time.Duration) time.Duration {
	if v, ok := cfg[key].(string); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	if v, ok := cfg[key].(int); ok {
		return time.Duration(v) * time.Second
	}
	if v, ok := cfg[key].(float64); ok {
		return time.Duration(v) * time.Second
	}
	return defaultVal
}
