// Package config provides environment-driven configuration for bookgraph.
//
// Values are resolved in order: environment variables, then an optional YAML
// file, then built-in defaults. A .env file in the working directory is
// loaded into the environment first without overriding variables that are
// already set.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Supported relational source drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SourceConfig describes the relational store the catalogue is read from.
type SourceConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     Secret
	Database     string
	SSLMode      string
	SQLitePath   string
	QueryTimeout time.Duration
}

// GraphConfig describes the Neo4j destination.
type GraphConfig struct {
	URI      string
	Username string
	Password Secret
	Database string
	// BatchSize splits bulk statements into chunks of this many rows.
	// Zero sends every batch as a single statement.
	BatchSize int
}

// Config holds all application configuration values.
type Config struct {
	Source         SourceConfig
	Graph          GraphConfig
	LogLevel       string
	LogFormat      string
	DryRun         bool
	PushgatewayURL string
}

// Load reads and validates the full configuration. path names an optional
// YAML file; when empty, BOOKGRAPH_CONFIG is consulted.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(true); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadSource is like Load but does not require the graph settings. It serves
// commands that only touch the relational store.
func LoadSource(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(false); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func load(path string) (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // a missing .env file is normal.

	if path == "" {
		path = os.Getenv("BOOKGRAPH_CONFIG")
	}

	var f fileConfig
	if path != "" {
		var err error
		if f, err = readFile(path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Source: SourceConfig{
			Driver:     envOrDefault("SOURCE_DRIVER", f.Source.Driver, DriverPostgres),
			Host:       envOrDefault("DB_HOST", f.Source.Host, "localhost"),
			User:       envOrDefault("DB_USER", f.Source.User, ""),
			Password:   Secret(envOrDefault("DB_PASSWORD", f.Source.Password, "")),
			Database:   envOrDefault("DB_NAME", f.Source.Database, ""),
			SSLMode:    envOrDefault("DB_SSLMODE", f.Source.SSLMode, "prefer"),
			SQLitePath: envOrDefault("SQLITE_PATH", f.Source.SQLitePath, ""),
		},
		Graph: GraphConfig{
			URI:      envOrDefault("NEO4J_URI", f.Graph.URI, ""),
			Username: envOrDefault("NEO4J_USERNAME", f.Graph.Username, "neo4j"),
			Password: Secret(envOrDefault("NEO4J_PASSWORD", f.Graph.Password, "")),
			Database: envOrDefault("NEO4J_DATABASE", f.Graph.Database, "neo4j"),
		},
		LogLevel:       envOrDefault("LOG_LEVEL", f.LogLevel, "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", f.LogFormat, "text"),
		PushgatewayURL: envOrDefault("METRICS_PUSHGATEWAY_URL", f.PushgatewayURL, ""),
	}

	port, err := strconv.Atoi(envOrDefault("DB_PORT", intString(f.Source.Port), "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT must be a valid integer: %w", err)
	}
	cfg.Source.Port = port

	timeout, err := time.ParseDuration(envOrDefault("QUERY_TIMEOUT", f.Source.QueryTimeout, "5m"))
	if err != nil {
		return nil, fmt.Errorf("QUERY_TIMEOUT must be a duration such as 90s or 5m: %w", err)
	}
	cfg.Source.QueryTimeout = timeout

	batch, err := strconv.Atoi(envOrDefault("GRAPH_BATCH_SIZE", intString(f.Graph.BatchSize), "0"))
	if err != nil {
		return nil, fmt.Errorf("GRAPH_BATCH_SIZE must be a valid integer: %w", err)
	}
	cfg.Graph.BatchSize = batch

	dryRun := envOrDefault("DRY_RUN", boolString(f.DryRun), "false")
	cfg.DryRun = dryRun == "true" || dryRun == "1"

	return cfg, nil
}

// URL returns the PostgreSQL connection URL for the source.
func (s *SourceConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     s.Host + ":" + strconv.Itoa(s.Port),
		Path:     "/" + s.Database,
		RawQuery: url.Values{"sslmode": []string{s.SSLMode}}.Encode(),
	}
	if s.User != "" {
		u.User = url.UserPassword(s.User, s.Password.Value())
	}

	return u.String()
}

// Describe returns a credential-free description of the source for logs.
func (s *SourceConfig) Describe() string {
	if s.Driver == DriverSQLite {
		return "sqlite:" + s.SQLitePath
	}

	return fmt.Sprintf("postgres://%s:%d/%s", s.Host, s.Port, s.Database)
}

func envOrDefault(key, fileValue, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	if fileValue != "" {
		return fileValue
	}

	return fallback
}

func intString(v int) string {
	if v == 0 {
		return ""
	}

	return strconv.Itoa(v)
}

func boolString(v bool) string {
	if !v {
		return ""
	}

	return "true"
}
