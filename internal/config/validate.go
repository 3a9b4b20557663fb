package config

import (
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
)

func (c *Config) validate(withGraph bool) error {
	if err := c.validateSource(); err != nil {
		return err
	}

	if withGraph {
		if err := c.validateGraph(); err != nil {
			return err
		}
	}

	return c.validateRun()
}

func (c *Config) validateSource() error {
	s := &c.Source

	switch s.Driver {
	case DriverSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when SOURCE_DRIVER is sqlite")
		}
	case DriverPostgres:
		if err := s.validatePostgres(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("SOURCE_DRIVER must be 'postgres' or 'sqlite', got %q", s.Driver)
	}

	if s.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}

	return nil
}

func (s *SourceConfig) validatePostgres() error {
	if s.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if s.Database == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if s.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535")
	}

	switch s.SSLMode {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("DB_SSLMODE %q is not a valid libpq sslmode", s.SSLMode)
	}

	if s.SSLMode == "disable" && !isLocalHost(s.Host) {
		return fmt.Errorf("DB_SSLMODE=disable is not allowed for non-local host %q", s.Host)
	}

	return nil
}

func (c *Config) validateGraph() error {
	g := &c.Graph

	if g.URI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}

	u, err := url.Parse(g.URI)
	if err != nil {
		return fmt.Errorf("NEO4J_URI is not a valid URL: %w", err)
	}

	switch u.Scheme {
	case "neo4j", "neo4j+s", "neo4j+ssc", "bolt", "bolt+s", "bolt+ssc":
	default:
		return fmt.Errorf("NEO4J_URI scheme must be neo4j or bolt (optionally +s/+ssc), got %q", u.Scheme)
	}

	if u.Hostname() == "" {
		return fmt.Errorf("NEO4J_URI must include a host")
	}

	if g.Username == "" {
		return fmt.Errorf("NEO4J_USERNAME is required")
	}

	if g.BatchSize < 0 {
		return fmt.Errorf("GRAPH_BATCH_SIZE must not be negative")
	}

	return nil
}

func (c *Config) validateRun() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}

	if c.PushgatewayURL != "" {
		u, err := url.ParseRequestURI(c.PushgatewayURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("METRICS_PUSHGATEWAY_URL must be an http(s) URL, got %q", c.PushgatewayURL)
		}
	}

	return nil
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
