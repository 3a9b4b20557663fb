// Package graphdb wraps the Neo4j Go driver for bookgraph: one driver per
// process, one write session per migration run, and eager read queries for
// verification.
package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/persistorai/bookgraph/internal/config"
)

// Statement is one parameterized Cypher statement.
type Statement struct {
	Query  string
	Params map[string]any
}

// Counters aggregates the update counters of one or more statements.
type Counters struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	IndexesAdded         int
}

func (c *Counters) add(n neo4j.Counters) {
	c.NodesCreated += n.NodesCreated()
	c.NodesDeleted += n.NodesDeleted()
	c.RelationshipsCreated += n.RelationshipsCreated()
	c.IndexesAdded += n.IndexesAdded()
}

// Client owns the Neo4j driver and the target database name.
type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// NewClient creates the driver and verifies connectivity.
func NewClient(ctx context.Context, cfg *config.GraphConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password.Value(), ""),
		func(c *neo4j.Config) {
			// A failed bulk write fails the run; recovery is a full rerun.
			c.MaxTransactionRetryTime = 0
		})
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx) //nolint:errcheck // already failing.

		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	return &Client{Driver: driver, Database: cfg.Database}, nil
}

// Close closes the driver and every connection it holds.
func (c *Client) Close(ctx context.Context) error {
	return c.Driver.Close(ctx)
}

// NewWriteSession opens the write session a migration run holds until it ends.
func (c *Client) NewWriteSession(ctx context.Context) *Session {
	return &Session{
		session: c.Driver.NewSession(ctx, neo4j.SessionConfig{
			AccessMode:   neo4j.AccessModeWrite,
			DatabaseName: c.Database,
		}),
	}
}

// Query runs a read query and buffers every record.
func (c *Client) Query(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, c.Driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.Database),
		neo4j.ExecuteQueryWithReadersRouting(),
	)
	if err != nil {
		return nil, fmt.Errorf("executing neo4j query: %w", err)
	}

	return result, nil
}
