package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Session is a single Neo4j write session.
type Session struct {
	session neo4j.SessionWithContext
}

// Write runs stmts in order inside one managed write transaction and returns
// their summed counters. Either every statement commits or none does.
func (s *Session) Write(ctx context.Context, stmts ...Statement) (Counters, error) {
	out, err := s.session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		var counters Counters

		for i, stmt := range stmts {
			res, err := tx.Run(ctx, stmt.Query, stmt.Params)
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}

			summary, err := res.Consume(ctx)
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}

			counters.add(summary.Counters())
		}

		return counters, nil
	})
	if err != nil {
		return Counters{}, err
	}

	return out.(Counters), nil //nolint:forcetypeassert // the work function only returns Counters.
}

// Close releases the session.
func (s *Session) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}
