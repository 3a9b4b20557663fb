package graphdb

import (
	"context"
	"fmt"

	"github.com/saulfrancisco-ruizacevedo/gocypher"

	"github.com/persistorai/bookgraph/internal/models"
)

// Count returns the number of nodes labelled entity.
func (c *Client) Count(ctx context.Context, entity models.EntityType) (int, error) {
	if !entity.Valid() {
		return 0, fmt.Errorf("count %q: %w", entity, models.ErrUnknownEntity)
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", entity.String())).
		Return("count(n) AS total").
		Build()
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}

	return c.total(ctx, query, params)
}

// CountLinks returns the number of rel relationships between a Book and a
// node of rel's target label.
func (c *Client) CountLinks(ctx context.Context, rel models.RelationType) (int, error) {
	if !rel.Valid() {
		return 0, fmt.Errorf("count %q: %w", rel, models.ErrUnknownRelation)
	}

	query := fmt.Sprintf("MATCH (:%s)-[r:%s]->(:%s) RETURN count(r) AS total", rel.Source(), rel, rel.Target())

	return c.total(ctx, query, nil)
}

func (c *Client) total(ctx context.Context, query string, params map[string]any) (int, error) {
	res, err := c.Query(ctx, query, params)
	if err != nil {
		return 0, err
	}

	if len(res.Records) != 1 {
		return 0, fmt.Errorf("count query returned %d records, want 1", len(res.Records))
	}

	v, ok := res.Records[0].Get("total")
	if !ok {
		return 0, fmt.Errorf("count query result has no total column")
	}

	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("count query returned %T, want int64", v)
	}

	return int(n), nil
}
