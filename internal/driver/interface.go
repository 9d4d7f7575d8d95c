package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Query struct {
	Cypher string
	Params map[string]any
}

// GraphDriver is the store that forest snapshots are saved to and loaded
// from. Memgraph and Neo4j both speak it over bolt.
type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
	// ExecuteWrite runs the queries in order inside one write transaction.
	// Either all of them take effect or none.
	ExecuteWrite(ctx context.Context, queries []Query) error
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
