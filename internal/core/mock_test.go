package core

import (
	"context"
	"maps"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/hiermatch/internal/driver"
)

type executedQuery struct {
	Query  string
	Params map[string]any
}

// MockDriver answers each query with a canned result. Queries without a
// result get an empty one.
type MockDriver struct {
	Results  map[string]neo4j.EagerResult
	Errs     map[string]error
	Executed []executedQuery
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if err := m.Errs[query]; err != nil {
		return neo4j.EagerResult{}, err
	}
	return m.Results[query], nil
}

// ExecuteWrite runs the queries one by one and stops at the first error.
func (m *MockDriver) ExecuteWrite(ctx context.Context, queries []driver.Query) error {
	for _, q := range queries {
		if _, err := m.ExecuteQuery(ctx, q.Cypher, q.Params); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

// memoryStore keeps the parameters of the save queries per snapshot and
// replays them through the load queries, ordered the way the Cypher ORDER BY
// clauses would. Deleting a snapshot drops its data and its marker, and a
// failed write transaction restores the previous state.
type memoryStore struct {
	MockDriver
	snapshots map[string]map[string]map[string]any
	saved     map[string]map[string]any
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snapshots: make(map[string]map[string]map[string]any)}
}

func (m *memoryStore) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if err := m.Errs[query]; err != nil {
		return neo4j.EagerResult{}, err
	}

	name, _ := params["snapshot"].(string)
	m.saved = m.snapshots[name]

	switch query {
	case driver.DeleteSnapshotQuery:
		m.snapshots[name] = make(map[string]map[string]any)
	case driver.SaveModelNodesQuery, driver.SaveContainsEdgesQuery, driver.SaveReferenceEdgesQuery,
		driver.SaveResourcesQuery, driver.SaveSnapshotQuery:
		m.saved[query] = params
	case driver.GetSnapshotQuery:
		if s, ok := m.saved[driver.SaveSnapshotQuery]; ok {
			return result(record([]string{"name", "node_count"}, s["snapshot"], s["node_count"])), nil
		}
	case driver.LoadModelNodesQuery:
		var recs []*neo4j.Record
		for _, n := range m.list(driver.SaveModelNodesQuery, "nodes") {
			recs = append(recs, record([]string{"seq", "type_tag", "label", "attributes"},
				n["seq"], n["type_tag"], n["label"], n["attributes"]))
		}
		return result(recs...), nil
	case driver.LoadContainsEdgesQuery:
		return m.edges(driver.SaveContainsEdgesQuery), nil
	case driver.LoadReferenceEdgesQuery:
		return m.edges(driver.SaveReferenceEdgesQuery), nil
	case driver.LoadResourcesQuery:
		var recs []*neo4j.Record
		keys := []string{"name", "position", "root"}
		for _, r := range m.list(driver.SaveResourcesQuery, "resources") {
			roots, _ := r["roots"].([]any)
			if len(roots) == 0 {
				recs = append(recs, record(keys, r["name"], r["position"], nil))
			}
			for _, root := range roots {
				recs = append(recs, record(keys, r["name"], r["position"], root.(map[string]any)["seq"]))
			}
		}
		return result(recs...), nil
	}
	return neo4j.EagerResult{}, nil
}

func (m *memoryStore) ExecuteWrite(ctx context.Context, queries []driver.Query) error {
	backup := make(map[string]map[string]map[string]any, len(m.snapshots))
	for name, saved := range m.snapshots {
		backup[name] = maps.Clone(saved)
	}
	for _, q := range queries {
		if _, err := m.ExecuteQuery(ctx, q.Cypher, q.Params); err != nil {
			m.snapshots = backup
			return err
		}
	}
	return nil
}

func (m *memoryStore) list(query, key string) []map[string]any {
	params, ok := m.saved[query]
	if !ok {
		return nil
	}
	items, _ := params[key].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, it.(map[string]any))
	}
	return out
}

func (m *memoryStore) edges(query string) neo4j.EagerResult {
	edges := m.list(query, "edges")
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i]["from"] != edges[j]["from"] {
			return edges[i]["from"].(int64) < edges[j]["from"].(int64)
		}
		return edges[i]["position"].(int64) < edges[j]["position"].(int64)
	})
	var recs []*neo4j.Record
	for _, e := range edges {
		recs = append(recs, record([]string{"from", "to"}, e["from"], e["to"]))
	}
	return result(recs...)
}

func result(recs ...*neo4j.Record) neo4j.EagerResult {
	return neo4j.EagerResult{Records: recs}
}
