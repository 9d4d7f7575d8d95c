package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/hiermatch/internal/core/model"
	"github.com/agenthands/hiermatch/internal/driver"
)

var (
	ErrNoStore          = errors.New("no snapshot store configured")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

type SnapshotInfo struct {
	Name      string `json:"name"`
	NodeCount int64  `json:"node_count"`
}

// SaveSnapshot stores a forest under name, replacing an earlier snapshot of
// the same name.
func (s *Service) SaveSnapshot(ctx context.Context, name string, f *model.Forest) error {
	if s.Driver == nil {
		return ErrNoStore
	}
	if err := f.Validate(); err != nil {
		return err
	}

	nodes := make([]any, 0, len(f.Nodes))
	var contains, references []any
	for _, n := range f.Nodes {
		attrs := "{}"
		if len(n.Attributes) > 0 {
			data, err := json.Marshal(n.Attributes)
			if err != nil {
				return fmt.Errorf("failed to encode attributes of node %d: %w", n.ID, err)
			}
			attrs = string(data)
		}
		nodes = append(nodes, map[string]any{
			"uuid":       s.UUIDGenerator(),
			"seq":        int64(n.ID),
			"type_tag":   n.TypeTag,
			"label":      n.Label,
			"attributes": attrs,
		})
		for i, c := range n.Children {
			contains = append(contains, edgeParam(n.ID, c, i))
		}
		for i, r := range n.References {
			references = append(references, edgeParam(n.ID, r, i))
		}
	}

	resources := make([]any, 0, len(f.Resources))
	for i, res := range f.Resources {
		roots := make([]any, 0, len(res.Roots))
		for j, r := range res.Roots {
			roots = append(roots, map[string]any{"seq": int64(r), "position": int64(j)})
		}
		resources = append(resources, map[string]any{
			"name":     res.Name,
			"position": int64(i),
			"roots":    roots,
		})
	}

	// The marker node is written last, so an interrupted save never looks
	// like a complete snapshot.
	queries := []driver.Query{
		{Cypher: driver.DeleteSnapshotQuery, Params: map[string]any{}},
		{Cypher: driver.SaveModelNodesQuery, Params: map[string]any{"nodes": nodes}},
		{Cypher: driver.SaveContainsEdgesQuery, Params: map[string]any{"edges": contains}},
		{Cypher: driver.SaveReferenceEdgesQuery, Params: map[string]any{"edges": references}},
		{Cypher: driver.SaveResourcesQuery, Params: map[string]any{"resources": resources}},
		{Cypher: driver.SaveSnapshotQuery, Params: map[string]any{"saved_at": s.Now(), "node_count": int64(len(f.Nodes))}},
	}
	for _, q := range queries {
		q.Params["snapshot"] = name
	}
	if err := s.Driver.ExecuteWrite(ctx, queries); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	return nil
}

func edgeParam(from, to model.NodeID, position int) map[string]any {
	return map[string]any{"from": int64(from), "to": int64(to), "position": int64(position)}
}

// LoadSnapshot rebuilds a stored forest with the node order it was saved in.
func (s *Service) LoadSnapshot(ctx context.Context, name string) (*model.Forest, error) {
	if s.Driver == nil {
		return nil, ErrNoStore
	}
	params := map[string]any{"snapshot": name}

	exists, err := s.Driver.ExecuteQuery(ctx, driver.GetSnapshotQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to look up snapshot %s: %w", name, err)
	}
	if len(exists.Records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}

	f := model.NewForest()

	res, err := s.Driver.ExecuteQuery(ctx, driver.LoadModelNodesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes of %s: %w", name, err)
	}
	for i, rec := range res.Records {
		seq, err := recordInt(rec, "seq")
		if err != nil {
			return nil, err
		}
		if seq != int64(i) {
			return nil, fmt.Errorf("%w: snapshot %s has node sequence gap at %d", model.ErrInvalidInput, name, i)
		}
		id := f.AddNode(recordString(rec, "type_tag"), recordString(rec, "label"))
		if raw := recordString(rec, "attributes"); raw != "" && raw != "{}" {
			var attrs map[string]string
			if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
				return nil, fmt.Errorf("failed to decode attributes of node %d: %w", id, err)
			}
			for k, v := range attrs {
				f.SetAttr(id, k, v)
			}
		}
	}

	if err := s.loadEdges(ctx, f, driver.LoadContainsEdgesQuery, params, f.AddChild); err != nil {
		return nil, err
	}
	if err := s.loadEdges(ctx, f, driver.LoadReferenceEdgesQuery, params, f.AddReference); err != nil {
		return nil, err
	}

	res, err = s.Driver.ExecuteQuery(ctx, driver.LoadResourcesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load resources of %s: %w", name, err)
	}
	lastPosition := int64(-1)
	for _, rec := range res.Records {
		position, err := recordInt(rec, "position")
		if err != nil {
			return nil, err
		}
		if position != lastPosition {
			f.AddResource(recordString(rec, "name"))
			lastPosition = position
		}
		if v, ok := rec.Get("root"); ok && v != nil {
			root, ok := v.(int64)
			if !ok || !f.Has(model.NodeID(root)) {
				return nil, fmt.Errorf("%w: snapshot %s has invalid root %v", model.ErrInvalidInput, name, v)
			}
			last := &f.Resources[len(f.Resources)-1]
			last.Roots = append(last.Roots, model.NodeID(root))
		}
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	return f, nil
}

func (s *Service) loadEdges(ctx context.Context, f *model.Forest, query string, params map[string]any, link func(from, to model.NodeID)) error {
	res, err := s.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return fmt.Errorf("failed to load edges: %w", err)
	}
	for _, rec := range res.Records {
		from, err := recordInt(rec, "from")
		if err != nil {
			return err
		}
		to, err := recordInt(rec, "to")
		if err != nil {
			return err
		}
		if !f.Has(model.NodeID(from)) || !f.Has(model.NodeID(to)) {
			return fmt.Errorf("%w: edge %d -> %d outside the snapshot", model.ErrInvalidInput, from, to)
		}
		link(model.NodeID(from), model.NodeID(to))
	}
	return nil
}

func (s *Service) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	if s.Driver == nil {
		return nil, ErrNoStore
	}
	res, err := s.Driver.ExecuteQuery(ctx, driver.ListSnapshotsQuery, nil)
	if err != nil {
		return nil, err
	}

	var snapshots []SnapshotInfo
	for _, rec := range res.Records {
		count, err := recordInt(rec, "node_count")
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot list: %w", err)
		}
		snapshots = append(snapshots, SnapshotInfo{
			Name:      recordString(rec, "name"),
			NodeCount: count,
		})
	}
	return snapshots, nil
}

func recordInt(rec *neo4j.Record, key string) (int64, error) {
	v, ok := rec.Get(key)
	if !ok {
		return 0, fmt.Errorf("record has no field %s", key)
	}
	i, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("field %s is %T, not an integer", key, v)
	}
	return i, nil
}

func recordString(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}
