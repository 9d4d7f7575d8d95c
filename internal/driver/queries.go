package driver

// A snapshot is one stored forest. Nodes carry their arena index as seq so
// that a loaded forest reproduces the saved node order; containment,
// reference and root edges carry their position within the owning list.

var IndexQueries = []string{
	"CREATE INDEX ON :ModelNode(snapshot);",
	"CREATE INDEX ON :ModelNode(uuid);",
	"CREATE INDEX ON :Resource(snapshot);",
	"CREATE INDEX ON :Snapshot(name);",
}

const (
	DeleteSnapshotQuery = `
		MATCH (n)
		WHERE n.snapshot = $snapshot OR (n:Snapshot AND n.name = $snapshot)
		DETACH DELETE n
	`

	SaveSnapshotQuery = `
		MERGE (s:Snapshot {name: $snapshot})
		SET s.saved_at = $saved_at,
			s.node_count = $node_count
		RETURN s.name AS name
	`

	SaveModelNodesQuery = `
		UNWIND $nodes AS node
		CREATE (n:ModelNode {uuid: node.uuid})
		SET n.snapshot = $snapshot,
			n.seq = node.seq,
			n.type_tag = node.type_tag,
			n.label = node.label,
			n.attributes = node.attributes
	`

	SaveContainsEdgesQuery = `
		UNWIND $edges AS edge
		MATCH (p:ModelNode {snapshot: $snapshot, seq: edge.from})
		MATCH (c:ModelNode {snapshot: $snapshot, seq: edge.to})
		CREATE (p)-[:CONTAINS {position: edge.position}]->(c)
	`

	SaveReferenceEdgesQuery = `
		UNWIND $edges AS edge
		MATCH (p:ModelNode {snapshot: $snapshot, seq: edge.from})
		MATCH (t:ModelNode {snapshot: $snapshot, seq: edge.to})
		CREATE (p)-[:REFERENCES {position: edge.position}]->(t)
	`

	SaveResourcesQuery = `
		UNWIND $resources AS res
		CREATE (r:Resource {snapshot: $snapshot, name: res.name, position: res.position})
		WITH r, res
		UNWIND res.roots AS root
		MATCH (n:ModelNode {snapshot: $snapshot, seq: root.seq})
		CREATE (r)-[:HAS_ROOT {position: root.position}]->(n)
	`

	LoadModelNodesQuery = `
		MATCH (n:ModelNode {snapshot: $snapshot})
		RETURN n.seq AS seq, n.type_tag AS type_tag, n.label AS label, n.attributes AS attributes
		ORDER BY n.seq
	`

	LoadContainsEdgesQuery = `
		MATCH (p:ModelNode {snapshot: $snapshot})-[e:CONTAINS]->(c:ModelNode)
		RETURN p.seq AS from, c.seq AS to
		ORDER BY p.seq, e.position
	`

	LoadReferenceEdgesQuery = `
		MATCH (p:ModelNode {snapshot: $snapshot})-[e:REFERENCES]->(t:ModelNode)
		RETURN p.seq AS from, t.seq AS to
		ORDER BY p.seq, e.position
	`

	LoadResourcesQuery = `
		MATCH (r:Resource {snapshot: $snapshot})
		OPTIONAL MATCH (r)-[h:HAS_ROOT]->(n:ModelNode)
		RETURN r.name AS name, r.position AS position, n.seq AS root
		ORDER BY r.position, h.position
	`

	GetSnapshotQuery = `
		MATCH (s:Snapshot {name: $snapshot})
		RETURN s.name AS name, s.node_count AS node_count
	`

	ListSnapshotsQuery = `
		MATCH (s:Snapshot)
		RETURN s.name AS name, s.node_count AS node_count
		ORDER BY s.name
	`
)
