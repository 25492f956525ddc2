package graph

import (
	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/logger"
)

// Meta keys written by the validator and the multi-category builder.
const (
	MetaIsolatedNodes     = "isolated_nodes"
	MetaWeakComponents    = "weakly_connected_components"
	MetaDuplicateNodeIDs  = "duplicate_node_ids"
	MetaMissingEmbeddings = "nodes_missing_embedding"
	MetaTotalNodes        = "total_nodes"
	MetaTotalEdges        = "total_edges"
)

// Validator performs structural validation and cleanup of an assembled
// graph. It removes edges whose endpoints are unknown, reports isolated
// nodes and connectivity statistics, and never rejects structurally
// imperfect input: every anomaly degrades to a log line plus a statistic.
//
// Nodes are never removed or mutated; edges may only be dropped; meta is
// only added to. Validating an already-clean graph is idempotent.
type Validator struct{}

// NewValidator creates a graph validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns a structurally clean copy of the graph: nodes unchanged,
// dangling edges removed, meta annotated with integrity statistics.
func (v *Validator) Validate(g common.Graph) common.Graph {
	logger.Info("[Validate] Running graph validation", "nodes", len(g.Nodes), "edges", len(g.Edges))

	ids := make(map[string]struct{}, len(g.Nodes))
	duplicates := 0
	for _, n := range g.Nodes {
		if _, seen := ids[n.ID]; seen {
			duplicates++
			logger.Warn("[Validate] Duplicate node id", "id", n.ID)
			continue
		}
		ids[n.ID] = struct{}{}
	}

	// Order-preserving filter: an edge survives only when both endpoints
	// are known node ids.
	edges := make([]common.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		_, srcOK := ids[e.Source]
		_, tgtOK := ids[e.Target]
		if !srcOK || !tgtOK {
			logger.Warn("[Validate] Removed dangling edge", "source", e.Source, "target", e.Target, "relation", e.Relation)
			continue
		}
		edges = append(edges, e)
	}
	if removed := len(g.Edges) - len(edges); removed > 0 {
		logger.Info("[Validate] Removed dangling edges", "count", removed)
	}

	inDegree := make(map[string]int, len(ids))
	outDegree := make(map[string]int, len(ids))
	for _, e := range edges {
		outDegree[e.Source]++
		inDegree[e.Target]++
	}

	// Isolated nodes retain informational value and are reported, not
	// removed.
	isolated := 0
	for id := range ids {
		if inDegree[id] == 0 && outDegree[id] == 0 {
			isolated++
		}
	}

	components := countWeakComponents(ids, edges)

	missingEmbeddings := 0
	for _, n := range g.Nodes {
		if len(n.Embedding) == 0 {
			missingEmbeddings++
		}
	}
	if missingEmbeddings > 0 {
		logger.Warn("[Validate] Nodes missing embeddings", "count", missingEmbeddings)
	}

	meta := g.CloneMeta()
	meta[MetaIsolatedNodes] = isolated
	meta[MetaWeakComponents] = components
	meta[MetaDuplicateNodeIDs] = duplicates
	meta[MetaMissingEmbeddings] = missingEmbeddings
	meta[MetaTotalNodes] = len(g.Nodes)
	meta[MetaTotalEdges] = len(edges)

	logger.Info(
		"[Validate] Graph validation completed",
		"edges", len(edges),
		"isolated_nodes", isolated,
		"weak_components", components,
		"duplicate_ids", duplicates,
	)

	return common.Graph{
		Nodes: g.Nodes,
		Edges: edges,
		Meta:  meta,
	}
}

// countWeakComponents returns the number of weakly connected components
// over the unique node id set, treating every edge as undirected. An empty
// graph has zero components.
func countWeakComponents(ids map[string]struct{}, edges []common.Edge) int {
	if len(ids) == 0 {
		return 0
	}

	parent := make(map[string]string, len(ids))
	for id := range ids {
		parent[id] = id
	}

	var find func(string) string
	find = func(id string) string {
		for parent[id] != id {
			parent[id] = parent[parent[id]]
			id = parent[id]
		}
		return id
	}

	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, e := range edges {
		union(e.Source, e.Target)
	}

	components := 0
	for id := range ids {
		if find(id) == id {
			components++
		}
	}
	return components
}
