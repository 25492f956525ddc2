package graph

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/logger"
)

// RelationMapping associates one external relation type with the canonical
// relation name emitted on edges. DetectionMethod is the provenance stamp
// written on every edge the mapping produces; it defaults to Property.
type RelationMapping struct {
	Property        string
	Relation        string
	DetectionMethod string
}

// Canonical relation vocabulary.
const (
	RelationIsA            = "is_a"
	RelationInspiredBy     = "inspired_by"
	RelationBasedOn        = "based_on"
	RelationAssociatedWith = "associated_with"
)

const defaultEdgeWeight = 1.0

// DefaultRelationTable returns the Wikidata property mappings used for
// narrative concepts. Table order is significant: edges are emitted in
// table order, then in query result order.
func DefaultRelationTable() []RelationMapping {
	return []RelationMapping{
		{Property: "P31", Relation: RelationIsA, DetectionMethod: "wikidata:P31"},
		{Property: "P279", Relation: RelationIsA, DetectionMethod: "wikidata:P279"},
		{Property: "P737", Relation: RelationInspiredBy, DetectionMethod: "wikidata:P737"},
		{Property: "P144", Relation: RelationBasedOn, DetectionMethod: "wikidata:P144"},
		{Property: "P921", Relation: RelationAssociatedWith, DetectionMethod: "wikidata:P921"},
	}
}

// BuildEdges derives typed edges between the given node ids using the
// client's relation table. Each relation type is queried once; a query
// failure degrades to zero edges for that type and never aborts the others.
// A pair survives only when both subject and object are members of nodeIDs.
func (c *Client) BuildEdges(ctx context.Context, nodeIDs []string) []common.Edge {
	if len(nodeIDs) == 0 || c.relations == nil {
		return []common.Edge{}
	}

	known := make(map[string]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		known[id] = struct{}{}
	}

	// Indexed chunks keep the emitted edges in relation-table order even
	// when the queries run in parallel.
	chunks := make([][]common.Edge, len(c.table))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.parallelRelations)
	for i, mapping := range c.table {
		idx, m := i, mapping
		eg.Go(func() error {
			chunks[idx] = c.edgesForMapping(gCtx, m, nodeIDs, known)
			return nil
		})
	}
	// Workers degrade failures to empty chunks and never return an error.
	_ = eg.Wait()

	edges := make([]common.Edge, 0)
	for _, chunk := range chunks {
		edges = append(edges, chunk...)
	}

	logger.Info("[Graph] Built edges", "count", len(edges))
	return edges
}

func (c *Client) edgesForMapping(ctx context.Context, m RelationMapping, nodeIDs []string, known map[string]struct{}) []common.Edge {
	pairs, err := c.relations.FetchRelations(ctx, m.Property, nodeIDs)
	if err != nil {
		logger.Error("[Graph] Relation query failed", "property", m.Property, "err", err)
		return nil
	}

	method := m.DetectionMethod
	if method == "" {
		method = m.Property
	}

	edges := make([]common.Edge, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := known[p.Subject]; !ok {
			continue
		}
		if _, ok := known[p.Object]; !ok {
			continue
		}
		edges = append(edges, common.Edge{
			Source:          p.Subject,
			Target:          p.Object,
			Relation:        m.Relation,
			Weight:          defaultEdgeWeight,
			DetectionMethod: method,
		})
	}

	logger.Debug("[Graph] Edges for relation", "property", m.Property, "relation", m.Relation, "count", len(edges))
	return edges
}
