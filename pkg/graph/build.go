package graph

import (
	"context"

	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/source"
)

// Build assembles the unvalidated graph for a single category. A fetch
// failure or an empty fetch yields an empty graph rather than an error, so
// downstream stages treat "no data" and "not yet built" uniformly.
func (c *Client) Build(ctx context.Context, fetch source.FetchFunc, categoryTag string, limit int) common.Graph {
	graph := common.Graph{Nodes: []common.Node{}, Edges: []common.Edge{}}

	records, err := fetch(ctx, limit)
	if err != nil {
		logger.Error("[Graph] Entity fetch failed", "category", categoryTag, "err", err)
		return graph
	}
	if len(records) == 0 {
		logger.Warn("[Graph] No entities retrieved", "category", categoryTag)
		return graph
	}

	logger.Info("[Graph] Fetched raw entities", "count", len(records), "category", categoryTag)

	nodes := c.BuildNodes(ctx, records, categoryTag)
	if len(nodes) == 0 {
		logger.Warn("[Graph] No nodes built from fetched entities", "category", categoryTag)
		return graph
	}

	graph.Nodes = nodes
	graph.Edges = c.BuildEdges(ctx, nodeIDs(nodes))

	logger.Info("[Graph] Build completed", "nodes", len(graph.Nodes), "edges", len(graph.Edges), "category", categoryTag)
	return graph
}
