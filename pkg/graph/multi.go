package graph

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/source"
)

// CategorySpec names one labeled category fetch in a multi-category build.
// Tag is caller-supplied and stamped onto every node the category yields;
// it is never inferred from content.
type CategorySpec struct {
	Fetch source.FetchFunc
	Tag   string
	Limit int
}

// BuildMulti fetches and normalizes each category independently, tags the
// resulting nodes with the category label, concatenates all node sets in
// the given category order, and runs edge building once over the union.
// A category whose fetch fails or returns nothing contributes zero nodes
// and never aborts the other categories.
func (c *Client) BuildMulti(ctx context.Context, categories []CategorySpec) common.Graph {
	logger.Info("[Graph] Multi-category build started", "categories", len(categories))

	// Indexed chunks keep the merged node sequence in category order even
	// when fetches run in parallel.
	chunks := make([][]common.Node, len(categories))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.parallelCategories)
	for i, cat := range categories {
		idx, spec := i, cat
		eg.Go(func() error {
			records, err := spec.Fetch(gCtx, spec.Limit)
			if err != nil {
				logger.Error("[Graph] Category fetch failed", "category", spec.Tag, "err", err)
				return nil
			}
			if len(records) == 0 {
				logger.Warn("[Graph] No entities found for category", "category", spec.Tag)
				return nil
			}
			logger.Info("[Graph] Fetched category entities", "category", spec.Tag, "count", len(records))
			chunks[idx] = c.BuildNodes(gCtx, records, spec.Tag)
			return nil
		})
	}
	// Category failures degrade to empty chunks; workers never error.
	_ = eg.Wait()

	nodes := make([]common.Node, 0)
	for _, chunk := range chunks {
		nodes = append(nodes, chunk...)
	}

	edges := c.BuildEdges(ctx, nodeIDs(nodes))

	tags := make([]string, 0, len(categories))
	for _, cat := range categories {
		tags = append(tags, cat.Tag)
	}

	graph := common.Graph{
		Nodes: nodes,
		Edges: edges,
		Meta: map[string]any{
			MetaTotalNodes: len(nodes),
			MetaTotalEdges: len(edges),
			"categories":   tags,
		},
	}

	logger.Info("[Graph] Multi-category build completed", "nodes", len(nodes), "edges", len(edges))
	return graph
}
