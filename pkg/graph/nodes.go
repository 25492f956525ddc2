package graph

import (
	"context"

	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/source"
)

// BuildNodes converts raw entity records into canonical nodes, tagging each
// with categoryTag. Records without an identifier are logged and skipped.
// One summary fetch is made per record with a linked article title; a fetch
// failure degrades to "no summary" and is never returned to the caller.
func (c *Client) BuildNodes(ctx context.Context, records []source.RawRecord, categoryTag string) []common.Node {
	nodes := make([]common.Node, 0, len(records))
	for _, rec := range records {
		node, ok := c.buildNode(ctx, rec, categoryTag)
		if !ok {
			continue
		}
		nodes = append(nodes, node)
	}

	logger.Info("[Graph] Built nodes", "count", len(nodes), "category", categoryTag)
	return nodes
}

func (c *Client) buildNode(ctx context.Context, rec source.RawRecord, categoryTag string) (common.Node, bool) {
	if rec.ID == "" {
		logger.Warn("[Graph] Skipping record without identifier", "label", rec.Label)
		return common.Node{}, false
	}

	label := rec.Label
	if label == "" {
		label = rec.ID
	}
	if categoryTag == "" {
		categoryTag = common.CategoryUnknown
	}

	node := common.Node{
		ID:           rec.ID,
		Label:        label,
		Description:  rec.Description,
		CategoryTag:  categoryTag,
		ExternalRef:  rec.ExternalRef,
		ArticleTitle: rec.ArticleTitle,
		Tags:         []string{},
	}

	if rec.ArticleTitle != "" {
		if c.summaries != nil {
			summary, err := c.summaries.FetchSummary(ctx, rec.ArticleTitle)
			if err != nil {
				logger.Warn("[Graph] Summary fetch failed", "title", rec.ArticleTitle, "err", err)
			} else if summary != nil {
				node.Summary = summary.Text
				node.ArticleURL = summary.URL
			}
		}
		if node.ArticleURL == "" {
			node.ArticleURL = source.ArticleURL(rec.ArticleTitle)
		}
	}

	// Summary is the embedding text source and must never end up empty.
	if node.Summary == "" {
		node.Summary = node.Description
	}
	if node.Summary == "" {
		node.Summary = node.Label
	}

	return node, true
}

func nodeIDs(nodes []common.Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
