package common

// CategoryUnknown is the category tag assigned to nodes built without an
// explicit category label.
const CategoryUnknown = "Unknown"

// Node represents one narrative concept in the graph: a folklore motif,
// a science-fiction theme, a game mechanic. Nodes are created once by the
// normalizer and never merged or mutated afterwards, except for the
// Embedding field which the embedding step writes exactly once.
//
// Summary is the text used as the embedding source. After normalization it
// is never empty: it resolves to the fetched article summary, then the
// description, then the label.
type Node struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Description  string    `json:"description"`
	Summary      string    `json:"summary"`
	CategoryTag  string    `json:"category_tag"`
	ExternalRef  string    `json:"external_reference,omitempty"`
	ArticleTitle string    `json:"linked_article_title,omitempty"`
	ArticleURL   string    `json:"linked_article_url,omitempty"`
	Tags         []string  `json:"tags"`
	Embedding    []float32 `json:"embedding,omitempty"`
}

// Edge represents a directed, typed relation between two node ids. Both
// endpoints must exist in the same graph's node set for the edge to survive
// validation. DetectionMethod records which external relation type produced
// the edge; it is provenance only and never affects validation.
type Edge struct {
	Source          string  `json:"source"`
	Target          string  `json:"target"`
	Relation        string  `json:"relation"`
	Weight          float64 `json:"weight"`
	DetectionMethod string  `json:"detection_method"`
}

// Graph is the assembled node/edge set plus accumulated statistics.
// Meta is additive: the merger and the validator write counts into it,
// and it is never required on input.
type Graph struct {
	Nodes []Node         `json:"nodes"`
	Edges []Edge         `json:"edges"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// EmbeddingText returns the text the embedding collaborator should encode
// for the node: summary first, then description, then label.
func (n Node) EmbeddingText() string {
	if n.Summary != "" {
		return n.Summary
	}
	if n.Description != "" {
		return n.Description
	}
	return n.Label
}

// Record converts the node into the flat map shape emitted by the JSON
// exporter. This is the single defined conversion point for node records;
// callers must not build ad hoc map variants. Empty optional fields and
// missing embeddings are omitted, nil tags come out as an empty list.
func (n Node) Record() map[string]any {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	rec := map[string]any{
		"id":           n.ID,
		"label":        n.Label,
		"description":  n.Description,
		"summary":      n.Summary,
		"category_tag": n.CategoryTag,
		"tags":         tags,
	}
	if n.ExternalRef != "" {
		rec["external_reference"] = n.ExternalRef
	}
	if n.ArticleTitle != "" {
		rec["linked_article_title"] = n.ArticleTitle
	}
	if n.ArticleURL != "" {
		rec["linked_article_url"] = n.ArticleURL
	}
	if n.Embedding != nil {
		rec["embedding"] = n.Embedding
	}
	return rec
}

// Record converts the edge into the flat map shape emitted by the JSON
// exporter.
func (e Edge) Record() map[string]any {
	return map[string]any{
		"source":           e.Source,
		"target":           e.Target,
		"relation":         e.Relation,
		"weight":           e.Weight,
		"detection_method": e.DetectionMethod,
	}
}

// CloneMeta returns a copy of the graph's meta map, or an empty map when
// meta has never been written. Stages that annotate meta work on the copy
// so an input graph is never mutated.
func (g Graph) CloneMeta() map[string]any {
	meta := make(map[string]any, len(g.Meta)+8)
	for k, v := range g.Meta {
		meta[k] = v
	}
	return meta
}
