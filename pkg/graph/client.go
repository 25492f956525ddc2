package graph

import (
	"github.com/mythograph/backend/pkg/source"
)

// Client assembles narrative knowledge graphs from external knowledge
// sources. It holds the summary and relation collaborators, the relation
// table, and the parallelism limits for category and relation queries.
//
// A Client should be created using NewClient.
type Client struct {
	summaries source.SummarySource
	relations source.RelationSource
	table     []RelationMapping

	parallelCategories int
	parallelRelations  int
}

// NewClientParams defines the configuration for creating a Client.
//
// Summaries may be nil; nodes then resolve their summary from description
// or label. Relations may be nil; the graph is then built without edges.
// RelationTable defaults to DefaultRelationTable. Parallelism values
// default to 1 (sequential).
type NewClientParams struct {
	Summaries source.SummarySource
	Relations source.RelationSource

	RelationTable []RelationMapping

	ParallelCategories int
	ParallelRelations  int
}

// NewClient creates a graph construction client.
func NewClient(params NewClientParams) *Client {
	table := params.RelationTable
	if table == nil {
		table = DefaultRelationTable()
	}
	parallelCategories := params.ParallelCategories
	if parallelCategories <= 0 {
		parallelCategories = 1
	}
	parallelRelations := params.ParallelRelations
	if parallelRelations <= 0 {
		parallelRelations = 1
	}

	return &Client{
		summaries:          params.Summaries,
		relations:          params.Relations,
		table:              table,
		parallelCategories: parallelCategories,
		parallelRelations:  parallelRelations,
	}
}
