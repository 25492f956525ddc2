package pgx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mythograph/backend/internal/util"
	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

const (
	nodeChunk = 500
	edgeChunk = 1000
)

var nodeColumns = []string{
	"graph_id",
	"public_id",
	"label",
	"description",
	"summary",
	"category_tag",
	"external_reference",
	"linked_article_title",
	"linked_article_url",
	"tags",
	"embedding",
}

var edgeColumns = []string{
	"graph_id",
	"source",
	"target",
	"relation",
	"weight",
	"detection_method",
}

// SaveGraph persists the graph under the given public id, replacing any
// previously stored payload. Node and edge order is preserved.
func (s *GraphDBStore) SaveGraph(ctx context.Context, id string, name string, g common.Graph) error {
	if id == "" {
		return fmt.Errorf("graph id is empty")
	}

	meta, err := json.Marshal(g.CloneMeta())
	if err != nil {
		return fmt.Errorf("failed to encode graph meta: %w", err)
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var graphID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO graphs (public_id, name, meta)
		VALUES ($1, $2, $3)
		ON CONFLICT (public_id)
		DO UPDATE SET name = EXCLUDED.name, meta = EXCLUDED.meta
		RETURNING id
	`, id, name, meta).Scan(&graphID)
	if err != nil {
		return fmt.Errorf("failed to upsert graph row: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM graph_nodes WHERE graph_id = $1`, graphID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM graph_edges WHERE graph_id = $1`, graphID); err != nil {
		return err
	}

	err = store.ChunkRange(len(g.Nodes), nodeChunk, func(start, end int) error {
		part := g.Nodes[start:end]
		logger.Debug("[GraphStore][SaveGraph] Copying node chunk", "graph", id, "nodes", len(part))

		rows := make([][]any, len(part))
		for i, n := range part {
			var embedding any
			if len(n.Embedding) > 0 {
				embedding = pgvector.NewVector(n.Embedding)
			}
			rows[i] = []any{
				graphID,
				n.ID,
				util.SanitizePostgresText(n.Label),
				util.SanitizePostgresText(n.Description),
				util.SanitizePostgresText(n.Summary),
				n.CategoryTag,
				n.ExternalRef,
				n.ArticleTitle,
				n.ArticleURL,
				n.Tags,
				embedding,
			}
		}

		_, err := tx.CopyFrom(ctx, pgxv5.Identifier{"graph_nodes"}, nodeColumns, pgxv5.CopyFromRows(rows))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to copy nodes: %w", err)
	}

	err = store.ChunkRange(len(g.Edges), edgeChunk, func(start, end int) error {
		part := g.Edges[start:end]
		logger.Debug("[GraphStore][SaveGraph] Copying edge chunk", "graph", id, "edges", len(part))

		rows := make([][]any, len(part))
		for i, e := range part {
			rows[i] = []any{
				graphID,
				e.Source,
				e.Target,
				e.Relation,
				e.Weight,
				e.DetectionMethod,
			}
		}

		_, err := tx.CopyFrom(ctx, pgxv5.Identifier{"graph_edges"}, edgeColumns, pgxv5.CopyFromRows(rows))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to copy edges: %w", err)
	}

	return tx.Commit(ctx)
}
