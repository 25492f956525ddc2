package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// GetGraph loads the full graph stored under the given public id. Node and
// edge order matches the order they were saved in.
func (s *GraphDBStore) GetGraph(ctx context.Context, id string) (common.Graph, error) {
	g := common.Graph{
		Nodes: []common.Node{},
		Edges: []common.Edge{},
	}

	var (
		graphID int64
		meta    []byte
	)
	err := s.conn.QueryRow(ctx, `
		SELECT id, meta FROM graphs WHERE public_id = $1
	`, id).Scan(&graphID, &meta)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return g, store.ErrGraphNotFound
	}
	if err != nil {
		return g, err
	}

	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &g.Meta); err != nil {
			return g, fmt.Errorf("failed to decode graph meta: %w", err)
		}
	}

	rows, err := s.conn.Query(ctx, `
		SELECT public_id, label, description, summary, category_tag,
		       external_reference, linked_article_title, linked_article_url,
		       tags, embedding
		FROM graph_nodes
		WHERE graph_id = $1
		ORDER BY id
	`, graphID)
	if err != nil {
		return g, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n         common.Node
			embedding *pgvector.Vector
		)
		err := rows.Scan(
			&n.ID,
			&n.Label,
			&n.Description,
			&n.Summary,
			&n.CategoryTag,
			&n.ExternalRef,
			&n.ArticleTitle,
			&n.ArticleURL,
			&n.Tags,
			&embedding,
		)
		if err != nil {
			return g, err
		}
		if embedding != nil {
			n.Embedding = embedding.Slice()
		}
		if n.Tags == nil {
			n.Tags = []string{}
		}
		g.Nodes = append(g.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return g, err
	}

	edgeRows, err := s.conn.Query(ctx, `
		SELECT source, target, relation, weight, detection_method
		FROM graph_edges
		WHERE graph_id = $1
		ORDER BY id
	`, graphID)
	if err != nil {
		return g, err
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var e common.Edge
		err := edgeRows.Scan(&e.Source, &e.Target, &e.Relation, &e.Weight, &e.DetectionMethod)
		if err != nil {
			return g, err
		}
		g.Edges = append(g.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return g, err
	}

	return g, nil
}

// GetGraphRecord returns the stored graph's metadata without its payload.
func (s *GraphDBStore) GetGraphRecord(ctx context.Context, id string) (*store.GraphRecord, error) {
	rec := store.GraphRecord{ID: id}

	var meta []byte
	err := s.conn.QueryRow(ctx, `
		SELECT g.name, g.meta, g.created_at,
		       (SELECT count(*) FROM graph_nodes n WHERE n.graph_id = g.id),
		       (SELECT count(*) FROM graph_edges e WHERE e.graph_id = g.id)
		FROM graphs g
		WHERE g.public_id = $1
	`, id).Scan(&rec.Name, &meta, &rec.CreatedAt, &rec.NodeCount, &rec.EdgeCount)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrGraphNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &rec.Meta); err != nil {
			return nil, fmt.Errorf("failed to decode graph meta: %w", err)
		}
	}

	return &rec, nil
}

// ListGraphs returns the records of all stored graphs, newest first.
func (s *GraphDBStore) ListGraphs(ctx context.Context) ([]store.GraphRecord, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT g.public_id, g.name, g.meta, g.created_at,
		       (SELECT count(*) FROM graph_nodes n WHERE n.graph_id = g.id),
		       (SELECT count(*) FROM graph_edges e WHERE e.graph_id = g.id)
		FROM graphs g
		ORDER BY g.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []store.GraphRecord{}
	for rows.Next() {
		var (
			rec  store.GraphRecord
			meta []byte
		)
		err := rows.Scan(&rec.ID, &rec.Name, &meta, &rec.CreatedAt, &rec.NodeCount, &rec.EdgeCount)
		if err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &rec.Meta); err != nil {
				return nil, fmt.Errorf("failed to decode graph meta: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
