package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mythograph/backend/internal/storage"
	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/graph"
	"github.com/mythograph/backend/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const exporterVersion = "1.0.0"

// Meta keys stamped onto every export.
const (
	MetaExportTimestamp = "export_timestamp"
	MetaExporterVersion = "exporter_version"
)

// Exporter serializes graphs to a portable JSON document and optionally
// uploads them to object storage.
type Exporter struct {
	s3  *s3.Client
	now func() time.Time
}

// NewExporterParams contains configuration options for creating a new Exporter.
// S3 may be nil when exports are only served inline.
type NewExporterParams struct {
	S3 *s3.Client
}

// NewExporter creates a new Exporter with the given configuration.
func NewExporter(params NewExporterParams) *Exporter {
	return &Exporter{
		s3:  params.S3,
		now: time.Now,
	}
}

// Result is a rendered export document.
type Result struct {
	ID      string
	Payload []byte
}

// ExportJSON renders the graph as an indented JSON document. The document's
// meta carries the export timestamp and exporter version; totals are only
// filled in when the graph does not already report them.
func (e *Exporter) ExportJSON(_ context.Context, graphID string, g common.Graph) (*Result, error) {
	meta := g.CloneMeta()
	meta[MetaExportTimestamp] = e.now().UTC().Format(time.RFC3339)
	meta[MetaExporterVersion] = exporterVersion
	if _, ok := meta[graph.MetaTotalNodes]; !ok {
		meta[graph.MetaTotalNodes] = len(g.Nodes)
	}
	if _, ok := meta[graph.MetaTotalEdges]; !ok {
		meta[graph.MetaTotalEdges] = len(g.Edges)
	}

	nodes := make([]map[string]any, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n.Record())
	}
	edges := make([]map[string]any, 0, len(g.Edges))
	for _, edge := range g.Edges {
		edges = append(edges, edge.Record())
	}

	doc := map[string]any{
		"nodes": nodes,
		"edges": edges,
		"meta":  meta,
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	exportID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	logger.Debug(
		"[Exporter] Rendered export",
		"graph", graphID,
		"export", exportID,
		"bytes", len(payload),
	)

	return &Result{ID: exportID, Payload: payload}, nil
}

// Upload stores the export document in object storage and returns its key.
func (e *Exporter) Upload(ctx context.Context, graphID string, res *Result) (string, error) {
	if e.s3 == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	path := fmt.Sprintf("graphs/%s/exports", graphID)
	key, err := storage.PutFile(ctx, e.s3, path, "export.json", res.ID, bytes.NewReader(res.Payload))
	if err != nil {
		return "", err
	}

	logger.Info("[Exporter] Export uploaded", "graph", graphID, "key", key)
	return key, nil
}

// DownloadLink returns a presigned download URL for a stored export.
func (e *Exporter) DownloadLink(ctx context.Context, key string) (string, error) {
	if e.s3 == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	return storage.GenerateDownloadLink(ctx, e.s3, key)
}
