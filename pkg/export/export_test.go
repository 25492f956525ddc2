package export

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/graph"
)

func fixedExporter(t *testing.T) *Exporter {
	t.Helper()
	e := NewExporter(NewExporterParams{})
	e.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return e
}

func TestExportJSONStampsMeta(t *testing.T) {
	e := fixedExporter(t)

	g := common.Graph{
		Nodes: []common.Node{{ID: "Q1", Label: "The Flood", Tags: []string{}}},
		Edges: []common.Edge{},
	}

	res, err := e.ExportJSON(context.Background(), "g1", g)
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	if res.ID == "" {
		t.Error("export id is empty")
	}

	var doc common.Graph
	if err := json.Unmarshal(res.Payload, &doc); err != nil {
		t.Fatalf("export payload is not valid JSON: %v", err)
	}

	if got := doc.Meta[MetaExportTimestamp]; got != "2026-03-14T09:26:53Z" {
		t.Errorf("export_timestamp = %v, want 2026-03-14T09:26:53Z", got)
	}
	if got := doc.Meta[MetaExporterVersion]; got != exporterVersion {
		t.Errorf("exporter_version = %v, want %q", got, exporterVersion)
	}
	if got := doc.Meta[graph.MetaTotalNodes]; got != float64(1) {
		t.Errorf("total_nodes = %v, want 1", got)
	}
}

func TestExportJSONKeepsValidatorTotals(t *testing.T) {
	e := fixedExporter(t)

	g := common.Graph{
		Nodes: []common.Node{{ID: "Q1"}, {ID: "Q1"}},
		Meta: map[string]any{
			graph.MetaTotalNodes:       2,
			graph.MetaDuplicateNodeIDs: 2,
		},
	}

	res, err := e.ExportJSON(context.Background(), "g1", g)
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	var doc common.Graph
	if err := json.Unmarshal(res.Payload, &doc); err != nil {
		t.Fatalf("export payload is not valid JSON: %v", err)
	}

	if got := doc.Meta[graph.MetaTotalNodes]; got != float64(2) {
		t.Errorf("total_nodes = %v, want prior value 2", got)
	}
	if got := doc.Meta[graph.MetaDuplicateNodeIDs]; got != float64(2) {
		t.Errorf("duplicate_node_ids = %v, want 2", got)
	}
	if g.Meta[MetaExportTimestamp] != nil {
		t.Error("input meta was mutated by export")
	}
}

func TestExportJSONEmptyGraph(t *testing.T) {
	e := fixedExporter(t)

	res, err := e.ExportJSON(context.Background(), "g1", common.Graph{})
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	var doc struct {
		Nodes []common.Node `json:"nodes"`
		Edges []common.Edge `json:"edges"`
	}
	if err := json.Unmarshal(res.Payload, &doc); err != nil {
		t.Fatalf("export payload is not valid JSON: %v", err)
	}
	if doc.Nodes == nil || doc.Edges == nil {
		t.Error("empty graph must export empty arrays, not null")
	}
}

func TestExportJSONUsesNodeRecords(t *testing.T) {
	e := fixedExporter(t)

	g := common.Graph{
		Nodes: []common.Node{
			{ID: "Q1", Label: "The Flood", ExternalRef: "ATU 825"},
			{ID: "Q2", Label: "Trickster"},
		},
		Edges: []common.Edge{
			{Source: "Q1", Target: "Q2", Relation: "is_a", Weight: 1.0, DetectionMethod: "wikidata:P31"},
		},
	}

	res, err := e.ExportJSON(context.Background(), "g1", g)
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	var doc struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	if err := json.Unmarshal(res.Payload, &doc); err != nil {
		t.Fatalf("export payload is not valid JSON: %v", err)
	}
	if len(doc.Nodes) != 2 || len(doc.Edges) != 1 {
		t.Fatalf("exported %d nodes / %d edges, want 2 / 1", len(doc.Nodes), len(doc.Edges))
	}

	first := doc.Nodes[0]
	if first["external_reference"] != "ATU 825" {
		t.Errorf("external_reference = %v, want ATU 825", first["external_reference"])
	}
	if tags, ok := first["tags"].([]any); !ok || len(tags) != 0 {
		t.Errorf("nil tags must export as an empty list, got %v", first["tags"])
	}

	second := doc.Nodes[1]
	for _, key := range []string{"external_reference", "linked_article_title", "linked_article_url", "embedding"} {
		if _, present := second[key]; present {
			t.Errorf("empty optional field %q must be omitted from the record", key)
		}
	}

	edge := doc.Edges[0]
	if edge["detection_method"] != "wikidata:P31" {
		t.Errorf("detection_method = %v, want wikidata:P31", edge["detection_method"])
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	e := NewExporter(NewExporterParams{})
	if _, err := e.Upload(context.Background(), "g1", &Result{ID: "x", Payload: []byte("{}")}); err == nil {
		t.Error("Upload() without object storage: expected error")
	}
}
