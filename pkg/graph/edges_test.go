package graph

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/source"
)

func TestBuildEdgesEndpointClosure(t *testing.T) {
	relations := &stubRelationSource{
		pairs: map[string][]source.RelationPair{
			"P31": {
				{Subject: "Q1", Object: "Q2"},
				{Subject: "Q1", Object: "Q99"}, // object outside the graph
				{Subject: "Q99", Object: "Q2"}, // subject outside the graph
			},
		},
	}
	client := NewClient(NewClientParams{
		Relations:     relations,
		RelationTable: []RelationMapping{{Property: "P31", Relation: RelationIsA, DetectionMethod: "wikidata:P31"}},
	})

	edges := client.BuildEdges(context.Background(), []string{"Q1", "Q2"})

	want := []common.Edge{
		{Source: "Q1", Target: "Q2", Relation: RelationIsA, Weight: 1.0, DetectionMethod: "wikidata:P31"},
	}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("BuildEdges() = %#v, want %#v", edges, want)
	}
}

func TestBuildEdgesTableOrder(t *testing.T) {
	relations := &stubRelationSource{
		pairs: map[string][]source.RelationPair{
			"P144": {{Subject: "Q2", Object: "Q3"}},
			"P31":  {{Subject: "Q1", Object: "Q2"}, {Subject: "Q3", Object: "Q1"}},
		},
	}
	client := NewClient(NewClientParams{
		Relations: relations,
		RelationTable: []RelationMapping{
			{Property: "P31", Relation: RelationIsA},
			{Property: "P144", Relation: RelationBasedOn},
		},
		ParallelRelations: 4,
	})

	edges := client.BuildEdges(context.Background(), []string{"Q1", "Q2", "Q3"})

	wantMethods := []string{"P31", "P31", "P144"}
	if len(edges) != len(wantMethods) {
		t.Fatalf("BuildEdges() returned %d edges, want %d", len(edges), len(wantMethods))
	}
	for i, method := range wantMethods {
		if edges[i].DetectionMethod != method {
			t.Errorf("edge[%d].DetectionMethod = %q, want %q (table order)", i, edges[i].DetectionMethod, method)
		}
	}
	// Within one relation type the source-query result order holds.
	if edges[0].Source != "Q1" || edges[1].Source != "Q3" {
		t.Errorf("P31 edges out of result order: %#v", edges[:2])
	}
}

func TestBuildEdgesPartialFailureIsolation(t *testing.T) {
	relations := &stubRelationSource{
		pairs: map[string][]source.RelationPair{
			"P737": {{Subject: "Q1", Object: "Q2"}},
		},
		errs: map[string]error{
			"P31": errors.New("query timed out"),
		},
	}
	client := NewClient(NewClientParams{
		Relations: relations,
		RelationTable: []RelationMapping{
			{Property: "P31", Relation: RelationIsA},
			{Property: "P737", Relation: RelationInspiredBy},
		},
	})

	edges := client.BuildEdges(context.Background(), []string{"Q1", "Q2"})

	if len(edges) != 1 {
		t.Fatalf("BuildEdges() returned %d edges, want 1 (failed relation type yields zero)", len(edges))
	}
	if edges[0].Relation != RelationInspiredBy {
		t.Errorf("surviving edge relation = %q, want %q", edges[0].Relation, RelationInspiredBy)
	}
	if len(relations.calls) != 2 {
		t.Errorf("relation source queried %d times, want 2 (failure must not abort other types)", len(relations.calls))
	}
}

func TestBuildEdgesEmptyInput(t *testing.T) {
	relations := &stubRelationSource{}
	client := NewClient(NewClientParams{Relations: relations})

	edges := client.BuildEdges(context.Background(), nil)
	if len(edges) != 0 {
		t.Errorf("BuildEdges() with no ids returned %d edges, want 0", len(edges))
	}
	if len(relations.calls) != 0 {
		t.Errorf("relation source queried %d times for empty id set, want 0", len(relations.calls))
	}
}

func TestDefaultRelationTable(t *testing.T) {
	table := DefaultRelationTable()

	wantRelations := []string{
		RelationIsA,
		RelationIsA,
		RelationInspiredBy,
		RelationBasedOn,
		RelationAssociatedWith,
	}
	if len(table) != len(wantRelations) {
		t.Fatalf("DefaultRelationTable() has %d entries, want %d", len(table), len(wantRelations))
	}
	for i, want := range wantRelations {
		if table[i].Relation != want {
			t.Errorf("table[%d].Relation = %q, want %q", i, table[i].Relation, want)
		}
		if table[i].DetectionMethod != "wikidata:"+table[i].Property {
			t.Errorf("table[%d].DetectionMethod = %q, want wikidata:%s", i, table[i].DetectionMethod, table[i].Property)
		}
	}
}
