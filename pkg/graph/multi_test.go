package graph

import (
	"context"
	"testing"

	"github.com/mythograph/backend/pkg/source"
)

func TestBuildMultiCategoryTagging(t *testing.T) {
	client := NewClient(NewClientParams{ParallelCategories: 2})

	categories := []CategorySpec{
		{Fetch: recordsFetch([]source.RawRecord{{ID: "Q1", Label: "The Flood"}, {ID: "Q2", Label: "Cinderella"}}), Tag: "ATU_Folklore", Limit: 10},
		{Fetch: recordsFetch([]source.RawRecord{{ID: "Q3", Label: "Time Travel"}}), Tag: "SciFi_Theme", Limit: 10},
	}

	g := client.BuildMulti(context.Background(), categories)

	if len(g.Nodes) != 3 {
		t.Fatalf("BuildMulti() returned %d nodes, want 3", len(g.Nodes))
	}

	wantTags := []string{"ATU_Folklore", "ATU_Folklore", "SciFi_Theme"}
	for i, want := range wantTags {
		if g.Nodes[i].CategoryTag != want {
			t.Errorf("node[%d].CategoryTag = %q, want %q", i, g.Nodes[i].CategoryTag, want)
		}
	}
}

func TestBuildMultiSharedContentKeepsOwnTag(t *testing.T) {
	client := NewClient(NewClientParams{})

	shared := source.RawRecord{ID: "Q7", Label: "Hero's Journey"}
	categories := []CategorySpec{
		{Fetch: recordsFetch([]source.RawRecord{shared}), Tag: "ATU_Folklore"},
		{Fetch: recordsFetch([]source.RawRecord{shared}), Tag: "Game_Mechanic"},
	}

	g := client.BuildMulti(context.Background(), categories)

	if len(g.Nodes) != 2 {
		t.Fatalf("BuildMulti() returned %d nodes, want 2", len(g.Nodes))
	}
	if g.Nodes[0].CategoryTag != "ATU_Folklore" || g.Nodes[1].CategoryTag != "Game_Mechanic" {
		t.Errorf("shared content lost per-category tags: %q, %q", g.Nodes[0].CategoryTag, g.Nodes[1].CategoryTag)
	}
}

func TestBuildMultiEmptyCategorySkipped(t *testing.T) {
	client := NewClient(NewClientParams{})

	categories := []CategorySpec{
		{Fetch: recordsFetch(nil), Tag: "ATU_Folklore"},
		{Fetch: recordsFetch([]source.RawRecord{{ID: "Q3", Label: "Time Travel"}}), Tag: "SciFi_Theme"},
	}

	g := client.BuildMulti(context.Background(), categories)

	if len(g.Nodes) != 1 {
		t.Fatalf("BuildMulti() returned %d nodes, want 1 (empty category contributes zero)", len(g.Nodes))
	}
	if g.Nodes[0].CategoryTag != "SciFi_Theme" {
		t.Errorf("surviving node tag = %q, want SciFi_Theme", g.Nodes[0].CategoryTag)
	}
}

func TestBuildMultiFailedCategoryIsolated(t *testing.T) {
	client := NewClient(NewClientParams{})

	categories := []CategorySpec{
		{Fetch: failingFetch(), Tag: "ATU_Folklore"},
		{Fetch: recordsFetch([]source.RawRecord{{ID: "Q5", Label: "Permadeath"}}), Tag: "Game_Mechanic"},
	}

	g := client.BuildMulti(context.Background(), categories)

	if len(g.Nodes) != 1 {
		t.Fatalf("BuildMulti() returned %d nodes, want 1 (failed category must not abort the others)", len(g.Nodes))
	}
}

func TestBuildMultiMeta(t *testing.T) {
	relations := &stubRelationSource{
		pairs: map[string][]source.RelationPair{
			"P31": {{Subject: "Q1", Object: "Q2"}},
		},
	}
	client := NewClient(NewClientParams{
		Relations:     relations,
		RelationTable: []RelationMapping{{Property: "P31", Relation: RelationIsA}},
	})

	categories := []CategorySpec{
		{Fetch: recordsFetch([]source.RawRecord{{ID: "Q1"}, {ID: "Q2"}}), Tag: "ATU_Folklore"},
	}

	g := client.BuildMulti(context.Background(), categories)

	if got := g.Meta[MetaTotalNodes]; got != 2 {
		t.Errorf("meta total_nodes = %v, want 2", got)
	}
	if got := g.Meta[MetaTotalEdges]; got != 1 {
		t.Errorf("meta total_edges = %v, want 1", got)
	}
}

func TestBuildMultiEdgesSpanCategories(t *testing.T) {
	relations := &stubRelationSource{
		pairs: map[string][]source.RelationPair{
			"P737": {{Subject: "Q1", Object: "Q3"}},
		},
	}
	client := NewClient(NewClientParams{
		Relations:     relations,
		RelationTable: []RelationMapping{{Property: "P737", Relation: RelationInspiredBy}},
	})

	categories := []CategorySpec{
		{Fetch: recordsFetch([]source.RawRecord{{ID: "Q1"}}), Tag: "ATU_Folklore"},
		{Fetch: recordsFetch([]source.RawRecord{{ID: "Q3"}}), Tag: "SciFi_Theme"},
	}

	g := client.BuildMulti(context.Background(), categories)

	if len(g.Edges) != 1 {
		t.Fatalf("BuildMulti() returned %d edges, want 1 (edge building runs once over the union)", len(g.Edges))
	}
	if g.Edges[0].Source != "Q1" || g.Edges[0].Target != "Q3" {
		t.Errorf("cross-category edge = %s -> %s, want Q1 -> Q3", g.Edges[0].Source, g.Edges[0].Target)
	}
}
