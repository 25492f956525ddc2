package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/source"
)

func TestBuildNodesSummaryResolution(t *testing.T) {
	tests := []struct {
		name        string
		record      source.RawRecord
		fetched     *source.Summary
		fetchErr    error
		wantSummary string
	}{
		{
			name:        "fetched summary wins",
			record:      source.RawRecord{ID: "Q1", Label: "Dragon Slayer", Description: "folklore archetype", ArticleTitle: "Dragon Slayer"},
			fetched:     &source.Summary{Title: "Dragon Slayer", Text: "The dragon slayer is a folklore archetype.", URL: "https://en.wikipedia.org/wiki/Dragon_Slayer"},
			wantSummary: "The dragon slayer is a folklore archetype.",
		},
		{
			name:        "empty fetched summary falls back to description",
			record:      source.RawRecord{ID: "Q2", Label: "Trickster", Description: "figure who uses cunning", ArticleTitle: "Trickster"},
			fetched:     &source.Summary{Title: "Trickster", Text: ""},
			wantSummary: "figure who uses cunning",
		},
		{
			name:        "missing article falls back to description",
			record:      source.RawRecord{ID: "Q3", Label: "Quest", Description: "journey toward a goal", ArticleTitle: "Quest"},
			fetched:     nil,
			wantSummary: "journey toward a goal",
		},
		{
			name:        "fetch failure falls back to description",
			record:      source.RawRecord{ID: "Q4", Label: "Time Travel", Description: "movement between points in time", ArticleTitle: "Time Travel"},
			fetchErr:    errors.New("connection refused"),
			wantSummary: "movement between points in time",
		},
		{
			name:        "no summary and no description falls back to label",
			record:      source.RawRecord{ID: "Q5", Label: "Permadeath"},
			wantSummary: "Permadeath",
		},
		{
			name:        "no label falls back to id",
			record:      source.RawRecord{ID: "Q6"},
			wantSummary: "Q6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaries := &stubSummarySource{err: tt.fetchErr}
			if tt.fetched != nil {
				summaries.summaries = map[string]*source.Summary{tt.record.ArticleTitle: tt.fetched}
			}
			client := NewClient(NewClientParams{Summaries: summaries})

			nodes := client.BuildNodes(context.Background(), []source.RawRecord{tt.record}, "ATU_Folklore")
			if len(nodes) != 1 {
				t.Fatalf("BuildNodes() returned %d nodes, want 1", len(nodes))
			}
			if nodes[0].Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", nodes[0].Summary, tt.wantSummary)
			}
			if nodes[0].Summary == "" {
				t.Error("Summary must never be empty after normalization")
			}
		})
	}
}

func TestBuildNodesSkipsMissingIdentifier(t *testing.T) {
	client := NewClient(NewClientParams{})

	records := []source.RawRecord{
		{Label: "no identifier"},
		{ID: "Q10", Label: "The Flood"},
		{},
	}

	nodes := client.BuildNodes(context.Background(), records, "ATU_Folklore")
	if len(nodes) != 1 {
		t.Fatalf("BuildNodes() returned %d nodes, want 1", len(nodes))
	}
	if nodes[0].ID != "Q10" {
		t.Errorf("node ID = %q, want Q10", nodes[0].ID)
	}
}

func TestBuildNodesDefaults(t *testing.T) {
	client := NewClient(NewClientParams{})

	nodes := client.BuildNodes(context.Background(), []source.RawRecord{{ID: "Q42"}}, "")
	if len(nodes) != 1 {
		t.Fatalf("BuildNodes() returned %d nodes, want 1", len(nodes))
	}

	node := nodes[0]
	if node.Label != "Q42" {
		t.Errorf("Label = %q, want id fallback Q42", node.Label)
	}
	if node.CategoryTag != common.CategoryUnknown {
		t.Errorf("CategoryTag = %q, want %q", node.CategoryTag, common.CategoryUnknown)
	}
	if node.Tags == nil || len(node.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty slice", node.Tags)
	}
	if node.Embedding != nil {
		t.Errorf("Embedding = %#v, want nil at construction time", node.Embedding)
	}
}

func TestBuildNodesArticleURL(t *testing.T) {
	tests := []struct {
		name    string
		record  source.RawRecord
		fetched *source.Summary
		wantURL string
	}{
		{
			name:    "canonical url from fetched summary",
			record:  source.RawRecord{ID: "Q1", Label: "Dragon Slayer", ArticleTitle: "Dragon Slayer"},
			fetched: &source.Summary{Text: "prose", URL: "https://en.wikipedia.org/wiki/Dragon_slayer"},
			wantURL: "https://en.wikipedia.org/wiki/Dragon_slayer",
		},
		{
			name:    "derived url when summary missing",
			record:  source.RawRecord{ID: "Q2", Label: "Frame Story", ArticleTitle: "Frame story"},
			wantURL: "https://en.wikipedia.org/wiki/Frame_story",
		},
		{
			name:   "no url without a linked title",
			record: source.RawRecord{ID: "Q3", Label: "Quest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaries := &stubSummarySource{}
			if tt.fetched != nil {
				summaries.summaries = map[string]*source.Summary{tt.record.ArticleTitle: tt.fetched}
			}
			client := NewClient(NewClientParams{Summaries: summaries})

			nodes := client.BuildNodes(context.Background(), []source.RawRecord{tt.record}, "SciFi_Theme")
			if len(nodes) != 1 {
				t.Fatalf("BuildNodes() returned %d nodes, want 1", len(nodes))
			}
			if nodes[0].ArticleURL != tt.wantURL {
				t.Errorf("ArticleURL = %q, want %q", nodes[0].ArticleURL, tt.wantURL)
			}
		})
	}
}

func TestBuildNodesOneSummaryCallPerLinkedTitle(t *testing.T) {
	summaries := &stubSummarySource{}
	client := NewClient(NewClientParams{Summaries: summaries})

	records := []source.RawRecord{
		{ID: "Q1", Label: "One", ArticleTitle: "One"},
		{ID: "Q2", Label: "Two"},
		{ID: "Q3", Label: "Three", ArticleTitle: "Three"},
	}

	client.BuildNodes(context.Background(), records, "Game_Mechanic")
	if summaries.calls != 2 {
		t.Errorf("summary source called %d times, want 2 (once per linked title)", summaries.calls)
	}
}
