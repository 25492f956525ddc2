package embed

import (
	"context"
	"errors"
	"testing"

	"github.com/mythograph/backend/pkg/ai"
	"github.com/mythograph/backend/pkg/common"
)

type stubEmbeddingClient struct {
	vectors map[string][]float32
	err     error
	inputs  []string
}

func (s *stubEmbeddingClient) GenerateEmbedding(_ context.Context, input []byte) ([]float32, error) {
	s.inputs = append(s.inputs, string(input))
	if s.err != nil {
		return nil, s.err
	}
	if vec, ok := s.vectors[string(input)]; ok {
		return vec, nil
	}
	return []float32{1}, nil
}

func (s *stubEmbeddingClient) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		vec, err := s.GenerateEmbedding(ctx, in)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *stubEmbeddingClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }
func (s *stubEmbeddingClient) ResetMetrics()               {}

func TestEmbedNodesUsesSummaryText(t *testing.T) {
	client := &stubEmbeddingClient{
		vectors: map[string][]float32{
			"deluge myth across cultures": {0.1, 0.2},
		},
	}
	embedder, err := NewNodeEmbedder(NewNodeEmbedderParams{Client: client})
	if err != nil {
		t.Fatalf("NewNodeEmbedder() error: %v", err)
	}

	nodes := embedder.EmbedNodes(context.Background(), []common.Node{
		{ID: "Q1", Label: "The Flood", Summary: "deluge myth across cultures"},
	})

	if len(nodes[0].Embedding) != 2 {
		t.Fatalf("node embedding length = %d, want 2", len(nodes[0].Embedding))
	}
	if len(client.inputs) != 1 || client.inputs[0] != "deluge myth across cultures" {
		t.Errorf("embedding input = %v, want the node summary", client.inputs)
	}
}

func TestEmbedNodesSkipsExistingEmbeddings(t *testing.T) {
	client := &stubEmbeddingClient{}
	embedder, err := NewNodeEmbedder(NewNodeEmbedderParams{Client: client})
	if err != nil {
		t.Fatalf("NewNodeEmbedder() error: %v", err)
	}

	existing := []float32{9, 9, 9}
	nodes := embedder.EmbedNodes(context.Background(), []common.Node{
		{ID: "Q1", Summary: "already embedded", Embedding: existing},
		{ID: "Q2", Summary: "needs embedding"},
	})

	if len(client.inputs) != 1 {
		t.Fatalf("client called %d times, want 1 (existing embeddings are kept)", len(client.inputs))
	}
	if &nodes[0].Embedding[0] != &existing[0] {
		t.Errorf("existing embedding was replaced")
	}
}

func TestEmbedNodesFailureLeavesNodeWithoutEmbedding(t *testing.T) {
	client := &stubEmbeddingClient{err: errors.New("model unavailable")}
	embedder, err := NewNodeEmbedder(NewNodeEmbedderParams{Client: client, Parallel: 2})
	if err != nil {
		t.Fatalf("NewNodeEmbedder() error: %v", err)
	}

	nodes := embedder.EmbedNodes(context.Background(), []common.Node{
		{ID: "Q1", Summary: "a"},
		{ID: "Q2", Summary: "b"},
	})

	if len(nodes) != 2 {
		t.Fatalf("EmbedNodes() returned %d nodes, want 2 (failures never drop nodes)", len(nodes))
	}
	for _, n := range nodes {
		if len(n.Embedding) != 0 {
			t.Errorf("node %s has embedding after failure", n.ID)
		}
	}
}

func TestNewNodeEmbedderRequiresClient(t *testing.T) {
	if _, err := NewNodeEmbedder(NewNodeEmbedderParams{}); err == nil {
		t.Error("NewNodeEmbedder() with nil client: expected error")
	}
}
