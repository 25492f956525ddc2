package embed

import (
	"context"
	"fmt"

	"github.com/mythograph/backend/pkg/ai"
	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/logger"

	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/errgroup"
)

const (
	defaultEncoding  = "o200k_base"
	defaultMaxTokens = 8192
	defaultParallel  = 4
)

// NodeEmbedder attaches vector embeddings to graph nodes. Embedding text is
// truncated to a token budget before it is sent to the model.
type NodeEmbedder struct {
	client    ai.EmbeddingClient
	enc       *tiktoken.Tiktoken
	maxTokens int
	parallel  int
}

// NewNodeEmbedderParams contains configuration options for creating a new NodeEmbedder.
//
// MaxTokens <= 0 disables truncation. Encoding defaults to o200k_base.
type NewNodeEmbedderParams struct {
	Client    ai.EmbeddingClient
	Encoding  string
	MaxTokens int
	Parallel  int
}

// NewNodeEmbedder creates a new NodeEmbedder with the given configuration.
func NewNodeEmbedder(params NewNodeEmbedderParams) (*NodeEmbedder, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("embedding client is required")
	}

	maxTokens := params.MaxTokens
	if maxTokens < 0 {
		maxTokens = 0
	}

	var enc *tiktoken.Tiktoken
	if maxTokens > 0 {
		encoding := params.Encoding
		if encoding == "" {
			encoding = defaultEncoding
		}
		var err error
		enc, err = tiktoken.GetEncoding(encoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load token encoding %s: %w", encoding, err)
		}
	}

	parallel := params.Parallel
	if parallel <= 0 {
		parallel = defaultParallel
	}

	return &NodeEmbedder{
		client:    params.Client,
		enc:       enc,
		maxTokens: maxTokens,
		parallel:  parallel,
	}, nil
}

// DefaultMaxTokens returns the default token budget for embedding input.
func DefaultMaxTokens() int {
	return defaultMaxTokens
}

// EmbedNodes fills in the Embedding field of every node that does not
// already carry one. Nodes with an existing embedding are left untouched.
// Embedding failures are logged and leave the node without an embedding;
// they never abort the batch.
func (e *NodeEmbedder) EmbedNodes(ctx context.Context, nodes []common.Node) []common.Node {
	if len(nodes) == 0 {
		return nodes
	}

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(e.parallel)

	for i := range nodes {
		idx := i
		if len(nodes[idx].Embedding) > 0 {
			continue
		}
		eg.Go(func() error {
			text := e.truncate(nodes[idx].EmbeddingText())
			vec, err := e.client.GenerateEmbedding(ectx, []byte(text))
			if err != nil {
				logger.Warn(
					"[NodeEmbedder] Failed to embed node",
					"node", nodes[idx].ID,
					"error", err,
				)
				return nil
			}
			nodes[idx].Embedding = vec
			return nil
		})
	}

	// workers never return errors
	_ = eg.Wait()

	return nodes
}

// EmbedGraph embeds every node of the graph in place and returns it.
func (e *NodeEmbedder) EmbedGraph(ctx context.Context, g common.Graph) common.Graph {
	g.Nodes = e.EmbedNodes(ctx, g.Nodes)
	return g
}

func (e *NodeEmbedder) truncate(text string) string {
	if e.enc == nil || e.maxTokens <= 0 {
		return text
	}
	tokens := e.enc.Encode(text, nil, nil)
	if len(tokens) <= e.maxTokens {
		return text
	}
	return e.enc.Decode(tokens[:e.maxTokens])
}
