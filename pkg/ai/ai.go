package ai

import "context"

// ModelMetrics contains accumulated usage metrics from embedding operations.
type ModelMetrics struct {
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// EmbeddingClient defines the interface for vector embedding backends.
// Implementations must return a zero vector for blank input rather than
// calling the remote model.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error)

	GetMetrics() ModelMetrics
	ResetMetrics()
}
