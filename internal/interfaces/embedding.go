package interfaces

import "context"

// EmbeddingService generates vector embeddings for report text.
type EmbeddingService interface {
	// GenerateEmbedding creates a vector embedding for text.
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding dimensionality.
	Dimension() int
}
