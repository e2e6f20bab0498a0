package embeddings

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/interfaces"
)

// Service generates embedding vectors through the Gemini embedding API.
// Embeddings back the report store's similarity search, so the configured
// dimensionality must stay constant for the lifetime of a database.
type Service struct {
	client    *genai.Client
	model     string
	dimension int
	logger    arbor.ILogger
}

// NewService creates the embedding service. The Gemini key is required even
// when a different provider handles analysis.
func NewService(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*Service, error) {
	apiKey := cfg.Gemini.APIKey
	if apiKey == "" {
		return nil, &common.ConfigurationError{
			Provider: "gemini",
			Message:  "embedding generation requires a Gemini API key",
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	return &Service{
		client:    client,
		model:     cfg.Embedding.Model,
		dimension: cfg.Embedding.Dimension,
		logger:    logger,
	}, nil
}

// GenerateEmbedding returns the embedding vector for text at the configured
// output dimensionality.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	outputDim := int32(s.dimension)
	config := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := s.client.Models.EmbedContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, config)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}
	if embedding == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(embedding))
	}

	s.logger.Debug().
		Int("dimension", len(embedding)).
		Int("text_length", len(text)).
		Msg("Generated embedding")

	return embedding, nil
}

// Dimension returns the configured vector dimensionality.
func (s *Service) Dimension() int {
	return s.dimension
}

var _ interfaces.EmbeddingService = (*Service)(nil)
