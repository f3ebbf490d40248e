package embeddings

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Engine generates embedding vectors for batches of texts.
type Engine interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

// GeminiEngine generates embeddings with Google's Gemini API.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// NewGeminiEngine creates an engine for the given model.
func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiEngine{
		client: client,
		model:  model,
	}, nil
}

// EmbedBatch generates one vector per text in a single API call.
func (e *GeminiEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx,
		e.model,
		contents,
		&genai.EmbedContentConfig{
			TaskType: "RETRIEVAL_DOCUMENT",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini batch embed failed: %w", err)
	}

	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	embeddings := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		embeddings[i] = emb.Values
	}
	return embeddings, nil
}

// Close closes the underlying client. genai.Client holds no resources
// that require explicit release, so this is a no-op.
func (e *GeminiEngine) Close() error {
	return nil
}
