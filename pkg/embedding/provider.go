package embedding

import "context"

// Provider defines the interface for generating text embeddings.
type Provider interface {
	// EmbedBatch embeds every text in a single call where the backend
	// supports it. Callers are responsible for keeping batches within the
	// provider's limits.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedOne embeds a single text (convenience method).
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}
