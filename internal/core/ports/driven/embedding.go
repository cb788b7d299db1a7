package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Outputs are L2-normalised and deterministic for fixed model weights.
// Calls are blocking and CPU-heavy on local backends; each worker owns its
// own instance so ingest-side and query-side embedding never contend.
//
// Implementations may include:
//   - Ollama (all-minilm, nomic-embed-text)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a unit vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates unit vectors for multiple texts in one call,
	// preserving input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768).
	// This must match the vector index configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
