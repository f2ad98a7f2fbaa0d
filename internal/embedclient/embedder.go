// Package embedclient produces vector embeddings for Korean query and
// document text, with an in-memory LRU cache and a real/stub ONNX backend
// selected at build time.
package embedclient

import "context"

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
