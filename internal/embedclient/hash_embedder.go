package embedclient

import (
	"context"
	"math"
)

// HashEmbedder is a deterministic embedder that derives a unit vector from
// the text hash. It is used in tests and as the default backend when no
// ONNX model path is configured, so the rest of the pipeline (vector store,
// hybrid search, rerank) can run without a model deployment.
type HashEmbedder struct {
	dimensions int
	cache      *Cache
}

// NewHashEmbedder returns a deterministic embedder of the given dimensions,
// caching up to cacheSize embeddings.
func NewHashEmbedder(dimensions, cacheSize int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{dimensions: dimensions, cache: NewCache(cacheSize)}
}

// Embed returns a deterministic embedding based on the text hash.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	h := HashString(text)
	emb := make([]float32, e.dimensions)
	for i := 0; i < e.dimensions; i++ {
		emb[i] = float32(math.Sin(float64(h*(i+1)))*0.1 + 0.01)
	}
	NormalizeL2(emb)
	e.cache.Set(text, emb)
	return emb, nil
}

// EmbedBatch calls Embed for each text in order.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for HashEmbedder.
func (e *HashEmbedder) Close() error {
	return nil
}
