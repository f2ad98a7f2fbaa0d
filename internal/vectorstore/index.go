// Package vectorstore provides a per-domain vector index façade: one named
// collection per ragmodel.Domain plus a shared law_common collection,
// similarity and MMR search, and retry-wrapped writes.
package vectorstore

import "context"

// Index defines vector storage and similarity search for one collection.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]Result, error)
	Remove(ctx context.Context, ids []string) error
	Size() int
	Close() error
}

// Result is a single vector search hit.
type Result struct {
	ID    string
	Score float64 // cosine similarity in [0,1] for normalized vectors
}
