// Package lexical provides a classic BM25-scored keyword index, one
// Bleve-backed collection per domain, for the lexical half of hybrid
// search.
package lexical

import "context"

// Index defines keyword search operations for one domain collection.
type Index interface {
	Index(ctx context.Context, id string, content, title string) error
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Delete(ctx context.Context, id string) error
	DocCount() (int, error)
	Close() error
}

// Result is a single keyword search hit scored by classic BM25.
type Result struct {
	ID    string
	Score float64
}
