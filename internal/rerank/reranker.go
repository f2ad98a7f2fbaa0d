// Package rerank scores (query, document) pairs with a cross-encoder model
// for the optional reranking stage after hybrid fusion.
package rerank

import "context"

// Pair is one (query, document text) candidate to score.
type Pair struct {
	Query string
	Doc   string
}

// CrossEncoder scores query/document pairs. Higher is more relevant.
type CrossEncoder interface {
	Score(ctx context.Context, pairs []Pair) ([]float64, error)
	Close() error
}
