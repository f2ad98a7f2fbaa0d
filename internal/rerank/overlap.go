package rerank

import (
	"context"
	"strings"
)

// OverlapCrossEncoder is a deterministic fallback scorer used when no
// cross-encoder model is configured: it scores a pair by the fraction of
// query terms present in the document, which keeps the reranker interface
// exercised (and testable) without a model deployment.
type OverlapCrossEncoder struct{}

// NewOverlapCrossEncoder returns the fallback scorer.
func NewOverlapCrossEncoder() *OverlapCrossEncoder {
	return &OverlapCrossEncoder{}
}

// Score returns, for each pair, the fraction of query terms found in doc.
func (OverlapCrossEncoder) Score(ctx context.Context, pairs []Pair) ([]float64, error) {
	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		terms := strings.Fields(strings.ToLower(p.Query))
		if len(terms) == 0 {
			continue
		}
		doc := strings.ToLower(p.Doc)
		hits := 0
		for _, t := range terms {
			if strings.Contains(doc, t) {
				hits++
			}
		}
		scores[i] = float64(hits) / float64(len(terms))
	}
	return scores, nil
}

// Close is a no-op.
func (OverlapCrossEncoder) Close() error { return nil }
