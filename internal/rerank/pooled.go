package rerank

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PooledCrossEncoder bounds the concurrency of an underlying CrossEncoder's
// per-pair scoring with a worker pool, so a large rerank batch (the
// retrieval agent's cross-domain rerank can pool dozens of documents)
// doesn't spawn one goroutine per pair.
type PooledCrossEncoder struct {
	inner CrossEncoder
	limit int
}

// NewPooledCrossEncoder wraps inner, scoring at most limit pairs
// concurrently. limit <= 0 means unbounded.
func NewPooledCrossEncoder(inner CrossEncoder, limit int) *PooledCrossEncoder {
	return &PooledCrossEncoder{inner: inner, limit: limit}
}

// Score scores each pair individually against inner, bounded by limit
// concurrent in-flight calls.
func (p *PooledCrossEncoder) Score(ctx context.Context, pairs []Pair) ([]float64, error) {
	scores := make([]float64, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			s, err := p.inner.Score(gctx, []Pair{pair})
			if err != nil {
				return err
			}
			scores[i] = s[0]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Close closes the wrapped encoder.
func (p *PooledCrossEncoder) Close() error {
	return p.inner.Close()
}
