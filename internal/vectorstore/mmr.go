package vectorstore

import (
	"context"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// mmrOversample controls how many extra candidates beyond k are pulled
// from the plain similarity search before MMR re-selection narrows them
// back down to k.
const mmrOversample = 4

// mmrVectorLookup narrows the interface MMR needs from a concrete index,
// so MMRSearch works against any Index that also exposes vectorByID.
type mmrVectorLookup interface {
	vectorByID(id string) ([]float32, bool)
}

// MMRSearch performs maximal-marginal-relevance re-selection over an
// oversampled similarity-search candidate pool: it balances relevance to
// the query against diversity among already-selected results, trading off
// with lambda in [0,1] (1 = pure relevance, 0 = pure diversity).
func (s *Store) MMRSearch(ctx context.Context, domain ragmodel.Domain, query []float32, k int, lambda float64) ([]Result, error) {
	idx, err := s.GetCollection(domain)
	if err != nil {
		return nil, err
	}
	lookup, ok := idx.(mmrVectorLookup)
	if !ok {
		// Backend doesn't support vector lookup (e.g. a remote collection) — fall back to plain top-k.
		return s.SimilaritySearch(ctx, domain, query, k)
	}

	candidates, err := s.SimilaritySearch(ctx, domain, query, k*mmrOversample)
	if err != nil {
		return nil, err
	}
	if len(candidates) <= k {
		return candidates, nil
	}

	selected := make([]Result, 0, k)
	selectedVecs := make([][]float32, 0, k)
	remaining := append([]Result(nil), candidates...)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestScore := -1.0
		for i, cand := range remaining {
			vec, ok := lookup.vectorByID(cand.ID)
			if !ok {
				continue
			}
			diversity := 0.0
			for _, sv := range selectedVecs {
				if sim := CosineSimilarity(vec, sv); sim > diversity {
					diversity = sim
				}
			}
			mmrScore := lambda*cand.Score - (1-lambda)*diversity
			if mmrScore > bestScore {
				bestScore = mmrScore
				bestIdx = i
			}
		}
		if bestIdx == -1 {
			break
		}
		chosen := remaining[bestIdx]
		selected = append(selected, chosen)
		if vec, ok := lookup.vectorByID(chosen.ID); ok {
			selectedVecs = append(selectedVecs, vec)
		}
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected, nil
}
