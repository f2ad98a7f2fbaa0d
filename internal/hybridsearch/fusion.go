// Package hybridsearch fuses BM25 and vector search results per domain via
// Reciprocal Rank Fusion, with an optional cross-encoder rerank pass and a
// domain-filter relaxation fallback when a domain collection is sparse.
package hybridsearch

import (
	"math"
	"sort"
)

// rrfK is the RRF rank-damping constant (spec default: 60).
const rrfK = 60

// FusedResult holds a document ID and its fused rank score, plus the raw
// per-source scores for downstream diagnostics (evaluation, logging).
type FusedResult struct {
	DocumentID    string
	Score         float64
	KeywordScore  float64
	SemanticScore float64
	KeywordRank   int // 0 = not present in keyword results
	SemanticRank  int // 0 = not present in semantic results
}

// RankedID is one ranked hit from a single retrieval source, used as input
// to Fuse.
type RankedID struct {
	ID    string
	Score float64
}

// Fuse combines keyword and semantic rankings using Reciprocal Rank Fusion:
// each result's contribution is 1/(k+rank), summed across sources in which
// it appears, then sorted descending.
func Fuse(keywordResults, semanticResults []RankedID) []FusedResult {
	scoreMap := make(map[string]*FusedResult)

	for i, r := range keywordResults {
		rank := i + 1
		fr, ok := scoreMap[r.ID]
		if !ok {
			fr = &FusedResult{DocumentID: r.ID}
			scoreMap[r.ID] = fr
		}
		fr.KeywordScore = r.Score
		fr.KeywordRank = rank
		fr.Score += 1.0 / float64(rrfK+rank)
	}
	for i, r := range semanticResults {
		rank := i + 1
		fr, ok := scoreMap[r.ID]
		if !ok {
			fr = &FusedResult{DocumentID: r.ID}
			scoreMap[r.ID] = fr
		}
		fr.SemanticScore = r.Score
		fr.SemanticRank = rank
		fr.Score += 1.0 / float64(rrfK+rank)
	}

	results := make([]FusedResult, 0, len(scoreMap))
	for _, fr := range scoreMap {
		results = append(results, *fr)
	}
	// Map iteration order is nondeterministic, so equal-score ties must be
	// broken explicitly rather than left to sort.Slice's stability: lower
	// vector rank first (absent from the vector side sorts last), then
	// lexicographically by document ID (the source-URI stand-in available
	// at this layer; Fuse only sees bare IDs, not resolved document
	// metadata) per spec.md §4.4.
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ar, br := vectorRankOrder(a.SemanticRank), vectorRankOrder(b.SemanticRank)
		if ar != br {
			return ar < br
		}
		return a.DocumentID < b.DocumentID
	})
	return results
}

// vectorRankOrder maps a SemanticRank for tie-break comparison: 0 (not
// present in the vector results) sorts after every present rank.
func vectorRankOrder(rank int) int {
	if rank == 0 {
		return math.MaxInt
	}
	return rank
}
