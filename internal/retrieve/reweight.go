package retrieve

import (
	"sort"

	"github.com/konsult-ai/rag-router/internal/hybridsearch"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

const rrfK = 60

// ApplyStrategy re-scores fused results per the selected strategy: HYBRID
// keeps RRF's balanced score; VECTOR_HEAVY/BM25_HEAVY re-weight the two
// source contributions; SEMANTIC_ONLY/LEXICAL_ONLY drop results missing
// from the favored source entirely.
func ApplyStrategy(fused []hybridsearch.FusedResult, strategy ragmodel.Strategy) []hybridsearch.FusedResult {
	switch strategy {
	case ragmodel.StrategySemanticOnly:
		return filterAndSort(fused, func(fr hybridsearch.FusedResult) bool { return fr.SemanticRank > 0 })
	case ragmodel.StrategyLexicalOnly:
		return filterAndSort(fused, func(fr hybridsearch.FusedResult) bool { return fr.KeywordRank > 0 })
	case ragmodel.StrategyVectorHeavy, ragmodel.StrategyBM25Heavy:
		vectorWeight, keywordWeight := StrategyWeights(strategy)
		out := make([]hybridsearch.FusedResult, len(fused))
		copy(out, fused)
		for i := range out {
			out[i].Score = weightedScore(out[i], vectorWeight, keywordWeight)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
		return out
	default:
		return fused
	}
}

func weightedScore(fr hybridsearch.FusedResult, vectorWeight, keywordWeight float64) float64 {
	var score float64
	if fr.SemanticRank > 0 {
		score += vectorWeight / float64(rrfK+fr.SemanticRank)
	}
	if fr.KeywordRank > 0 {
		score += keywordWeight / float64(rrfK+fr.KeywordRank)
	}
	return score
}

func filterAndSort(fused []hybridsearch.FusedResult, keep func(hybridsearch.FusedResult) bool) []hybridsearch.FusedResult {
	out := make([]hybridsearch.FusedResult, 0, len(fused))
	for _, fr := range fused {
		if keep(fr) {
			out = append(out, fr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
