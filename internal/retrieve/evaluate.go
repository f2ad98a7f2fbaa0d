package retrieve

import (
	"strings"

	"github.com/konsult-ai/rag-router/internal/hybridsearch"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

const (
	matchRatioOKThreshold = 0.3
	avgSimilarityOKThreshold = 0.4
)

// evaluateRetrieval computes keyword_match_ratio, avg_similarity, and
// doc_count over the resolved documents and fused scores, then maps them
// to a RetrievalStatus, per spec.md §4.8 "Retrieval evaluation (rule-based)".
func evaluateRetrieval(query string, docs []*ragmodel.Document, fused []hybridsearch.FusedResult) (matchRatio, avgSim float64, status ragmodel.RetrievalStatus) {
	docCount := len(docs)
	matchRatio = keywordMatchRatio(query, docs)
	avgSim = averageSimilarity(fused)

	switch {
	case matchRatio >= matchRatioOKThreshold && avgSim >= avgSimilarityOKThreshold:
		status = ragmodel.StatusOK
	case docCount >= 1:
		status = ragmodel.StatusPartial
	default:
		status = ragmodel.StatusEmpty
	}
	return matchRatio, avgSim, status
}

// keywordMatchRatio is the fraction of the query's content words found
// somewhere across the top-k retrieved documents.
func keywordMatchRatio(query string, docs []*ragmodel.Document) float64 {
	words := contentWords(query)
	if len(words) == 0 {
		return 0
	}
	var corpus strings.Builder
	for _, d := range docs {
		corpus.WriteString(d.Content)
		corpus.WriteString(" ")
	}
	joined := corpus.String()

	matched := 0
	for _, w := range words {
		if strings.Contains(joined, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}

// contentWords splits query on whitespace; Korean has no stopword list in
// this module, so every whitespace-delimited token counts as content.
func contentWords(query string) []string {
	return strings.Fields(query)
}

// averageSimilarity averages the semantic component of the fused scores
// for hits present in the vector results at all.
func averageSimilarity(fused []hybridsearch.FusedResult) float64 {
	var sum float64
	var n int
	for _, fr := range fused {
		if fr.SemanticRank > 0 {
			sum += fr.SemanticScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
