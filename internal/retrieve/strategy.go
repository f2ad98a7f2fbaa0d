package retrieve

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// citationMarker matches a Korean legal article citation, e.g. "제3조".
var citationMarker = regexp.MustCompile(`제\s*\d+\s*조`)

// legalTriggerTokens are checked for the legal-supplement step (spec.md
// §4.8 "법·조·항·판례·특허").
var legalTriggerTokens = []string{"법", "조", "항", "판례", "특허"}

// QueryShape summarizes the characteristics strategy selection and the
// budget calculator key off of.
type QueryShape struct {
	WordCount       int
	IsCitation      bool
	HasNumeric      bool
	RuneLen         int
	HasLegalTrigger bool
}

// AnalyzeQuery derives a QueryShape from the raw query text.
func AnalyzeQuery(query string) QueryShape {
	shape := QueryShape{
		WordCount:  len(strings.Fields(query)),
		IsCitation: citationMarker.MatchString(query),
		RuneLen:    len([]rune(query)),
	}
	for _, r := range query {
		if unicode.IsDigit(r) {
			shape.HasNumeric = true
			break
		}
	}
	for _, tok := range legalTriggerTokens {
		if strings.Contains(query, tok) {
			shape.HasLegalTrigger = true
			break
		}
	}
	return shape
}

// SelectStrategy picks a retrieval weighting strategy from query
// characteristics, per spec.md §4.8.
func SelectStrategy(shape QueryShape) ragmodel.Strategy {
	switch {
	case shape.IsCitation:
		// Legal citations are exact-string lookups BM25 is built for.
		return ragmodel.StrategyBM25Heavy
	case shape.HasNumeric && shape.WordCount <= 4:
		// Short numeric queries ("최저임금 2024") read like lexical lookups too.
		return ragmodel.StrategyLexicalOnly
	case shape.WordCount >= 12 || shape.RuneLen >= 60:
		// Long, discursive queries benefit from semantic matching over exact terms.
		return ragmodel.StrategyVectorHeavy
	case shape.WordCount <= 2:
		return ragmodel.StrategySemanticOnly
	default:
		return ragmodel.StrategyHybrid
	}
}

// StrategyWeights returns (vectorWeight, keywordWeight) summing to 1 for
// re-weighting fused RRF scores; SEMANTIC_ONLY/LEXICAL_ONLY are handled by
// filtering instead of weighting (see reweight.go).
func StrategyWeights(s ragmodel.Strategy) (vector, keyword float64) {
	switch s {
	case ragmodel.StrategyVectorHeavy:
		return 0.85, 0.15
	case ragmodel.StrategyBM25Heavy:
		return 0.30, 0.70
	default:
		return 0.5, 0.5
	}
}
