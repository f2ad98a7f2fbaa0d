package retrieve

import (
	"testing"

	"github.com/konsult-ai/rag-router/internal/hybridsearch"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

func sampleFused() []hybridsearch.FusedResult {
	return []hybridsearch.FusedResult{
		{DocumentID: "kw-only", KeywordRank: 1, KeywordScore: 5},
		{DocumentID: "vec-only", SemanticRank: 1, SemanticScore: 0.9},
		{DocumentID: "both", KeywordRank: 2, SemanticRank: 2, KeywordScore: 3, SemanticScore: 0.7},
	}
}

func TestApplyStrategy_SemanticOnlyDropsKeywordOnlyHits(t *testing.T) {
	out := ApplyStrategy(sampleFused(), ragmodel.StrategySemanticOnly)
	for _, fr := range out {
		if fr.DocumentID == "kw-only" {
			t.Error("expected kw-only hit dropped under semantic_only")
		}
	}
	if len(out) != 2 {
		t.Errorf("expected 2 results, got %d", len(out))
	}
}

func TestApplyStrategy_LexicalOnlyDropsVectorOnlyHits(t *testing.T) {
	out := ApplyStrategy(sampleFused(), ragmodel.StrategyLexicalOnly)
	for _, fr := range out {
		if fr.DocumentID == "vec-only" {
			t.Error("expected vec-only hit dropped under lexical_only")
		}
	}
	if len(out) != 2 {
		t.Errorf("expected 2 results, got %d", len(out))
	}
}

func TestApplyStrategy_VectorHeavyFavorsSemanticRank(t *testing.T) {
	fused := []hybridsearch.FusedResult{
		{DocumentID: "kw-only", KeywordRank: 1, KeywordScore: 5},
		{DocumentID: "vec-only", SemanticRank: 1, SemanticScore: 0.9},
	}
	out := ApplyStrategy(fused, ragmodel.StrategyVectorHeavy)
	if out[0].DocumentID != "vec-only" {
		t.Errorf("expected vec-only to outrank kw-only under vector_heavy, got %s first", out[0].DocumentID)
	}

	outBM25 := ApplyStrategy(fused, ragmodel.StrategyBM25Heavy)
	if outBM25[0].DocumentID != "kw-only" {
		t.Errorf("expected kw-only to outrank vec-only under bm25_heavy, got %s first", outBM25[0].DocumentID)
	}
}

func TestApplyStrategy_HybridPreservesInput(t *testing.T) {
	in := sampleFused()
	out := ApplyStrategy(in, ragmodel.StrategyHybrid)
	if len(out) != len(in) {
		t.Errorf("expected hybrid to pass through unchanged length, got %d", len(out))
	}
}
