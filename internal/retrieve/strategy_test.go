package retrieve

import (
	"testing"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

func TestSelectStrategy_CitationPrefersBM25Heavy(t *testing.T) {
	shape := AnalyzeQuery("근로기준법 제17조의 내용이 궁금합니다")
	if !shape.IsCitation {
		t.Fatal("expected citation marker to be detected")
	}
	if got := SelectStrategy(shape); got != ragmodel.StrategyBM25Heavy {
		t.Errorf("SelectStrategy() = %s, want bm25_heavy", got)
	}
}

func TestSelectStrategy_LongQueryPrefersVectorHeavy(t *testing.T) {
	shape := AnalyzeQuery("저희 회사는 작년에 설립된 소규모 스타트업인데 정부 지원사업에 지원하고 싶습니다 어떤 절차를 거쳐야 하고 필요한 서류는 무엇인가요")
	if got := SelectStrategy(shape); got != ragmodel.StrategyVectorHeavy {
		t.Errorf("SelectStrategy() = %s, want vector_heavy", got)
	}
}

func TestSelectStrategy_ShortQueryPrefersSemanticOnly(t *testing.T) {
	shape := AnalyzeQuery("퇴직금")
	if got := SelectStrategy(shape); got != ragmodel.StrategySemanticOnly {
		t.Errorf("SelectStrategy() = %s, want semantic_only", got)
	}
}

func TestSelectStrategy_DefaultsToHybrid(t *testing.T) {
	shape := AnalyzeQuery("부가세 신고 기한이 궁금해요")
	if got := SelectStrategy(shape); got != ragmodel.StrategyHybrid {
		t.Errorf("SelectStrategy() = %s, want hybrid", got)
	}
}

func TestAnalyzeQuery_DetectsLegalTrigger(t *testing.T) {
	shape := AnalyzeQuery("관련 판례가 있을까요?")
	if !shape.HasLegalTrigger {
		t.Error("expected legal trigger token detection")
	}
}
