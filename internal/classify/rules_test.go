package classify

import (
	"testing"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

func TestKeywordMatcher_MatchesCompoundRule(t *testing.T) {
	m := NewKeywordMatcher(nil)
	hits := m.Match("부가세 신고는 언제까지 해야 하나요?")
	if !hits[ragmodel.DomainFinanceTax] {
		t.Errorf("expected finance_tax hit, got %v", hits)
	}
}

func TestKeywordMatcher_RequiresAllTerms(t *testing.T) {
	m := NewKeywordMatcher([]CompoundRule{{Domain: ragmodel.DomainStartupFunding, Terms: []string{"지원", "기업"}}})
	hits := m.Match("지원 정책이 궁금해요")
	if hits[ragmodel.DomainStartupFunding] {
		t.Errorf("expected no hit when only one compound term present, got %v", hits)
	}
}

func TestKeywordMatcher_NoMatch(t *testing.T) {
	m := NewKeywordMatcher(nil)
	hits := m.Match("오늘 날씨가 어때요?")
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %v", hits)
	}
}
