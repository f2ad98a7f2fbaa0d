package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

func domainQueries() map[ragmodel.Domain][]string {
	return map[ragmodel.Domain][]string{
		ragmodel.DomainStartupFunding: {"centroid-startup"},
		ragmodel.DomainFinanceTax:     {"centroid-finance"},
		ragmodel.DomainHRLabor:        {"centroid-hr"},
		ragmodel.DomainLawCommon:      {"centroid-law"},
	}
}

func seedCentroidVectors(e *fakeEmbedder) {
	e.set("centroid-startup", []float32{1, 0, 0, 0})
	e.set("centroid-finance", []float32{0, 1, 0, 0})
	e.set("centroid-hr", []float32{0, 0, 1, 0})
	e.set("centroid-law", []float32{0, 0, 0, 1})
}

func TestClassifyHybrid_SelectsTopDomainWithoutKeywordHit(t *testing.T) {
	e := newFakeEmbedder(4)
	seedCentroidVectors(e)
	e.set("query", []float32{0, 1, 0, 0})

	c := New(ModeHybrid, e, nil, domainQueries())
	result, err := c.Classify(context.Background(), "query")
	if err != nil {
		t.Fatal(err)
	}
	if result.IsRejection {
		t.Fatal("expected a routable classification, got rejection")
	}
	if len(result.Domains) != 1 || result.Domains[0] != ragmodel.DomainFinanceTax {
		t.Errorf("expected single domain finance_tax, got %v", result.Domains)
	}
	if result.Confidences[ragmodel.DomainFinanceTax] != 1.0 {
		t.Errorf("expected confidence 1.0 with no keyword boost, got %v", result.Confidences)
	}
}

func TestClassifyHybrid_KeywordBoostsConfidence(t *testing.T) {
	e := newFakeEmbedder(4)
	seedCentroidVectors(e)
	e.set("부가세 신고는 언제까지", []float32{0, 0.85, 0, 0})

	c := New(ModeHybrid, e, nil, domainQueries())
	result, err := c.Classify(context.Background(), "부가세 신고는 언제까지")
	if err != nil {
		t.Fatal(err)
	}
	conf := result.Confidences[ragmodel.DomainFinanceTax]
	if conf <= 0.85 {
		t.Errorf("expected keyword boost to raise confidence above 0.85, got %v", conf)
	}
}

func TestClassifyHybrid_RejectsWhenKeywordButLowSimilarity(t *testing.T) {
	e := newFakeEmbedder(4)
	seedCentroidVectors(e)
	// keyword rule for finance_tax matches, but embed the query far from every centroid.
	e.set("부가세 신고는 이상한 질문", []float32{0.01, 0.01, 0.01, 0.01})

	c := New(ModeHybrid, e, nil, domainQueries())
	result, err := c.Classify(context.Background(), "부가세 신고는 이상한 질문")
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsRejection {
		t.Errorf("expected rejection when keyword hit but all similarities below threshold, got %v", result)
	}
}

func TestClassifyHybrid_MultiLabelWithinGap(t *testing.T) {
	e := newFakeEmbedder(4)
	seedCentroidVectors(e)
	e.set("query", []float32{0, 0.9, 0.85, 0})

	c := New(ModeHybrid, e, nil, domainQueries())
	result, err := c.Classify(context.Background(), "query")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Domains) < 2 {
		t.Fatalf("expected multi-label co-selection, got %v", result.Domains)
	}
	found := map[ragmodel.Domain]bool{}
	for _, d := range result.Domains {
		found[d] = true
	}
	if !found[ragmodel.DomainFinanceTax] || !found[ragmodel.DomainHRLabor] {
		t.Errorf("expected finance_tax and hr_labor co-selected, got %v", result.Domains)
	}
}

func TestClassifyHybrid_VectorStoreFailureFallsBackToKeywordOnly(t *testing.T) {
	e := newFakeEmbedder(4)
	e.err = errors.New("vector store unavailable")

	c := New(ModeHybrid, e, nil, domainQueries())
	result, err := c.Classify(context.Background(), "부가세 신고는 언제까지 해야 하나요?")
	if err != nil {
		t.Fatal(err)
	}
	if result.Source != ragmodel.ClassificationSourceKeyword {
		t.Errorf("expected keyword-only source on vector failure, got %s", result.Source)
	}
	if result.IsRejection {
		t.Error("expected keyword hit to still route despite vector failure")
	}
}

func TestClassifyHybrid_EmptyOutputRoutesToGeneral(t *testing.T) {
	e := newFakeEmbedder(4)
	e.err = errors.New("vector store unavailable")

	c := New(ModeHybrid, e, nil, domainQueries())
	result, err := c.Classify(context.Background(), "오늘 날씨 어때요?")
	if err != nil {
		t.Fatal(err)
	}
	if result.IsRejection {
		t.Errorf("expected general->law_common degradation with no keyword hits and failed vector path, got rejection %v", result)
	}
	if len(result.Domains) != 1 || result.Domains[0] != ragmodel.DomainLawCommon {
		t.Errorf("expected general escape hatch to route to law_common, got %v", result.Domains)
	}
	if result.Source != ragmodel.ClassificationSourceKeyword {
		t.Errorf("expected keyword source carried through from the vector-failure path, got %s", result.Source)
	}
}
