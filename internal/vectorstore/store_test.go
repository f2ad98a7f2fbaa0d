package vectorstore

import (
	"context"
	"testing"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

func TestStore_PerDomainCollections(t *testing.T) {
	s := New(2)
	ctx := context.Background()

	if err := s.Add(ctx, ragmodel.DomainFinanceTax, []string{"doc1"}, [][]float32{{1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ctx, ragmodel.DomainHRLabor, []string{"doc2"}, [][]float32{{0, 1}}); err != nil {
		t.Fatal(err)
	}

	financeResults, err := s.SimilaritySearch(ctx, ragmodel.DomainFinanceTax, []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(financeResults) != 1 || financeResults[0].ID != "doc1" {
		t.Errorf("expected only doc1 in finance_tax collection, got %v", financeResults)
	}

	hrResults, err := s.SimilaritySearch(ctx, ragmodel.DomainHRLabor, []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hrResults) != 1 || hrResults[0].ID != "doc2" {
		t.Errorf("expected only doc2 in hr_labor collection, got %v", hrResults)
	}
}

func TestStore_LawCommonIsShared(t *testing.T) {
	s := New(2)
	ctx := context.Background()
	if err := s.Add(ctx, "law_common", []string{"lc1"}, [][]float32{{1, 1}}); err != nil {
		t.Fatal(err)
	}
	coll, err := s.LawCommon()
	if err != nil {
		t.Fatal(err)
	}
	if coll.Size() != 1 {
		t.Errorf("expected 1 vector in law_common, got %d", coll.Size())
	}
}

func TestStore_MMRSearchDiversifies(t *testing.T) {
	s := New(2)
	ctx := context.Background()
	ids := []string{"a", "b", "c", "d"}
	vecs := [][]float32{
		{1, 0},
		{0.99, 0.01},
		{0, 1},
		{0.01, 0.99},
	}
	if err := s.Add(ctx, ragmodel.DomainGeneral, ids, vecs); err != nil {
		t.Fatal(err)
	}
	results, err := s.MMRSearch(ctx, ragmodel.DomainGeneral, []float32{1, 0}, 2, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		seen[r.ID] = true
	}
	if !seen["a"] {
		t.Error("expected the most relevant vector 'a' to be selected")
	}
	if seen["b"] && !seen["c"] && !seen["d"] {
		t.Error("expected MMR to diversify away from the near-duplicate 'b' in favor of 'c' or 'd'")
	}
}
