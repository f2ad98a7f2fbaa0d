package lexical

import (
	"context"
	"testing"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

func TestRegistry_PerDomainIsolation(t *testing.T) {
	r := NewRegistry()
	defer r.Close()
	ctx := context.Background()

	financeIdx, err := r.Collection(ragmodel.DomainFinanceTax)
	if err != nil {
		t.Fatal(err)
	}
	hrIdx, err := r.Collection(ragmodel.DomainHRLabor)
	if err != nil {
		t.Fatal(err)
	}
	if err := financeIdx.Index(ctx, "f1", "부가세 신고 안내", "부가세"); err != nil {
		t.Fatal(err)
	}
	if err := hrIdx.Index(ctx, "h1", "고용보험 가입 안내", "고용보험"); err != nil {
		t.Fatal(err)
	}

	financeCount, _ := financeIdx.DocCount()
	hrCount, _ := hrIdx.DocCount()
	if financeCount != 1 || hrCount != 1 {
		t.Errorf("expected isolated collections of size 1 each, got finance=%d hr=%d", financeCount, hrCount)
	}
}

func TestRegistry_ReturnsSameCollectionForSameDomain(t *testing.T) {
	r := NewRegistry()
	defer r.Close()
	a, err := r.Collection(ragmodel.DomainGeneral)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Collection(ragmodel.DomainGeneral)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected the same BM25Index instance for repeated lookups of the same domain")
	}
}
