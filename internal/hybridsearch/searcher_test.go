package hybridsearch

import (
	"context"
	"testing"

	"github.com/konsult-ai/rag-router/internal/embedclient"
	"github.com/konsult-ai/rag-router/internal/lexical"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/rerank"
	"github.com/konsult-ai/rag-router/internal/vectorstore"
)

func seedFinanceDocs(t *testing.T, registry *lexical.Registry, store *vectorstore.Store, embedder embedclient.Embedder, provider *MemoryDocumentProvider) {
	t.Helper()
	ctx := context.Background()
	lex, err := registry.Collection(ragmodel.DomainFinanceTax)
	if err != nil {
		t.Fatal(err)
	}

	docs := map[string]string{
		"doc1": "부가세 신고는 매 분기 말일로부터 25일 이내에 해야 합니다.",
		"doc2": "종합소득세 신고 기한은 매년 5월입니다.",
	}
	for id, content := range docs {
		if err := lex.Index(ctx, id, content, ""); err != nil {
			t.Fatal(err)
		}
		vec, err := embedder.Embed(ctx, content)
		if err != nil {
			t.Fatal(err)
		}
		if err := store.Add(ctx, ragmodel.DomainFinanceTax, []string{id}, [][]float32{vec}); err != nil {
			t.Fatal(err)
		}
		provider.Put(id, &ragmodel.Document{Content: content})
	}
}

func TestSearcher_Search_FusesAndResolvesDocuments(t *testing.T) {
	registry := lexical.NewRegistry()
	defer registry.Close()
	store := vectorstore.New(8)
	embedder := embedclient.NewHashEmbedder(8, 100)
	provider := NewMemoryDocumentProvider()
	seedFinanceDocs(t, registry, store, embedder, provider)

	searcher := New(registry, store, embedder, nil, provider)
	docs, fused, err := searcher.Search(context.Background(), ragmodel.DomainFinanceTax, "부가세 신고 기한", Options{K: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) == 0 {
		t.Fatal("expected at least one document")
	}
	if len(fused) == 0 {
		t.Fatal("expected fused results")
	}
}

func TestSearcher_Search_WithReranking(t *testing.T) {
	registry := lexical.NewRegistry()
	defer registry.Close()
	store := vectorstore.New(8)
	embedder := embedclient.NewHashEmbedder(8, 100)
	provider := NewMemoryDocumentProvider()
	seedFinanceDocs(t, registry, store, embedder, provider)

	ce := rerank.NewOverlapCrossEncoder()
	searcher := New(registry, store, embedder, ce, provider)
	docs, _, err := searcher.Search(context.Background(), ragmodel.DomainFinanceTax, "부가세 신고 기한", Options{K: 2, EnableReranking: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) == 0 {
		t.Fatal("expected at least one document after reranking")
	}
}

func TestSearcher_Search_RelaxesToGeneral(t *testing.T) {
	registry := lexical.NewRegistry()
	defer registry.Close()
	store := vectorstore.New(8)
	embedder := embedclient.NewHashEmbedder(8, 100)
	provider := NewMemoryDocumentProvider()
	ctx := context.Background()

	generalLex, err := registry.Collection(ragmodel.DomainGeneral)
	if err != nil {
		t.Fatal(err)
	}
	if err := generalLex.Index(ctx, "gen1", "소상공인 지원 제도 전반에 대한 안내입니다.", ""); err != nil {
		t.Fatal(err)
	}
	vec, err := embedder.Embed(ctx, "소상공인 지원 제도 전반에 대한 안내입니다.")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, ragmodel.DomainGeneral, []string{"gen1"}, [][]float32{vec}); err != nil {
		t.Fatal(err)
	}
	provider.Put("gen1", &ragmodel.Document{Content: "소상공인 지원 제도 전반에 대한 안내입니다."})

	searcher := New(registry, store, embedder, nil, provider)
	docs, _, err := searcher.Search(ctx, ragmodel.DomainStartupFunding, "소상공인 지원 제도", Options{K: 3, RelaxToGeneral: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) == 0 {
		t.Error("expected the general collection fallback to surface at least one document")
	}
}

func TestSearcher_Search_WithMMR(t *testing.T) {
	registry := lexical.NewRegistry()
	defer registry.Close()
	store := vectorstore.New(8)
	embedder := embedclient.NewHashEmbedder(8, 100)
	provider := NewMemoryDocumentProvider()
	seedFinanceDocs(t, registry, store, embedder, provider)

	searcher := New(registry, store, embedder, nil, provider)
	docs, _, err := searcher.Search(context.Background(), ragmodel.DomainFinanceTax, "부가세 신고 기한", Options{K: 2, UseMMR: true, MMRLambda: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) == 0 {
		t.Fatal("expected at least one document with MMR enabled")
	}
}
