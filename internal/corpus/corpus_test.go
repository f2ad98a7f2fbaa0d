package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/konsult-ai/rag-router/internal/embedclient"
	"github.com/konsult-ai/rag-router/internal/hybridsearch"
	"github.com/konsult-ai/rag-router/internal/lexical"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/vectorstore"
)

func TestLoad_missingFileIsNotError(t *testing.T) {
	seeds, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing corpus file should not error: %v", err)
	}
	if seeds != nil {
		t.Fatalf("expected nil seeds, got %v", seeds)
	}
}

func TestLoad_parsesFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.yaml")
	content := `
documents:
  - id: doc-1
    domain: finance_tax
    title: 부가가치세 신고 안내
    source: nts-vat-guide
    content: 부가가치세 예정 신고 기한은 1월 25일과 7월 25일입니다.
  - id: doc-2
    domain: startup_funding
    title: 사업자등록 절차
    source: startup-guide
    content: 사업자등록은 관할 세무서 또는 홈택스에서 신청할 수 있습니다.
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	seeds, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(seeds) != 2 {
		t.Fatalf("expected 2 seeds, got %d", len(seeds))
	}
	if seeds[0].Domain != ragmodel.DomainFinanceTax {
		t.Errorf("expected finance_tax domain, got %q", seeds[0].Domain)
	}
}

func TestBootstrap_populatesAllThreeStores(t *testing.T) {
	seeds := []Seed{
		{ID: "doc-1", Domain: ragmodel.DomainFinanceTax, Title: "부가세", Source: "nts", Content: "부가가치세 신고 기한은 1월 25일입니다."},
	}
	embedder := embedclient.NewHashEmbedder(8, 100)
	store := vectorstore.New(8)
	registry := lexical.NewRegistry()
	docs := hybridsearch.NewMemoryDocumentProvider()

	if err := Bootstrap(context.Background(), seeds, embedder, store, registry, docs, nil); err != nil {
		t.Fatal(err)
	}

	doc, err := docs.GetDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("expected seeded document to resolve: %v", err)
	}
	if doc.Source() != "nts" {
		t.Errorf("expected source metadata nts, got %q", doc.Source())
	}

	lex, err := registry.Collection(ragmodel.DomainFinanceTax)
	if err != nil {
		t.Fatal(err)
	}
	n, err := lex.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 indexed doc, got %d", n)
	}

	results, err := store.SimilaritySearch(context.Background(), ragmodel.DomainFinanceTax, mustEmbed(t, embedder, "부가가치세 신고"), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "doc-1" {
		t.Errorf("expected doc-1 in vector search results, got %+v", results)
	}
}

func mustEmbed(t *testing.T, e embedclient.Embedder, text string) []float32 {
	t.Helper()
	v, err := e.Embed(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
