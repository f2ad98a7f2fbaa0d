package lexical

import (
	"context"
	"testing"
)

func TestBM25Index_SearchFindsContent(t *testing.T) {
	idx, err := NewBM25Index()
	if err != nil {
		t.Fatalf("NewBM25Index: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	if err := idx.Index(ctx, "doc1", "부가세 신고는 매 분기 말일로부터 25일 이내에 해야 합니다.", "부가세 신고 안내"); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if err := idx.Index(ctx, "doc2", "근로계약서 작성 시 유의사항을 안내합니다.", "근로계약서 안내"); err != nil {
		t.Fatalf("Index: %v", err)
	}

	results, err := idx.Search(ctx, "부가세 신고", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].ID != "doc1" {
		t.Errorf("expected doc1 to rank first, got %q", results[0].ID)
	}
}

func TestBM25Index_DocCount(t *testing.T) {
	idx, err := NewBM25Index()
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()
	_ = idx.Index(ctx, "a", "content a", "title a")
	_ = idx.Index(ctx, "b", "content b", "title b")
	n, err := idx.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestBM25Index_Delete(t *testing.T) {
	idx, err := NewBM25Index()
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()
	_ = idx.Index(ctx, "a", "content a", "title a")
	if err := idx.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	n, _ := idx.DocCount()
	if n != 0 {
		t.Errorf("expected 0 after delete, got %d", n)
	}
}

func TestBM25Index_EmptyQuery(t *testing.T) {
	idx, err := NewBM25Index()
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	results, err := idx.Search(context.Background(), "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if results != nil {
		t.Errorf("expected nil results for empty query, got %v", results)
	}
}
