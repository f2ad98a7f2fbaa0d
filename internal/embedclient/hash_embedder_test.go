package embedclient

import (
	"context"
	"math"
	"testing"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(8, 10)
	a, err := e.Embed(context.Background(), "부가세 신고 기한")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(context.Background(), "부가세 신고 기한")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("expected dimension 8, got %d/%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical embeddings, differ at %d: %v vs %v", i, a, b)
		}
	}
}

func TestHashEmbedder_UnitNorm(t *testing.T) {
	e := NewHashEmbedder(16, 10)
	v, err := e.Embed(context.Background(), "고용보험 가입")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, x := range v {
		sum += float64(x * x)
	}
	if math.Abs(sum-1.0) > 1e-3 {
		t.Errorf("expected unit norm, got %f", sum)
	}
}

func TestHashEmbedder_EmbedBatch(t *testing.T) {
	e := NewHashEmbedder(4, 10)
	out, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(out))
	}
}

func TestNew_fallsBackToHashEmbedder(t *testing.T) {
	e, err := New("", 4, 16, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.(*HashEmbedder); !ok {
		t.Errorf("expected HashEmbedder when modelPath is empty, got %T", e)
	}
}
