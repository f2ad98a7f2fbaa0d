package rerank

import (
	"context"
	"testing"
)

func TestOverlapCrossEncoder_Score(t *testing.T) {
	ce := NewOverlapCrossEncoder()
	scores, err := ce.Score(context.Background(), []Pair{
		{Query: "부가세 신고 기한", Doc: "부가세 신고는 매 분기 말일로부터 25일 이내에 해야 합니다."},
		{Query: "부가세 신고 기한", Doc: "근로계약서 작성 시 유의사항을 안내합니다."},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[0] <= scores[1] {
		t.Errorf("expected the relevant doc to score higher: %v", scores)
	}
}

func TestNew_fallsBackToOverlap(t *testing.T) {
	ce, err := New("", 256)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ce.(*OverlapCrossEncoder); !ok {
		t.Errorf("expected OverlapCrossEncoder when modelPath is empty, got %T", ce)
	}
}
