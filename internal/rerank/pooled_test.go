package rerank

import (
	"context"
	"testing"
)

func TestPooledCrossEncoder_ScoresAllPairsInOrder(t *testing.T) {
	inner := NewOverlapCrossEncoder()
	pooled := NewPooledCrossEncoder(inner, 2)

	pairs := []Pair{
		{Query: "부가세 신고", Doc: "부가세 신고는 분기별로 진행합니다"},
		{Query: "최저임금", Doc: "오늘 날씨가 좋습니다"},
	}
	scores, err := pooled.Score(context.Background(), pairs)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[0] <= scores[1] {
		t.Errorf("expected the relevant pair to score higher: got %v", scores)
	}
}
