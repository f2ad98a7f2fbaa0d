package llmclient

import "testing"

func TestTokenCounter_Deterministic(t *testing.T) {
	tc := GetTokenCounter()
	a := tc.Count("부가세 신고 기한이 언제인가요?")
	b := tc.Count("부가세 신고 기한이 언제인가요?")
	if a != b {
		t.Errorf("expected deterministic count, got %d vs %d", a, b)
	}
	if a <= 0 {
		t.Errorf("expected positive token count, got %d", a)
	}
}

func TestTokenCounter_LongerTextCountsMore(t *testing.T) {
	tc := GetTokenCounter()
	short := tc.Count("안녕하세요")
	long := tc.Count("안녕하세요, 오늘 창업 자금 지원 제도에 대해 자세히 알고 싶습니다.")
	if long <= short {
		t.Errorf("expected longer text to have more tokens: short=%d long=%d", short, long)
	}
}
