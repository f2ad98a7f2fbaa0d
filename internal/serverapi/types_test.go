package serverapi

import (
	"testing"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

func TestToChatResponse_rejection(t *testing.T) {
	state := ragmodel.NewRouterState("해외여행 추천해줘", nil, nil, "client-1")
	state.Classification = ragmodel.Rejection(ragmodel.ClassificationSourceKeyword)
	state.Generation = &ragmodel.Generation{Content: ragmodel.FixedRefusalMessage}

	resp := toChatResponse(state)

	if resp.Domain != ragmodel.DomainRejection {
		t.Errorf("expected rejection domain, got %q", resp.Domain)
	}
	if resp.Content != ragmodel.FixedRefusalMessage {
		t.Errorf("expected fixed refusal message, got %q", resp.Content)
	}
	if resp.SessionID != nil {
		t.Errorf("expected nil session_id, got %v", resp.SessionID)
	}
	if resp.RagasMetrics != nil {
		t.Errorf("expected nil ragas_metrics, got %v", resp.RagasMetrics)
	}
}

func TestToChatResponse_withGenerationAndDomains(t *testing.T) {
	state := ragmodel.NewRouterState("부가세 신고 기한이 언제인가요?", nil, nil, "client-2")
	state.Classification = &ragmodel.ClassificationResult{
		Domains: []ragmodel.Domain{ragmodel.DomainFinanceTax},
	}
	state.RetryCount = 1
	state.Generation = &ragmodel.Generation{
		Content: "부가가치세 신고 기한은 1월 25일과 7월 25일입니다.",
		Sources: []*ragmodel.SourceCitation{{Title: "부가가치세 안내", SourceURI: "nts-vat-guide"}},
		Actions: []*ragmodel.ActionSuggestion{{Type: "reminder", Label: "신고 기한 알림 설정"}},
	}

	resp := toChatResponse(state)

	if resp.Domain != ragmodel.DomainFinanceTax {
		t.Errorf("expected finance_tax domain, got %q", resp.Domain)
	}
	if len(resp.Domains) != 1 || resp.Domains[0] != ragmodel.DomainFinanceTax {
		t.Errorf("expected domains=[finance_tax], got %v", resp.Domains)
	}
	if len(resp.Sources) != 1 || len(resp.Actions) != 1 {
		t.Errorf("expected sources and actions to carry over, got %+v", resp)
	}
	if resp.RetryCount != 1 {
		t.Errorf("expected retry_count 1, got %d", resp.RetryCount)
	}
}

func TestChatRequest_toHistory(t *testing.T) {
	req := chatRequest{History: []turnDTO{
		{Role: "user", Content: "사업자등록 어떻게 하나요?"},
		{Role: "assistant", Content: "관할 세무서 또는 홈택스에서 신청할 수 있습니다."},
	}}

	history := req.toHistory()

	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[1].Role != ragmodel.RoleAssistant {
		t.Errorf("expected second turn role assistant, got %q", history[1].Role)
	}
}

func TestChatRequest_toHistory_empty(t *testing.T) {
	req := chatRequest{}
	if got := req.toHistory(); got != nil {
		t.Errorf("expected nil history for empty request, got %v", got)
	}
}
