package rewrite

import (
	"context"
	"testing"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

func TestRewrite_SkipsWhenHistoryEmpty(t *testing.T) {
	r := New(nil, nil, nil)
	result, err := r.Rewrite(context.Background(), "그럼 필요 서류는?", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Applied || result.Reason != "no_history" {
		t.Errorf("expected no_history skip, got %+v", result)
	}
	if result.Query != "그럼 필요 서류는?" {
		t.Errorf("expected original query preserved, got %q", result.Query)
	}
}

func TestRewrite_SkipsWhenNoAssistantTurn(t *testing.T) {
	r := New(nil, nil, nil)
	history := ragmodel.History{{Role: ragmodel.RoleUser, Content: "부가세 신고는 어떻게 하나요?"}}
	result, err := r.Rewrite(context.Background(), "그럼 필요 서류는?", history)
	if err != nil {
		t.Fatal(err)
	}
	if result.Applied || result.Reason != "no_assistant_turn" {
		t.Errorf("expected no_assistant_turn skip, got %+v", result)
	}
}

func TestRewrite_SkipsOnNewTopic(t *testing.T) {
	r := New(nil, nil, nil)
	history := ragmodel.History{
		{Role: ragmodel.RoleUser, Content: "부가세 신고는 언제까지 해야 하나요?"},
		{Role: ragmodel.RoleAssistant, Content: "부가세 신고는 매 분기 말일로부터 25일 이내입니다."},
	}
	result, err := r.Rewrite(context.Background(), "근로계약서는 어떻게 작성하나요?", history)
	if err != nil {
		t.Fatal(err)
	}
	if result.Applied || result.Reason != "new_topic" {
		t.Errorf("expected new_topic skip, got %+v", result)
	}
}

func TestIsNewTopic_FalseWhenNounAlreadyDiscussed(t *testing.T) {
	r := New(nil, nil, nil)
	history := ragmodel.History{
		{Role: ragmodel.RoleUser, Content: "부가세 신고는 언제까지 해야 하나요?"},
		{Role: ragmodel.RoleAssistant, Content: "부가세 신고는 매 분기 말일로부터 25일 이내입니다."},
	}
	if r.isNewTopic("부가세 관련해서 더 알려주세요", history) {
		t.Error("expected no new topic when the noun was already discussed")
	}
}
