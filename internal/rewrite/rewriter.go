// Package rewrite turns an anaphoric follow-up query ("그럼 필요 서류는?")
// into a standalone query using the preceding conversation turn, and
// detects when a new topic has started so that rewriting is skipped.
package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"go.uber.org/zap"
)

const rewriterSystemPrompt = `당신은 이전 대화를 참고하여 후속 질문을 독립적인 질문으로 바꾸는 어시스턴트입니다.
이전 답변의 핵심 주제를 반영하여 대명사나 생략된 표현을 구체적으로 채워 넣으세요.
바꿀 필요가 없다면 원문을 그대로 반환하세요.
질문만 반환하고 다른 설명은 추가하지 마세요.`

// Result is the outcome of a Rewrite call, recorded on RouterState as
// query_rewrite_{applied, reason, time}.
type Result struct {
	Query   string
	Applied bool
	Reason  string
}

// Rewriter rewrites anaphoric follow-ups into standalone queries.
type Rewriter struct {
	llm         *llmclient.Client
	domainNouns map[string]bool
	logger      *zap.Logger
}

// New builds a Rewriter. domainNouns is the vocabulary used to detect a
// new topic (a domain-specific noun present in the query but absent from
// history); a nil/empty set falls back to DefaultDomainNouns.
func New(llm *llmclient.Client, domainNouns []string, logger *zap.Logger) *Rewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(domainNouns) == 0 {
		domainNouns = DefaultDomainNouns
	}
	nounSet := make(map[string]bool, len(domainNouns))
	for _, n := range domainNouns {
		nounSet[n] = true
	}
	return &Rewriter{
		llm:         llm,
		domainNouns: nounSet,
		logger:      logger,
	}
}

// DefaultDomainNouns is the vocabulary checked for new-topic detection.
var DefaultDomainNouns = []string{
	"창업", "지원금", "정책자금", "부가세", "종합소득세", "법인세",
	"근로계약", "퇴직금", "최저임금", "계약서", "분쟁", "소송",
}

// Rewrite returns query unchanged (Applied=false) when history is empty,
// no assistant turn exists yet, or the query starts a new topic. Otherwise
// it calls the LLM to resolve anaphora against the last assistant turn.
func (r *Rewriter) Rewrite(ctx context.Context, query string, history ragmodel.History) (*Result, error) {
	if len(history) == 0 {
		return &Result{Query: query, Applied: false, Reason: "no_history"}, nil
	}
	lastAssistant, ok := history.LastAssistantTurn()
	if !ok {
		return &Result{Query: query, Applied: false, Reason: "no_assistant_turn"}, nil
	}
	if r.isNewTopic(query, history) {
		return &Result{Query: query, Applied: false, Reason: "new_topic"}, nil
	}

	rewritten, err := r.rewriteLLM(ctx, query, lastAssistant)
	if err != nil {
		r.logger.Warn("query rewrite failed, using original query", zap.Error(err))
		return &Result{Query: query, Applied: false, Reason: "llm_failed"}, nil
	}
	if strings.TrimSpace(rewritten) == "" {
		return &Result{Query: query, Applied: false, Reason: "empty_rewrite"}, nil
	}
	return &Result{Query: rewritten, Applied: true, Reason: "anaphora_rewrite"}, nil
}

// isNewTopic reports whether query names a domain-specific noun that
// never appeared anywhere in history, per spec.md §4.7. Matching is
// substring-based rather than exact tokenization, since Korean particles
// attach directly to nouns with no word boundary ("근로계약서는" still
// contains "계약서").
func (r *Rewriter) isNewTopic(query string, history ragmodel.History) bool {
	var historyText strings.Builder
	for _, turn := range history {
		historyText.WriteString(turn.Content)
		historyText.WriteString(" ")
	}
	historyJoined := historyText.String()

	for noun := range r.domainNouns {
		if !strings.Contains(query, noun) {
			continue
		}
		if !strings.Contains(historyJoined, noun) {
			return true
		}
	}
	return false
}

func (r *Rewriter) rewriteLLM(ctx context.Context, query string, lastAssistant ragmodel.Turn) (string, error) {
	prompt := fmt.Sprintf("이전 답변: %s\n후속 질문: %s", lastAssistant.Content, query)
	resp, err := r.llm.Complete(ctx, llmclient.Request{
		System: rewriterSystemPrompt,
		Messages: []llmclient.Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   200,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("rewrite: llm call: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
