package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

const classifierSystemPrompt = `당신은 비즈니스 상담 질문을 다음 도메인 중 하나 이상으로 분류하는 분류기입니다:
- startup_funding: 창업, 정부 지원사업, 정책자금
- finance_tax: 세무, 회계, 재무
- hr_labor: 인사, 노무, 근로 관계
- law_common: 위 세 영역에 걸치지 않는 일반 법률/계약 상담

질문이 위 도메인 어디에도 해당하지 않으면 is_rejection을 true로 설정하세요.
반드시 다음 JSON 형식으로만 답하세요: {"domains": ["..."], "is_rejection": false}

예시:
질문: "부가세 신고는 언제까지 해야 하나요?"
답: {"domains": ["finance_tax"], "is_rejection": false}

질문: "직원을 채용하면서 동시에 정부 지원금도 받고 싶어요"
답: {"domains": ["startup_funding", "hr_labor"], "is_rejection": false}

질문: "오늘 날씨가 어때요?"
답: {"domains": [], "is_rejection": true}`

type llmClassification struct {
	Domains     []string `json:"domains"`
	IsRejection bool     `json:"is_rejection"`
}

// classifyLLM sends a single few-shot classification prompt and parses the
// JSON verdict. Unknown domain strings in the response are dropped rather
// than failing the whole call.
func (c *Classifier) classifyLLM(ctx context.Context, query string) (*ragmodel.ClassificationResult, error) {
	resp, err := c.llm.Complete(ctx, llmclient.Request{
		System: classifierSystemPrompt,
		Messages: []llmclient.Message{
			{Role: "user", Content: query},
		},
		MaxTokens:   200,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("classify: llm call: %w", err)
	}

	raw := extractJSON(resp.Text)
	var parsed llmClassification
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("classify: parse llm response: %w", err)
	}

	if parsed.IsRejection {
		return ragmodel.Rejection(ragmodel.ClassificationSourceLLM), nil
	}

	domains := make([]ragmodel.Domain, 0, len(parsed.Domains))
	confidences := make(map[ragmodel.Domain]float64, len(parsed.Domains))
	for _, name := range parsed.Domains {
		d := ragmodel.Domain(name)
		if !ragmodel.IsRoutable(d) {
			continue
		}
		domains = append(domains, d)
		confidences[d] = 1.0
	}
	if len(domains) > MaxMultiLabelDomains {
		domains = domains[:MaxMultiLabelDomains]
	}
	if len(domains) == 0 {
		// The model returned domains: [] without setting is_rejection — an
		// empty verdict, not a confirmed off-domain rejection.
		return ragmodel.General(ragmodel.ClassificationSourceLLM), nil
	}

	result := &ragmodel.ClassificationResult{
		Domains:     domains,
		IsRejection: false,
		Confidences: confidences,
		Source:      ragmodel.ClassificationSourceLLM,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// extractJSON trims any leading/trailing prose the model adds around the
// JSON object, keeping only the outermost braces.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end < start {
		return text
	}
	return text[start : end+1]
}
