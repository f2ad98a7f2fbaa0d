// Package decompose splits a composite, multi-domain query into one
// sub-query per domain via a single LLM call, preserving entity references
// that would otherwise be lost when each domain is searched independently.
package decompose

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/konsult-ai/rag-router/internal/cachekit"
	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"go.uber.org/zap"
)

const decomposerSystemPrompt = `당신은 복합 질문을 도메인별 하위 질문으로 분해하는 어시스턴트입니다.
각 도메인에 대해 원문의 핵심 개체(예: "우리 회사", 특정 금액, 기간)를 반드시 포함한 독립적인 질문을 하나씩 만드세요.
반드시 다음 JSON 형식으로만 답하세요: {"sub_queries": {"<domain>": "<질문>", ...}}

예시:
질문: "우리 회사의 부가세와 근로계약을 같이 검토해주세요"
도메인: finance_tax, hr_labor
답: {"sub_queries": {"finance_tax": "우리 회사의 부가세 신고를 검토해주세요", "hr_labor": "우리 회사의 근로계약을 검토해주세요"}}`

type llmDecomposition struct {
	SubQueries map[string]string `json:"sub_queries"`
}

// Decomposer produces per-domain sub-queries for multi-domain queries,
// caching results by (query, sorted domains) so repeated composite
// questions in a session don't re-pay the LLM call.
type Decomposer struct {
	llm    *llmclient.Client
	cache  *cachekit.Cache[[]ragmodel.SubQuery]
	logger *zap.Logger
}

// New builds a Decomposer backed by llm, caching up to cacheSize results.
func New(llm *llmclient.Client, cacheSize int, logger *zap.Logger) *Decomposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decomposer{
		llm:    llm,
		cache:  cachekit.New[[]ragmodel.SubQuery](cacheSize),
		logger: logger,
	}
}

// Decompose is only meaningful for |domains| > 1; callers with a single
// domain should skip this node entirely (spec.md §4.6).
func (d *Decomposer) Decompose(ctx context.Context, query string, domains []ragmodel.Domain) ([]ragmodel.SubQuery, error) {
	if len(domains) <= 1 {
		if len(domains) == 1 {
			return []ragmodel.SubQuery{{Text: query, Domain: domains[0], OriginalOrder: 0}}, nil
		}
		return nil, nil
	}

	key := cacheKey(query, domains)
	if cached, ok := d.cache.Get(key); ok {
		return cached, nil
	}

	subQueries, err := d.decomposeLLM(ctx, query, domains)
	if err != nil {
		d.logger.Warn("decomposition failed, falling back to original query per domain", zap.Error(err))
		subQueries = fallback(query, domains)
	}
	d.cache.Set(key, subQueries)
	return subQueries, nil
}

func (d *Decomposer) decomposeLLM(ctx context.Context, query string, domains []ragmodel.Domain) ([]ragmodel.SubQuery, error) {
	domainNames := make([]string, len(domains))
	for i, dom := range domains {
		domainNames[i] = string(dom)
	}
	prompt := fmt.Sprintf("질문: %q\n도메인: %s", query, strings.Join(domainNames, ", "))

	resp, err := d.llm.Complete(ctx, llmclient.Request{
		System: decomposerSystemPrompt,
		Messages: []llmclient.Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   400,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("decompose: llm call: %w", err)
	}

	var parsed llmDecomposition
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &parsed); err != nil {
		return nil, fmt.Errorf("decompose: parse llm response: %w", err)
	}

	subQueries := make([]ragmodel.SubQuery, 0, len(domains))
	for i, dom := range domains {
		text, ok := parsed.SubQueries[string(dom)]
		if !ok || strings.TrimSpace(text) == "" {
			text = query
		}
		subQueries = append(subQueries, ragmodel.SubQuery{Text: text, Domain: dom, OriginalOrder: i})
	}
	if len(subQueries) > ragmodel.MaxSubQueries {
		subQueries = subQueries[:ragmodel.MaxSubQueries]
	}
	return subQueries, nil
}

func fallback(query string, domains []ragmodel.Domain) []ragmodel.SubQuery {
	n := len(domains)
	if n > ragmodel.MaxSubQueries {
		n = ragmodel.MaxSubQueries
	}
	subQueries := make([]ragmodel.SubQuery, n)
	for i := 0; i < n; i++ {
		subQueries[i] = ragmodel.SubQuery{Text: query, Domain: domains[i], OriginalOrder: i}
	}
	return subQueries
}

// cacheKey builds (query, sorted(domains)); history is intentionally
// excluded (see DESIGN.md open question on decomposition cache scope).
func cacheKey(query string, domains []ragmodel.Domain) string {
	sorted := append([]ragmodel.Domain(nil), domains...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	names := make([]string, len(sorted))
	for i, d := range sorted {
		names[i] = string(d)
	}
	h := sha256.Sum256([]byte(query + "|" + strings.Join(names, ",")))
	return hex.EncodeToString(h[:])
}

func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end < start {
		return text
	}
	return text[start : end+1]
}
