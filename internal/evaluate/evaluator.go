// Package evaluate scores a generated answer against its supporting
// documents using an LLM judge, tolerating minor deviations in the judge's
// JSON output rather than failing the whole pipeline on a malformed reply.
package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"go.uber.org/zap"
)

const judgeSystemPrompt = `당신은 상담 답변의 품질을 평가하는 엄격한 심사관입니다.
아래 질문, 근거 자료, 답변을 보고 5가지 기준에 대해 0~10점으로 채점하십시오.

기준:
- relevance: 답변이 질문과 관련이 있는가
- faithfulness: 답변이 근거 자료에만 기반하는가, 자료에 없는 내용을 지어내지 않았는가
- completeness: 질문의 모든 측면을 다루었는가
- clarity: 답변이 명확하고 이해하기 쉬운가
- citation_discipline: [N] 형식의 출처 인용을 올바르게 사용했는가

반드시 아래 JSON 형식으로만 답하십시오:
{"relevance": 0-10, "faithfulness": 0-10, "completeness": 0-10, "clarity": 0-10, "citation_discipline": 0-10, "feedback": "한 문장 피드백"}`

// Evaluator scores a Generation against its RouterState context using an
// LLM judge.
type Evaluator struct {
	llm    *llmclient.Client
	logger *zap.Logger
}

// New creates an Evaluator backed by llm.
func New(llm *llmclient.Client, logger *zap.Logger) *Evaluator {
	return &Evaluator{llm: llm, logger: logger}
}

// Evaluate judges the answer in generation against query and the documents
// that supported it. On any parse failure it returns
// ragmodel.UnparseableEvaluationResult rather than propagating an error, so
// a judge hiccup never triggers a false retry storm.
func (e *Evaluator) Evaluate(ctx context.Context, query string, documents []*ragmodel.Document, generation *ragmodel.Generation) *ragmodel.EvaluationResult {
	resp, err := e.llm.Complete(ctx, llmclient.Request{
		System:      judgeSystemPrompt,
		Messages:    []llmclient.Message{{Role: "user", Content: judgePrompt(query, documents, generation)}},
		MaxTokens:   512,
		Temperature: 0,
	})
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("evaluator llm call failed", zap.Error(err))
		}
		return ragmodel.UnparseableEvaluationResult()
	}

	result, ok := parseJudgeResponse(resp.Text)
	if !ok {
		if e.logger != nil {
			e.logger.Warn("evaluator response unparseable", zap.String("raw", resp.Text))
		}
		return ragmodel.UnparseableEvaluationResult()
	}
	return result
}

func judgePrompt(query string, documents []*ragmodel.Document, generation *ragmodel.Generation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## 질문\n%s\n\n## 근거 자료\n", query)
	for i, doc := range documents {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, doc.Content)
	}
	fmt.Fprintf(&b, "\n## 답변\n%s\n", generation.Content)
	return b.String()
}

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

type judgeJSON struct {
	Relevance          *float64 `json:"relevance"`
	Faithfulness       *float64 `json:"faithfulness"`
	Completeness       *float64 `json:"completeness"`
	Clarity            *float64 `json:"clarity"`
	CitationDiscipline *float64 `json:"citation_discipline"`
	Feedback           string   `json:"feedback"`
}

// parseJudgeResponse tolerantly decodes the judge's reply: it extracts the
// first brace-delimited JSON object in the text (the model sometimes wraps
// its answer in prose or a markdown fence) and requires every criterion to
// be present and numeric; any miss is treated as unparseable rather than
// silently defaulted to zero, since a silent zero would masquerade as a
// genuine low score and trigger a retry.
func parseJudgeResponse(text string) (*ragmodel.EvaluationResult, bool) {
	raw := jsonObjectPattern.FindString(text)
	if raw == "" {
		return nil, false
	}

	var parsed judgeJSON
	if err := json.NewDecoder(strings.NewReader(raw)).Decode(&parsed); err != nil {
		return nil, false
	}

	fields := map[ragmodel.EvaluationCriterion]*float64{
		ragmodel.CriterionRelevance:          parsed.Relevance,
		ragmodel.CriterionFaithfulness:       parsed.Faithfulness,
		ragmodel.CriterionCompleteness:       parsed.Completeness,
		ragmodel.CriterionClarity:            parsed.Clarity,
		ragmodel.CriterionCitationDiscipline: parsed.CitationDiscipline,
	}

	scores := make(map[ragmodel.EvaluationCriterion]float64, len(fields))
	var sum float64
	for _, criterion := range ragmodel.EvaluationCriteria {
		v := fields[criterion]
		if v == nil {
			return nil, false
		}
		scores[criterion] = *v
		sum += *v
	}

	result := &ragmodel.EvaluationResult{
		Scores:     scores,
		TotalScore: sum / float64(len(ragmodel.EvaluationCriteria)),
		Feedback:   parsed.Feedback,
	}
	result.Passed = result.ComputePassed()
	return result, true
}

// ShouldRetry reports whether a failed evaluation should trigger another
// graduated retrieval retry, per spec.md §4.10's router signal.
func ShouldRetry(eval *ragmodel.EvaluationResult, retryCount, maxRetry int, enablePostEvalRetry bool) bool {
	if eval == nil || eval.Passed || !enablePostEvalRetry {
		return false
	}
	return retryCount < maxRetry
}
