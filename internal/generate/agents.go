package generate

import (
	"strings"
	"text/template"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// DomainAgent is a sealed capability record: domain, prompt template,
// trigger keywords, and an action-suggestion rule. Agents are dispatched by
// domain tag rather than by type, per the duck-typed-agent design.
type DomainAgent struct {
	Domain          ragmodel.Domain
	PromptTemplate  *template.Template
	Keywords        []string
	SuggestActions  func(query string, docs []*ragmodel.Document) []*ragmodel.ActionSuggestion
}

func mustParse(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(body))
}

// DefaultAgents is the sealed set of domain agents, one per routable
// consulting specialty.
var DefaultAgents = []DomainAgent{
	{
		Domain:         ragmodel.DomainStartupFunding,
		PromptTemplate: mustParse("startup_funding", startupFundingTemplate),
		Keywords:       []string{"정책자금", "투자", "지원사업", "사업계획서", "창업"},
		SuggestActions: suggestStartupFundingActions,
	},
	{
		Domain:         ragmodel.DomainFinanceTax,
		PromptTemplate: mustParse("finance_tax", financeTaxTemplate),
		Keywords:       []string{"세금", "세무", "부가세", "소득세", "재무제표"},
		SuggestActions: suggestFinanceTaxActions,
	},
	{
		Domain:         ragmodel.DomainHRLabor,
		PromptTemplate: mustParse("hr_labor", hrLaborTemplate),
		Keywords:       []string{"근로계약", "퇴직금", "연차", "4대보험", "해고"},
		SuggestActions: suggestHRLaborActions,
	},
	{
		Domain:         ragmodel.DomainLawCommon,
		PromptTemplate: mustParse("law_common", lawCommonTemplate),
		Keywords:       []string{"법", "조항", "판례", "분쟁", "계약"},
		SuggestActions: suggestLawCommonActions,
	},
}

// AgentByDomain returns the registered agent for domain, or false if none is
// registered (e.g. DomainGeneral or DomainRejection).
func AgentByDomain(domain ragmodel.Domain) (DomainAgent, bool) {
	for _, a := range DefaultAgents {
		if a.Domain == domain {
			return a, true
		}
	}
	return DomainAgent{}, false
}

// BusinessPlanActionType is the action type that raises the generator's
// max_tokens budget from the default to the business-plan ceiling.
const BusinessPlanActionType = "generate_business_plan"

func suggestStartupFundingActions(query string, docs []*ragmodel.Document) []*ragmodel.ActionSuggestion {
	var actions []*ragmodel.ActionSuggestion
	if strings.Contains(query, "사업계획서") || strings.Contains(query, "사업 계획") {
		actions = append(actions, &ragmodel.ActionSuggestion{
			Type:        BusinessPlanActionType,
			Label:       "사업계획서 자동 생성",
			Description: "입력하신 내용을 바탕으로 사업계획서 초안을 생성할 수 있습니다.",
		})
	}
	if strings.Contains(query, "지원사업") || strings.Contains(query, "정책자금") {
		actions = append(actions, &ragmodel.ActionSuggestion{
			Type:        "check_funding_eligibility",
			Label:       "지원사업 자격요건 확인",
			Description: "사업 정보를 입력하면 지원 가능한 정책자금을 확인할 수 있습니다.",
		})
	}
	return actions
}

func suggestFinanceTaxActions(query string, docs []*ragmodel.Document) []*ragmodel.ActionSuggestion {
	var actions []*ragmodel.ActionSuggestion
	if strings.Contains(query, "신고") || strings.Contains(query, "세금계산서") {
		actions = append(actions, &ragmodel.ActionSuggestion{
			Type:        "tax_filing_checklist",
			Label:       "세금 신고 체크리스트 확인",
			Description: "신고 기한과 필요 서류를 정리한 체크리스트를 보여드릴 수 있습니다.",
		})
	}
	return actions
}

func suggestHRLaborActions(query string, docs []*ragmodel.Document) []*ragmodel.ActionSuggestion {
	var actions []*ragmodel.ActionSuggestion
	if strings.Contains(query, "근로계약") {
		actions = append(actions, &ragmodel.ActionSuggestion{
			Type:        "generate_contract",
			Label:       "근로계약서 자동 생성",
			Description: "필요하면 근로계약서 자동 생성도 가능합니다.",
		})
	}
	if strings.Contains(query, "퇴직금") {
		actions = append(actions, &ragmodel.ActionSuggestion{
			Type:        "calculate_severance",
			Label:       "퇴직금 계산",
			Description: "근속기간과 평균임금을 입력하면 퇴직금을 계산해 드립니다.",
		})
	}
	return actions
}

func suggestLawCommonActions(query string, docs []*ragmodel.Document) []*ragmodel.ActionSuggestion {
	var actions []*ragmodel.ActionSuggestion
	if strings.Contains(query, "계약서") {
		actions = append(actions, &ragmodel.ActionSuggestion{
			Type:        "generate_contract",
			Label:       "계약서 자동 생성",
			Description: "표준 계약서 양식을 바탕으로 초안을 생성할 수 있습니다.",
		})
	}
	return actions
}
