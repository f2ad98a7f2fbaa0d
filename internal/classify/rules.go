package classify

import (
	"strings"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// CompoundRule matches when every term in Terms appears in the query.
// A domain may have several CompoundRules; any one matching counts as a
// keyword hit for that domain.
type CompoundRule struct {
	Domain ragmodel.Domain
	Terms  []string
}

// DefaultCompoundRules is the built-in keyword rule table. Deployments
// needing different rules can pass their own via NewKeywordMatcher.
var DefaultCompoundRules = []CompoundRule{
	{Domain: ragmodel.DomainStartupFunding, Terms: []string{"지원", "기업"}},
	{Domain: ragmodel.DomainStartupFunding, Terms: []string{"창업", "자금"}},
	{Domain: ragmodel.DomainStartupFunding, Terms: []string{"정부", "지원금"}},
	{Domain: ragmodel.DomainStartupFunding, Terms: []string{"사업자", "등록"}},

	{Domain: ragmodel.DomainFinanceTax, Terms: []string{"부가세", "신고"}},
	{Domain: ragmodel.DomainFinanceTax, Terms: []string{"종합소득세"}},
	{Domain: ragmodel.DomainFinanceTax, Terms: []string{"세금", "계산"}},
	{Domain: ragmodel.DomainFinanceTax, Terms: []string{"법인세"}},

	{Domain: ragmodel.DomainHRLabor, Terms: []string{"근로", "계약"}},
	{Domain: ragmodel.DomainHRLabor, Terms: []string{"퇴직금"}},
	{Domain: ragmodel.DomainHRLabor, Terms: []string{"최저임금"}},
	{Domain: ragmodel.DomainHRLabor, Terms: []string{"4대", "보험"}},

	{Domain: ragmodel.DomainLawCommon, Terms: []string{"계약서", "검토"}},
	{Domain: ragmodel.DomainLawCommon, Terms: []string{"분쟁", "해결"}},
	{Domain: ragmodel.DomainLawCommon, Terms: []string{"법률", "자문"}},
}

// KeywordMatcher finds domains whose compound rules match a query.
type KeywordMatcher struct {
	rules []CompoundRule
}

// NewKeywordMatcher builds a matcher over rules. A nil/empty slice uses
// DefaultCompoundRules.
func NewKeywordMatcher(rules []CompoundRule) *KeywordMatcher {
	if len(rules) == 0 {
		rules = DefaultCompoundRules
	}
	return &KeywordMatcher{rules: rules}
}

// Match returns the set of domains with at least one fully-matched
// compound rule against query.
func (m *KeywordMatcher) Match(query string) map[ragmodel.Domain]bool {
	hits := make(map[ragmodel.Domain]bool)
	for _, rule := range m.rules {
		if hits[rule.Domain] {
			continue
		}
		if allTermsPresent(query, rule.Terms) {
			hits[rule.Domain] = true
		}
	}
	return hits
}

func allTermsPresent(query string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(query, t) {
			return false
		}
	}
	return true
}
