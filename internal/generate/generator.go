// Package generate synthesizes a grounded answer from per-domain retrieval
// results: single-domain answers use one of four fixed prompt templates,
// multi-domain questions are fused through one synthesis call, and actions
// are pre-collected so the answer can reference them naturally.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"go.uber.org/zap"
)

const (
	defaultTemperature   = 0.3
	defaultMaxTokens     = 1024
	businessPlanMaxTokens = 8192
)

// Input is what the generator needs to produce one answer.
type Input struct {
	Query       string
	SubQueries  []ragmodel.SubQuery
	Results     []*ragmodel.RetrievalResult
	UserContext map[string]any
}

// Generator synthesizes answers from retrieval results using the registered
// domain agents.
type Generator struct {
	llm    *llmclient.Client
	agents map[ragmodel.Domain]DomainAgent
	logger *zap.Logger
}

// New creates a Generator over agents (DefaultAgents if nil).
func New(llm *llmclient.Client, agents []DomainAgent, logger *zap.Logger) *Generator {
	if agents == nil {
		agents = DefaultAgents
	}
	byDomain := make(map[ragmodel.Domain]DomainAgent, len(agents))
	for _, a := range agents {
		byDomain[a.Domain] = a
	}
	return &Generator{llm: llm, agents: byDomain, logger: logger}
}

// promptData is the value passed to a single-domain prompt template.
type promptData struct {
	Query      string
	Context    string
	ActionHint string
}

// domainSection is one entry in the multi-domain synthesis prompt.
type domainSection struct {
	Domain  string
	Context string
}

type multiPromptData struct {
	Query          string
	SubQueries     []string
	DomainSections []domainSection
	ActionHint     string
}

// Generate synthesizes a single grounded answer for in.
func (g *Generator) Generate(ctx context.Context, in Input) (*ragmodel.Generation, error) {
	sources := buildSources(in.Results)
	actions := g.collectActions(in.Query, in.Results)
	actionHint := actionHintText(actions)

	domains := resultDomains(in.Results)

	var prompt string
	var err error
	if len(domains) <= 1 {
		prompt, err = g.singleDomainPrompt(in, domains, sources, actionHint)
	} else {
		prompt, err = g.multiDomainPrompt(in, sources, actionHint)
	}
	if err != nil {
		return nil, fmt.Errorf("building generation prompt: %w", err)
	}

	resp, err := g.llm.Complete(ctx, llmclient.Request{
		Messages:    []llmclient.Message{{Role: "user", Content: prompt}},
		MaxTokens:   int64(maxTokensFor(actions)),
		Temperature: defaultTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	return &ragmodel.Generation{
		Content: resp.Text,
		Actions: actions,
		Sources: sources,
	}, nil
}

// Refusal builds the fixed refusal Generation for a rejected classification.
func Refusal() *ragmodel.Generation {
	return &ragmodel.Generation{
		Content: fixedRefusalMessage,
		Actions: nil,
		Sources: nil,
	}
}

func (g *Generator) singleDomainPrompt(in Input, domains []ragmodel.Domain, sources []*ragmodel.SourceCitation, actionHint string) (string, error) {
	domain := ragmodel.DomainGeneral
	if len(domains) == 1 {
		domain = domains[0]
	}
	agent, ok := g.agents[domain]
	if !ok {
		// No registered agent (e.g. general fallback): reuse the law_common
		// template as the closest generic consulting voice.
		agent = g.agents[ragmodel.DomainLawCommon]
	}

	data := promptData{
		Query:      in.Query,
		Context:    renderContext(in.Results, sources),
		ActionHint: actionHint,
	}
	var buf bytes.Buffer
	if err := agent.PromptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (g *Generator) multiDomainPrompt(in Input, sources []*ragmodel.SourceCitation, actionHint string) (string, error) {
	tmpl := mustParse("multi_domain_synthesis", multiDomainSynthesisTemplate)

	byDomain := groupResultsByDomain(in.Results)
	sections := make([]domainSection, 0, len(byDomain))
	for _, domain := range sortedDomains(byDomain) {
		sections = append(sections, domainSection{
			Domain:  string(domain),
			Context: renderContext(byDomain[domain], sources),
		})
	}

	subQueries := make([]string, 0, len(in.SubQueries))
	for _, sq := range in.SubQueries {
		subQueries = append(subQueries, sq.Text)
	}

	data := multiPromptData{
		Query:          in.Query,
		SubQueries:     subQueries,
		DomainSections: sections,
		ActionHint:     actionHint,
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (g *Generator) collectActions(query string, results []*ragmodel.RetrievalResult) []*ragmodel.ActionSuggestion {
	byDomain := groupResultsByDomain(results)
	var actions []*ragmodel.ActionSuggestion
	for _, domain := range sortedDomains(byDomain) {
		agent, ok := g.agents[domain]
		if !ok || agent.SuggestActions == nil {
			continue
		}
		var docs []*ragmodel.Document
		for _, r := range byDomain[domain] {
			docs = append(docs, r.Documents...)
		}
		actions = append(actions, agent.SuggestActions(query, docs)...)
	}
	return actions
}

func actionHintText(actions []*ragmodel.ActionSuggestion) string {
	if len(actions) == 0 {
		return ""
	}
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.Description
		if labels[i] == "" {
			labels[i] = a.Label
		}
	}
	return strings.Join(labels, " ")
}

func maxTokensFor(actions []*ragmodel.ActionSuggestion) int {
	for _, a := range actions {
		if a.Type == BusinessPlanActionType {
			return businessPlanMaxTokens
		}
	}
	return defaultMaxTokens
}

func resultDomains(results []*ragmodel.RetrievalResult) []ragmodel.Domain {
	seen := make(map[ragmodel.Domain]struct{})
	var domains []ragmodel.Domain
	for _, r := range results {
		if _, ok := seen[r.Domain]; ok {
			continue
		}
		seen[r.Domain] = struct{}{}
		domains = append(domains, r.Domain)
	}
	return domains
}

func groupResultsByDomain(results []*ragmodel.RetrievalResult) map[ragmodel.Domain][]*ragmodel.RetrievalResult {
	out := make(map[ragmodel.Domain][]*ragmodel.RetrievalResult)
	for _, r := range results {
		out[r.Domain] = append(out[r.Domain], r)
	}
	return out
}

func sortedDomains(byDomain map[ragmodel.Domain][]*ragmodel.RetrievalResult) []ragmodel.Domain {
	domains := make([]ragmodel.Domain, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })
	return domains
}

// buildSources flattens every result's documents into deduplicated,
// stably-indexed citations, in the order the documents were retrieved.
func buildSources(results []*ragmodel.RetrievalResult) []*ragmodel.SourceCitation {
	var all []*ragmodel.SourceCitation
	for _, r := range results {
		for _, doc := range r.Documents {
			all = append(all, &ragmodel.SourceCitation{
				Title:          doc.Title(),
				ContentSnippet: snippet(doc.Content),
				SourceURI:      doc.Source(),
				Metadata:       doc.Metadata,
			})
		}
	}
	return ragmodel.DedupCitations(all)
}

// renderContext formats one domain's retrieval documents as numbered
// context blocks, numbered against the caller's deduplicated source list so
// [N] citations are globally stable across a multi-domain answer.
func renderContext(results []*ragmodel.RetrievalResult, sources []*ragmodel.SourceCitation) string {
	indexByURI := make(map[string]int, len(sources))
	for i, s := range sources {
		if _, ok := indexByURI[s.SourceURI]; !ok {
			indexByURI[s.SourceURI] = i + 1
		}
	}

	var b strings.Builder
	for _, r := range results {
		for _, doc := range r.Documents {
			n := indexByURI[doc.Source()]
			fmt.Fprintf(&b, "[%d] %s\n", n, doc.Content)
		}
	}
	return b.String()
}

func snippet(content string) string {
	const maxLen = 200
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}
