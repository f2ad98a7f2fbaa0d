// Package retrieve runs hybrid search per sub-query with a graduated
// retry ladder, rule-based result evaluation, a law_common legal
// supplement, and cross-domain rerank, per spec.md §4.8.
package retrieve

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/konsult-ai/rag-router/internal/hybridsearch"
	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/rerank"
	"go.uber.org/zap"
)

// Retry levels, per spec.md §4.8.
const (
	RetryInitial      = 0 // L0
	RetryRelaxParams  = 1 // L1
	RetryMultiQuery   = 2 // L2
	RetryCrossDomain  = 3 // L3
	RetryPartial      = 4 // L4
)

// Agent runs the graduated retrieval ladder for a set of sub-queries.
type Agent struct {
	searcher     *hybridsearch.Searcher
	crossEncoder rerank.CrossEncoder
	llm          *llmclient.Client
	budget       *DocumentBudgetCalculator
	cfg          BudgetConfig

	enableLegalSupplement   bool
	enableCrossDomainRerank bool
	enableAdaptiveSearch    bool

	logger *zap.Logger
}

// Option configures an Agent.
type Option func(*Agent)

func WithLegalSupplement(enabled bool) Option {
	return func(a *Agent) { a.enableLegalSupplement = enabled }
}

func WithCrossDomainRerank(enabled bool) Option {
	return func(a *Agent) { a.enableCrossDomainRerank = enabled }
}

func WithAdaptiveSearch(enabled bool) Option {
	return func(a *Agent) { a.enableAdaptiveSearch = enabled }
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// New builds a retrieval Agent.
func New(searcher *hybridsearch.Searcher, crossEncoder rerank.CrossEncoder, llm *llmclient.Client, cfg BudgetConfig, opts ...Option) *Agent {
	a := &Agent{
		searcher: searcher,
		crossEncoder: crossEncoder,
		llm:      llm,
		budget:   NewDocumentBudgetCalculator(cfg),
		cfg:      cfg,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Retrieve runs retrieval for every sub-query concurrently. Each
// sub-query's failure is captured independently and does not cancel the
// others (spec.md §4.12).
func (a *Agent) Retrieve(ctx context.Context, query string, subQueries []ragmodel.SubQuery) ([]*ragmodel.RetrievalResult, error) {
	results := make([]*ragmodel.RetrievalResult, len(subQueries))
	errs := make([]error, len(subQueries))

	var wg sync.WaitGroup
	for i, sq := range subQueries {
		wg.Add(1)
		go func(i int, sq ragmodel.SubQuery) {
			defer wg.Done()
			result, err := a.retrieveOne(ctx, sq, len(subQueries))
			results[i] = result
			errs[i] = err
		}(i, sq)
	}
	wg.Wait()

	out := make([]*ragmodel.RetrievalResult, 0, len(results))
	for i, r := range results {
		if errs[i] != nil {
			a.logger.Warn("sub-query retrieval failed", zap.String("domain", string(subQueries[i].Domain)), zap.Error(errs[i]))
			continue
		}
		out = append(out, r)
	}

	if a.enableLegalSupplement {
		for _, r := range out {
			a.applyLegalSupplement(ctx, query, r)
		}
	}

	if a.enableCrossDomainRerank && len(subQueries) > 1 && a.crossEncoder != nil {
		a.crossDomainRerank(ctx, query, out)
	}

	return out, nil
}

// retrieveOne climbs the graduated retry ladder for a single sub-query
// until the retrieval evaluates as ok, the ladder is exhausted, or the
// context's remaining timeout budget is spent.
func (a *Agent) retrieveOne(ctx context.Context, sq ragmodel.SubQuery, numDomains int) (*ragmodel.RetrievalResult, error) {
	shape := AnalyzeQuery(sq.Text)
	strategy := SelectStrategy(shape)
	// Allocate across the whole sub-query set up front so the per-domain k
	// never lets a multi-domain request exceed max_retrieval_docs, rather
	// than relying on crossDomainRerank's truncation (which only runs when
	// cross-domain rerank is enabled and a cross-encoder is configured).
	k := a.budget.PerDomainK(shape.IsCitation)
	if allocations := a.budget.AllocateAcrossDomains(numDomains, shape.IsCitation); len(allocations) > 0 {
		k = allocations[0]
	}

	var result *ragmodel.RetrievalResult
	maxLevel := a.cfg.MaxRetryLevel
	if maxLevel <= 0 || maxLevel > ragmodel.MaxRetryLevel {
		maxLevel = ragmodel.MaxRetryLevel
	}

	for level := RetryInitial; level <= maxLevel; level++ {
		if ctx.Err() != nil {
			if result != nil {
				result.Status = ragmodel.StatusPartial
				return result, nil
			}
			return nil, ctx.Err()
		}
		if level > RetryInitial && !a.enableAdaptiveSearch {
			break
		}

		r, err := a.retrieveAtLevel(ctx, sq, strategy, k, level)
		if err != nil {
			if result != nil {
				break
			}
			return nil, err
		}
		result = r
		if result.Status == ragmodel.StatusOK {
			break
		}
		if level == RetryRelaxParams {
			k += a.cfg.RetryKIncrement
		}
	}

	if result != nil && result.Status != ragmodel.StatusOK && result.RetryLevel >= maxLevel {
		result.Status = ragmodel.StatusPartial
	}
	return result, nil
}

func (a *Agent) retrieveAtLevel(ctx context.Context, sq ragmodel.SubQuery, strategy ragmodel.Strategy, k int, level int) (*ragmodel.RetrievalResult, error) {
	opts := hybridsearch.Options{
		K:               k,
		EnableReranking: false,
		UseMMR:          level < RetryRelaxParams,
		MMRLambda:       0.5,
	}
	if level >= RetryRelaxParams {
		opts.SimilarityThreshold = 0
	} else {
		opts.SimilarityThreshold = 0.2
	}

	var (
		docs  []*ragmodel.Document
		fused []hybridsearch.FusedResult
		err   error
	)

	if level >= RetryMultiQuery && a.llm != nil {
		docs, fused, err = a.multiQuerySearch(ctx, sq, opts)
	} else {
		docs, fused, err = a.searcher.Search(ctx, sq.Domain, sq.Text, opts)
	}
	if err != nil {
		return nil, err
	}

	if level >= RetryCrossDomain {
		generalDocs, generalFused, gerr := a.searcher.Search(ctx, ragmodel.DomainGeneral, sq.Text, opts)
		if gerr == nil {
			docs, fused = unionDocsAndFused(docs, fused, generalDocs, generalFused)
		}
	}

	fused = ApplyStrategy(fused, strategy)

	matchRatio, avgSim, status := evaluateRetrieval(sq.Text, docs, fused)
	if level >= ragmodel.MaxRetryLevel && status != ragmodel.StatusOK && len(docs) > 0 {
		status = ragmodel.StatusPartial
	}

	return &ragmodel.RetrievalResult{
		Domain:            sq.Domain,
		SubQuery:          sq.Text,
		Documents:         docs,
		StrategyUsed:      strategy,
		RetryLevel:        level,
		UsedMultiQuery:    level >= RetryMultiQuery,
		DocCount:          len(docs),
		KeywordMatchRatio: matchRatio,
		AvgSimilarity:     avgSim,
		Status:            status,
	}, nil
}

// multiQuerySearch expands sq.Text into a few LLM-generated variants and
// unions their fused results (L2 MULTI_QUERY).
func (a *Agent) multiQuerySearch(ctx context.Context, sq ragmodel.SubQuery, opts hybridsearch.Options) ([]*ragmodel.Document, []hybridsearch.FusedResult, error) {
	variants, err := a.expandQuery(ctx, sq.Text)
	if err != nil || len(variants) == 0 {
		return a.searcher.Search(ctx, sq.Domain, sq.Text, opts)
	}

	docs, fused, err := a.searcher.Search(ctx, sq.Domain, sq.Text, opts)
	if err != nil {
		return nil, nil, err
	}
	for _, variant := range variants {
		vDocs, vFused, vErr := a.searcher.Search(ctx, sq.Domain, variant, opts)
		if vErr != nil {
			continue
		}
		docs, fused = unionDocsAndFused(docs, fused, vDocs, vFused)
	}
	return docs, fused, nil
}

const multiQuerySystemPrompt = `주어진 질문에 대해 같은 의미를 다르게 표현한 검색어를 2개 생성하세요.
한 줄에 하나씩, 다른 설명 없이 검색어만 출력하세요.`

func (a *Agent) expandQuery(ctx context.Context, query string) ([]string, error) {
	resp, err := a.llm.Complete(ctx, llmclient.Request{
		System: multiQuerySystemPrompt,
		Messages: []llmclient.Message{
			{Role: "user", Content: query},
		},
		MaxTokens:   150,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve: multi-query expansion: %w", err)
	}
	var variants []string
	for _, line := range strings.Split(resp.Text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			variants = append(variants, line)
		}
	}
	return variants, nil
}

// unionDocsAndFused merges two (docs, fused) result sets, deduping by
// document content fingerprint.
func unionDocsAndFused(docsA []*ragmodel.Document, fusedA []hybridsearch.FusedResult, docsB []*ragmodel.Document, fusedB []hybridsearch.FusedResult) ([]*ragmodel.Document, []hybridsearch.FusedResult) {
	merged := ragmodel.DedupDocuments(append(append([]*ragmodel.Document(nil), docsA...), docsB...))

	seen := make(map[string]bool, len(fusedA))
	fused := make([]hybridsearch.FusedResult, 0, len(fusedA)+len(fusedB))
	for _, fr := range fusedA {
		seen[fr.DocumentID] = true
		fused = append(fused, fr)
	}
	for _, fr := range fusedB {
		if !seen[fr.DocumentID] {
			seen[fr.DocumentID] = true
			fused = append(fused, fr)
		}
	}
	sort.Slice(fused, func(i, j int) bool { return fused[i].Score > fused[j].Score })
	return merged, fused
}
