// Package classify assigns one or more domains to an incoming query, or
// rejects it as out of scope. It supports two modes: a concurrent
// keyword+vector-centroid hybrid, and a single-call LLM classifier that
// falls back to hybrid on failure.
package classify

import (
	"context"
	"sort"
	"sync"

	"github.com/konsult-ai/rag-router/internal/embedclient"
	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/vectorstore"
	"go.uber.org/zap"
)

// Mode selects the classification strategy.
type Mode string

const (
	ModeHybrid  Mode = "hybrid"
	ModeLLMOnly Mode = "llm_only"
)

const (
	// KeywordConfidenceBoost is added to a domain's vector similarity
	// when a keyword rule also matched, clamped to 1.0.
	KeywordConfidenceBoost = 0.1
	// MaxMultiLabelDomains caps how many co-selected domains a single
	// classification can carry.
	MaxMultiLabelDomains = 3
)

// Classifier assigns domains to a query.
type Classifier struct {
	mode                  Mode
	embedder              embedclient.Embedder
	llm                   *llmclient.Client
	logger                *zap.Logger
	rejectionVectorThresh float64
	multiDomainGap        float64

	mu        sync.RWMutex
	matcher   *KeywordMatcher
	centroids *CentroidCache
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithKeywordRules overrides the default compound-rule table.
func WithKeywordRules(rules []CompoundRule) Option {
	return func(c *Classifier) { c.matcher = NewKeywordMatcher(rules) }
}

// Reload atomically swaps the keyword rule table and/or the representative
// query set, rebuilding the centroid cache so the next classification
// recomputes centroids lazily under its own double-checked lock. A nil
// argument leaves that half unchanged. Intended to be driven by
// domainconfig's fsnotify watcher so an operator-edited domains.yaml takes
// effect without a process restart.
func (c *Classifier) Reload(rules []CompoundRule, representativeQueries map[ragmodel.Domain][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rules != nil {
		c.matcher = NewKeywordMatcher(rules)
	}
	if representativeQueries != nil {
		c.centroids = NewCentroidCache(c.embedder, representativeQueries)
	}
}

func (c *Classifier) snapshot() (*KeywordMatcher, *CentroidCache) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matcher, c.centroids
}

// WithThresholds overrides the rejection and multi-label-gap thresholds.
func WithThresholds(rejectionVectorThreshold, multiDomainGap float64) Option {
	return func(c *Classifier) {
		c.rejectionVectorThresh = rejectionVectorThreshold
		c.multiDomainGap = multiDomainGap
	}
}

// WithLogger attaches a structured logger; a nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) { c.logger = logger }
}

// New builds a Classifier. embedder and centroids back the vector half of
// hybrid mode; llm backs llm_only mode (may be nil if mode is always
// hybrid). representativeQueries may be nil to use the built-in defaults.
func New(mode Mode, embedder embedclient.Embedder, llm *llmclient.Client, representativeQueries map[ragmodel.Domain][]string, opts ...Option) *Classifier {
	c := &Classifier{
		mode:                  mode,
		matcher:               NewKeywordMatcher(nil),
		centroids:             NewCentroidCache(embedder, representativeQueries),
		embedder:              embedder,
		llm:                   llm,
		logger:                zap.NewNop(),
		rejectionVectorThresh: 0.35,
		multiDomainGap:        0.1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify routes query to one or more domains, or to a rejection.
func (c *Classifier) Classify(ctx context.Context, query string) (*ragmodel.ClassificationResult, error) {
	if c.mode == ModeLLMOnly && c.llm != nil {
		result, err := c.classifyLLM(ctx, query)
		if err == nil {
			return result, nil
		}
		c.logger.Warn("llm classification failed, falling back to hybrid", zap.Error(err))
	}
	return c.classifyHybrid(ctx, query)
}

// classifyHybrid runs keyword matching and vector-centroid similarity
// concurrently and fuses them per spec.md §4.5.
func (c *Classifier) classifyHybrid(ctx context.Context, query string) (*ragmodel.ClassificationResult, error) {
	var (
		keywordHits map[ragmodel.Domain]bool
		similarity  map[ragmodel.Domain]float64
		vectorErr   error
		wg          sync.WaitGroup
	)

	matcher, centroids := c.snapshot()

	wg.Add(2)
	go func() {
		defer wg.Done()
		keywordHits = matcher.Match(query)
	}()
	go func() {
		defer wg.Done()
		similarity, vectorErr = c.vectorSimilarities(ctx, query, centroids)
	}()
	wg.Wait()

	if vectorErr != nil {
		c.logger.Warn("vector centroid similarity failed, falling back to keyword-only", zap.Error(vectorErr))
		return c.classifyKeywordOnly(keywordHits), nil
	}

	if len(similarity) == 0 {
		return ragmodel.General(ragmodel.ClassificationSourceMerged), nil
	}

	topDomain, topScore := topOf(similarity)

	if len(keywordHits) > 0 && topScore < c.rejectionVectorThresh {
		return ragmodel.Rejection(ragmodel.ClassificationSourceMerged), nil
	}

	selected := make([]ragmodel.Domain, 0, MaxMultiLabelDomains)
	confidences := make(map[ragmodel.Domain]float64, MaxMultiLabelDomains)
	for _, d := range ragmodel.Domains {
		score, ok := similarity[d]
		if !ok {
			continue
		}
		if score < topScore-c.multiDomainGap {
			continue
		}
		if keywordHits[d] {
			score += KeywordConfidenceBoost
			if score > 1.0 {
				score = 1.0
			}
		}
		selected = append(selected, d)
		confidences[d] = score
	}

	sort.Slice(selected, func(i, j int) bool {
		si, sj := confidences[selected[i]], confidences[selected[j]]
		if si != sj {
			return si > sj
		}
		return ragmodel.Precedence(selected[i]) < ragmodel.Precedence(selected[j])
	})
	if len(selected) > MaxMultiLabelDomains {
		selected = selected[:MaxMultiLabelDomains]
	}
	if len(selected) == 0 {
		selected = []ragmodel.Domain{topDomain}
		confidences[topDomain] = topScore
	}

	return &ragmodel.ClassificationResult{
		Domains:     selected,
		IsRejection: false,
		Confidences: confidences,
		Source:      ragmodel.ClassificationSourceMerged,
	}, nil
}

// classifyKeywordOnly is the vector-store-failure degradation path: route
// by keyword hits alone, in precedence order, or fall back to the general
// escape hatch if none matched at all (no signal is not the same as a
// confirmed off-domain rejection).
func (c *Classifier) classifyKeywordOnly(keywordHits map[ragmodel.Domain]bool) *ragmodel.ClassificationResult {
	selected := make([]ragmodel.Domain, 0, len(keywordHits))
	for d := range keywordHits {
		selected = append(selected, d)
	}
	if len(selected) == 0 {
		return ragmodel.General(ragmodel.ClassificationSourceKeyword)
	}
	sort.Slice(selected, func(i, j int) bool {
		return ragmodel.Precedence(selected[i]) < ragmodel.Precedence(selected[j])
	})
	if len(selected) > MaxMultiLabelDomains {
		selected = selected[:MaxMultiLabelDomains]
	}
	confidences := make(map[ragmodel.Domain]float64, len(selected))
	for _, d := range selected {
		confidences[d] = 0.5 + KeywordConfidenceBoost
	}
	return &ragmodel.ClassificationResult{
		Domains:     selected,
		IsRejection: false,
		Confidences: confidences,
		Source:      ragmodel.ClassificationSourceKeyword,
	}
}

func (c *Classifier) vectorSimilarities(ctx context.Context, query string, centroids *CentroidCache) (map[ragmodel.Domain]float64, error) {
	queryVec, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	sims := make(map[ragmodel.Domain]float64, len(ragmodel.Domains))
	for _, d := range ragmodel.Domains {
		centroid, err := centroids.Centroid(ctx, d)
		if err != nil {
			return nil, err
		}
		sims[d] = vectorstore.CosineSimilarity(queryVec, centroid)
	}
	return sims, nil
}

func topOf(similarity map[ragmodel.Domain]float64) (ragmodel.Domain, float64) {
	var (
		best      ragmodel.Domain
		bestScore = -1.0
	)
	for _, d := range ragmodel.Domains {
		score, ok := similarity[d]
		if !ok {
			continue
		}
		if score > bestScore || (score == bestScore && ragmodel.Precedence(d) < ragmodel.Precedence(best)) {
			best = d
			bestScore = score
		}
	}
	return best, bestScore
}
