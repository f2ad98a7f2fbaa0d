// Package runtime owns the process-wide clients, caches, and stores the
// pipeline shares across requests (the classifier's centroid cache, the
// BM25 indexes, the vector store, the response cache, the rate limiter),
// behind an explicit Startup()/Shutdown() lifecycle per spec.md §9's
// "global mutable state" note. A Context is constructed once per process
// (or once per test) and passed by reference into the router, so tests can
// build isolated contexts instead of relying on package-level state.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/konsult-ai/rag-router/internal/classify"
	"github.com/konsult-ai/rag-router/internal/config"
	"github.com/konsult-ai/rag-router/internal/corpus"
	"github.com/konsult-ai/rag-router/internal/decompose"
	"github.com/konsult-ai/rag-router/internal/domainconfig"
	"github.com/konsult-ai/rag-router/internal/embedclient"
	"github.com/konsult-ai/rag-router/internal/evaluate"
	"github.com/konsult-ai/rag-router/internal/generate"
	"github.com/konsult-ai/rag-router/internal/hybridsearch"
	"github.com/konsult-ai/rag-router/internal/lexical"
	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/rerank"
	"github.com/konsult-ai/rag-router/internal/respcache"
	"github.com/konsult-ai/rag-router/internal/retrieve"
	"github.com/konsult-ai/rag-router/internal/rewrite"
	"github.com/konsult-ai/rag-router/internal/router"
	"github.com/konsult-ai/rag-router/internal/vectorstore"
	"go.uber.org/zap"
)

// Context holds every process-wide dependency the router needs.
type Context struct {
	Config *config.Config
	Logger *zap.Logger

	Embedder     embedclient.Embedder
	CrossEncoder rerank.CrossEncoder
	LLM          *llmclient.Client
	VectorStore  *vectorstore.Store
	Lexical      *lexical.Registry
	Documents    *hybridsearch.MemoryDocumentProvider
	Searcher     *hybridsearch.Searcher
	Classifier   *classify.Classifier
	RateLimiter  *llmclient.Limiter
	Cache        respcache.ResponseCache

	Router *router.Router

	domainWatcher *domainconfig.Watcher
}

// New constructs a Context over cfg without starting it.
func New(cfg *config.Config, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{Config: cfg, Logger: logger}
}

// Startup builds every shared client, seeds the corpus fixture, and starts
// the domain-config hot-reload watcher. It is idempotent only in the sense
// that calling it twice rebuilds everything; callers should call it once.
func (c *Context) Startup() error {
	cfg := c.Config

	embedder, err := embedclient.New(cfg.Embedding.ModelPath, cfg.Embedding.Dimensions, cfg.Embedding.MaxTokens, cfg.Embedding.CacheSize)
	if err != nil {
		return fmt.Errorf("runtime: embedder: %w", err)
	}
	c.Embedder = embedder

	crossEncoder, err := rerank.New(cfg.Reranker.ModelPath, cfg.Reranker.MaxTokens)
	if err != nil {
		return fmt.Errorf("runtime: cross-encoder: %w", err)
	}
	c.CrossEncoder = crossEncoder

	c.LLM = llmclient.New(cfg.LLM.ModelID, cfg.LLM.APIKey, c.Logger)
	c.RateLimiter = llmclient.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	c.VectorStore = vectorstore.New(cfg.Embedding.Dimensions)
	c.Lexical = lexical.NewRegistry()
	c.Documents = hybridsearch.NewMemoryDocumentProvider()
	c.Searcher = hybridsearch.New(c.Lexical, c.VectorStore, c.Embedder, c.CrossEncoder, c.Documents)

	domainTable, err := domainconfig.Load(cfg.DomainConfigPath)
	if err != nil {
		return fmt.Errorf("runtime: domain config: %w", err)
	}
	var compoundRules []classify.CompoundRule
	reprQueries := classify.DefaultRepresentativeQueries
	if domainTable != nil {
		if domainTable.CompoundRules != nil {
			compoundRules = domainTable.CompoundRules
		}
		if domainTable.RepresentativeQueries != nil {
			reprQueries = domainTable.RepresentativeQueries
		}
	}

	mode := classify.ModeHybrid
	if cfg.Pipeline.ClassifierMode == string(classify.ModeLLMOnly) {
		mode = classify.ModeLLMOnly
	}
	classifierOpts := []classify.Option{
		classify.WithThresholds(cfg.Pipeline.RejectionVectorThreshold, cfg.Pipeline.MultiDomainGap),
		classify.WithLogger(c.Logger),
	}
	if compoundRules != nil {
		classifierOpts = append(classifierOpts, classify.WithKeywordRules(compoundRules))
	}
	c.Classifier = classify.New(mode, c.Embedder, c.LLM, reprQueries, classifierOpts...)

	if cfg.DomainConfigPath != "" {
		c.domainWatcher = domainconfig.NewWatcher(cfg.DomainConfigPath, func(t *domainconfig.Table) {
			c.Classifier.Reload(t.CompoundRules, t.RepresentativeQueries)
		}, func(err error) {
			c.Logger.Warn("domain config reload failed", zap.Error(err))
		}, c.Logger)
		if err := c.domainWatcher.Start(); err != nil {
			c.Logger.Warn("domain config watcher not started", zap.Error(err))
		}
	}

	decomposer := decompose.New(c.LLM, cfg.Embedding.CacheSize, c.Logger)
	rewriter := rewrite.New(c.LLM, nil, c.Logger)

	budget := retrieve.BudgetConfig{
		BaseK:              cfg.Pipeline.RetrievalK,
		MinDomainK:         cfg.Pipeline.MinDomainK,
		MaxPerDomain:       cfg.Pipeline.MaxPerDomain,
		MaxRetrievalDocs:   cfg.Pipeline.MaxRetrievalDocs,
		RetryKIncrement:    cfg.Pipeline.RetryKIncrement,
		MaxLegalSupplement: cfg.Pipeline.MaxLegalSupplement,
		MaxRetryLevel:      cfg.Pipeline.MaxRetryLevel,
	}
	retriever := retrieve.New(c.Searcher, c.CrossEncoder, c.LLM, budget,
		retrieve.WithLegalSupplement(cfg.Pipeline.EnableLegalSupplement),
		retrieve.WithCrossDomainRerank(cfg.Pipeline.EnableCrossDomainRerank),
		retrieve.WithAdaptiveSearch(cfg.Pipeline.EnableAdaptiveSearch),
		retrieve.WithLogger(c.Logger),
	)

	generator := generate.New(c.LLM, generate.DefaultAgents, c.Logger)
	evaluator := evaluate.New(c.LLM, c.Logger)

	c.Cache = respcache.New(cfg.Cache.Backend, cfg.Cache.Capacity, time.Duration(cfg.Cache.TTLSec)*time.Second, cfg.Cache.RedisURL, c.Logger)

	c.Router = &router.Router{
		Classifier: c.Classifier,
		Decomposer: decomposer,
		Rewriter:   rewriter,
		Retriever:  retriever,
		Generator:  generator,
		Evaluator:  evaluator,
		Cache:      c.Cache,
		Cfg:        cfg.Pipeline,
		Logger:     c.Logger,
	}

	seeds, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return fmt.Errorf("runtime: corpus: %w", err)
	}
	if len(seeds) > 0 {
		if err := corpus.Bootstrap(context.Background(), seeds, c.Embedder, c.VectorStore, c.Lexical, c.Documents, c.Logger); err != nil {
			return fmt.Errorf("runtime: corpus bootstrap: %w", err)
		}
		c.Logger.Info("corpus bootstrap complete", zap.Int("documents", len(seeds)))
	}

	return nil
}

// Shutdown releases every closeable resource. Safe to call even when
// Startup partially failed; each step is independently guarded against a
// nil field.
func (c *Context) Shutdown() error {
	if c.domainWatcher != nil {
		c.domainWatcher.Stop()
	}
	var firstErr error
	if c.Lexical != nil {
		if err := c.Lexical.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.Embedder != nil {
		if err := c.Embedder.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.CrossEncoder != nil {
		if err := c.CrossEncoder.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
