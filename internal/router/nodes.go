package router

import (
	"context"
	"fmt"

	"github.com/konsult-ai/rag-router/internal/generate"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/respcache"
	"github.com/konsult-ai/rag-router/internal/sanitize"
)

func (r *Router) sanitizeNode(ctx context.Context, state *ragmodel.RouterState) (*ragmodel.RouterState, error) {
	masked, wasModified, _ := sanitize.Sanitize(state.Query)
	state.SanitizedQuery = masked
	state.WasSanitized = wasModified
	return state, nil
}

// rewriteNode resolves anaphora against the conversation history. The
// rewritten query (when applied) becomes the effective query used by every
// downstream node; SanitizedQuery carries it forward so generation and
// cache-keying see the same resolved text.
func (r *Router) rewriteNode(ctx context.Context, state *ragmodel.RouterState) (*ragmodel.RouterState, error) {
	if r.Rewriter == nil {
		return state, nil
	}
	result, err := r.Rewriter.Rewrite(ctx, state.SanitizedQuery, state.History)
	if err != nil {
		state.RecordError("rewrite", "rewrite_failed", err.Error())
		return state, nil
	}
	state.QueryRewrite = &ragmodel.QueryRewriteInfo{Applied: result.Applied, Reason: result.Reason}
	if result.Applied {
		state.SanitizedQuery = result.Query
	}
	return state, nil
}

func (r *Router) classifyNode(ctx context.Context, state *ragmodel.RouterState) (*ragmodel.RouterState, error) {
	result, err := r.Classifier.Classify(ctx, state.SanitizedQuery)
	if err != nil {
		return state, fmt.Errorf("classify: %w", err)
	}
	state.Classification = result
	return state, nil
}

func (r *Router) decomposeNode(ctx context.Context, state *ragmodel.RouterState) (*ragmodel.RouterState, error) {
	if r.Decomposer == nil {
		state.SubQueries = []ragmodel.SubQuery{{Text: state.SanitizedQuery, Domain: state.Classification.Domains[0]}}
		return state, nil
	}
	subQueries, err := r.Decomposer.Decompose(ctx, state.SanitizedQuery, state.Classification.Domains)
	if err != nil {
		return state, fmt.Errorf("decompose: %w", err)
	}
	state.SubQueries = subQueries
	return state, nil
}

func (r *Router) retrieveNode(ctx context.Context, state *ragmodel.RouterState) (*ragmodel.RouterState, error) {
	results, err := r.Retriever.Retrieve(ctx, state.SanitizedQuery, state.SubQueries)
	if err != nil {
		return state, fmt.Errorf("retrieve: %w", err)
	}
	state.RetrievalResults = results
	return state, nil
}

func (r *Router) generateNode(ctx context.Context, state *ragmodel.RouterState) (*ragmodel.RouterState, error) {
	generation, err := r.Generator.Generate(ctx, generate.Input{
		Query:       state.SanitizedQuery,
		SubQueries:  state.SubQueries,
		Results:     state.RetrievalResults,
		UserContext: state.UserContext,
	})
	if err != nil {
		return state, fmt.Errorf("generate: %w", err)
	}
	state.Generation = generation
	return state, nil
}

func (r *Router) evaluateNode(ctx context.Context, state *ragmodel.RouterState) (*ragmodel.RouterState, error) {
	if r.Evaluator == nil {
		state.Evaluation = ragmodel.UnparseableEvaluationResult()
		return state, nil
	}
	docs := allDocuments(state.RetrievalResults)
	state.Evaluation = r.Evaluator.Evaluate(ctx, state.SanitizedQuery, docs, state.Generation)
	return state, nil
}

func allDocuments(results []*ragmodel.RetrievalResult) []*ragmodel.Document {
	var docs []*ragmodel.Document
	for _, res := range results {
		docs = append(docs, res.Documents...)
	}
	return docs
}

// checkCache looks up the response cache once domains are known (the cache
// key depends on them), replaying a hit's stored Generation/Evaluation
// without re-running retrieval or generation. Returns true on a hit.
func (r *Router) checkCache(ctx context.Context, state *ragmodel.RouterState) bool {
	if r.Cache == nil || !r.Cfg.EnableResponseCache {
		return false
	}
	key := respcache.Key(state.SanitizedQuery, state.Classification.Domains, state.History)
	entry, ok := r.Cache.Get(ctx, key)
	if !ok {
		return false
	}
	state.Generation = entry.Generation
	state.Evaluation = entry.Evaluation
	return true
}

func (r *Router) storeCache(ctx context.Context, state *ragmodel.RouterState) {
	if r.Cache == nil || !r.Cfg.EnableResponseCache || state.Generation == nil || state.Classification == nil {
		return
	}
	key := respcache.Key(state.SanitizedQuery, state.Classification.Domains, state.History)
	r.Cache.Set(ctx, key, &respcache.Entry{Generation: state.Generation, Evaluation: state.Evaluation})
}
