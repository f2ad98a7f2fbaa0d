package router

import (
	"context"
	"time"

	"github.com/konsult-ai/rag-router/internal/classify"
	"github.com/konsult-ai/rag-router/internal/config"
	"github.com/konsult-ai/rag-router/internal/decompose"
	"github.com/konsult-ai/rag-router/internal/evaluate"
	"github.com/konsult-ai/rag-router/internal/generate"
	"github.com/konsult-ai/rag-router/internal/pipelineerr"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/respcache"
	"github.com/konsult-ai/rag-router/internal/retrieve"
	"github.com/konsult-ai/rag-router/internal/rewrite"
	"go.uber.org/zap"
)

// Router is the Agentic RAG orchestrator. It owns no shared client state
// itself (those are constructed once and passed in by reference, per
// spec.md §9's Startup()/Shutdown() lifecycle) — it only sequences nodes
// over a per-request RouterState.
type Router struct {
	Classifier *classify.Classifier
	Decomposer *decompose.Decomposer
	Rewriter   *rewrite.Rewriter
	Retriever  *retrieve.Agent
	Generator  *generate.Generator
	Evaluator  *evaluate.Evaluator
	Cache      respcache.ResponseCache

	Cfg    config.PipelineConfig
	Logger *zap.Logger
}

// Process runs the full classify → decompose → retrieve → generate →
// evaluate pipeline for one request and returns the resulting RouterState.
// A non-nil error means the pipeline could not produce even a partial
// answer; RouterState.TimeoutCause/Errors describe degraded-but-successful
// outcomes.
func (r *Router) Process(ctx context.Context, query string, history ragmodel.History, userContext map[string]any, clientID string) (*ragmodel.RouterState, error) {
	state := ragmodel.NewRouterState(query, history, userContext, clientID)
	deadline := time.Now().Add(r.timeout())

	if err := ragmodel.ValidateQuery(query); err != nil {
		state.RecordError("input", "invalid_input", err.Error())
		return state, &pipelineerr.InputError{Reason: err.Error()}
	}

	var err error
	state, err = runNode(ctx, deadline, namedNode{"sanitize", r.sanitizeNode}, state)
	if err != nil {
		return r.fallback(state, err), nil
	}

	state, err = runNode(ctx, deadline, namedNode{"rewrite", r.rewriteNode}, state)
	if err != nil {
		return r.fallback(state, err), nil
	}

	state, err = runNode(ctx, deadline, namedNode{"classify", r.classifyNode}, state)
	if err != nil {
		return r.fallback(state, err), nil
	}
	if state.Classification.IsRejection {
		state.Generation = generate.Refusal()
		return state, nil
	}

	if hit := r.checkCache(ctx, state); hit {
		return state, nil
	}

	state, err = runNode(ctx, deadline, namedNode{"decompose", r.decomposeNode}, state)
	if err != nil {
		return r.fallback(state, err), nil
	}

	state, err = runNode(ctx, deadline, namedNode{"retrieve", r.retrieveNode}, state)
	if err != nil {
		return r.fallback(state, err), nil
	}

	state, err = runNode(ctx, deadline, namedNode{"generate", r.generateNode}, state)
	if err != nil {
		return r.fallback(state, err), nil
	}

	state, err = runNode(ctx, deadline, namedNode{"evaluate", r.evaluateNode}, state)
	if err != nil {
		// Evaluation failures never block the response per §4.10.
		state.Evaluation = ragmodel.UnparseableEvaluationResult()
	}

	// Bounded post-evaluation retry loop: an explicit retry_count counter,
	// not mutual recursion, per §9 "Cyclic retry graph".
	for evaluate.ShouldRetry(state.Evaluation, state.RetryCount, r.Cfg.MaxRetryLevel, r.Cfg.EnablePostEvalRetry) {
		if time.Now().After(deadline) {
			state.TimeoutCause = ragmodel.TimeoutCausePipeline
			break
		}
		state.RetryCount++

		state, err = runNode(ctx, deadline, namedNode{"retrieve_retry", r.retrieveNode}, state)
		if err != nil {
			break
		}
		state, err = runNode(ctx, deadline, namedNode{"generate", r.generateNode}, state)
		if err != nil {
			break
		}
		state, err = runNode(ctx, deadline, namedNode{"evaluate", r.evaluateNode}, state)
		if err != nil {
			state.Evaluation = ragmodel.UnparseableEvaluationResult()
			break
		}
	}

	r.storeCache(ctx, state)
	return state, nil
}

func (r *Router) timeout() time.Duration {
	if r.Cfg.PipelineTotalTimeoutSec <= 0 {
		return 120 * time.Second
	}
	return time.Duration(r.Cfg.PipelineTotalTimeoutSec) * time.Second
}

// fallback produces the best-available partial response after a node
// error: whatever Generation was already computed, or a fixed system-error
// message if none was.
func (r *Router) fallback(state *ragmodel.RouterState, err error) *ragmodel.RouterState {
	if state.Generation != nil {
		return state
	}
	if _, ok := err.(*pipelineerr.BudgetExceeded); ok {
		state.Generation = &ragmodel.Generation{
			Content: pipelineerr.FixedGenerationFailureMessage + " (" + pipelineerr.DelayAnnotation + ")",
		}
		return state
	}
	state.Generation = &ragmodel.Generation{Content: pipelineerr.SystemErrorMessage}
	return state
}
