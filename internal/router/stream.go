package router

import (
	"context"
	"time"

	"github.com/konsult-ai/rag-router/internal/generate"
	"github.com/konsult-ai/rag-router/internal/pipelineerr"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// Stream mirrors Process semantically but swaps the generation node for
// its streaming variant and skips evaluation inline, running it post-hoc
// once the answer has already been committed to the client — tokens
// already emitted cannot be un-sent, so evaluation can no longer gate the
// response by the time it runs.
func (r *Router) Stream(ctx context.Context, query string, history ragmodel.History, userContext map[string]any, clientID string, emit func(generate.Event)) (*ragmodel.RouterState, error) {
	state := ragmodel.NewRouterState(query, history, userContext, clientID)
	deadline := time.Now().Add(r.timeout())

	if err := ragmodel.ValidateQuery(query); err != nil {
		state.RecordError("input", "invalid_input", err.Error())
		return state, &pipelineerr.InputError{Reason: err.Error()}
	}

	var err error
	state, err = runNode(ctx, deadline, namedNode{"sanitize", r.sanitizeNode}, state)
	if err != nil {
		return r.streamFallback(state, emit), nil
	}

	state, err = runNode(ctx, deadline, namedNode{"rewrite", r.rewriteNode}, state)
	if err != nil {
		return r.streamFallback(state, emit), nil
	}

	state, err = runNode(ctx, deadline, namedNode{"classify", r.classifyNode}, state)
	if err != nil {
		return r.streamFallback(state, emit), nil
	}
	if state.Classification.IsRejection {
		state.Generation = generate.RefusalStream(emit)
		return state, nil
	}

	if hit := r.checkCache(ctx, state); hit {
		replayCachedStream(state, emit)
		return state, nil
	}

	state, err = runNode(ctx, deadline, namedNode{"decompose", r.decomposeNode}, state)
	if err != nil {
		return r.streamFallback(state, emit), nil
	}

	state, err = runNode(ctx, deadline, namedNode{"retrieve", r.retrieveNode}, state)
	if err != nil {
		return r.streamFallback(state, emit), nil
	}

	generation, err := r.Generator.GenerateStream(ctx, generate.Input{
		Query:       state.SanitizedQuery,
		SubQueries:  state.SubQueries,
		Results:     state.RetrievalResults,
		UserContext: state.UserContext,
	}, emit)
	if err != nil {
		state.RecordError("generate", "stream_failed", err.Error())
		state.Generation = &ragmodel.Generation{Content: pipelineerr.FixedGenerationFailureMessage}
		emit(generate.Event{Type: generate.EventDone, Metadata: map[string]any{"error": true}})
		return state, nil
	}
	state.Generation = generation

	// Post-hoc evaluation: recorded on RouterState for metrics/logging, but
	// cannot trigger a retry since the answer is already streamed.
	if r.Evaluator != nil {
		state.Evaluation = r.Evaluator.Evaluate(ctx, state.SanitizedQuery, allDocuments(state.RetrievalResults), state.Generation)
	}

	r.storeCache(ctx, state)
	return state, nil
}

func (r *Router) streamFallback(state *ragmodel.RouterState, emit func(generate.Event)) *ragmodel.RouterState {
	fallback := r.fallback(state, nil)
	emit(generate.Event{Type: generate.EventToken, Content: fallback.Generation.Content})
	emit(generate.Event{Type: generate.EventDone, Metadata: map[string]any{"fallback": true}})
	return fallback
}

// replayCachedStream replays a cache hit as a stream: sources, then the
// full content as a single token event, then any actions, then done.
func replayCachedStream(state *ragmodel.RouterState, emit func(generate.Event)) {
	for i, s := range state.Generation.Sources {
		emit(generate.Event{Type: generate.EventSource, Source: s, Metadata: map[string]any{"index": i + 1}})
	}
	emit(generate.Event{Type: generate.EventToken, Content: state.Generation.Content})
	for _, a := range state.Generation.Actions {
		emit(generate.Event{Type: generate.EventAction, Action: a})
	}
	emit(generate.Event{Type: generate.EventDone, Metadata: map[string]any{"cache_hit": true}})
}
