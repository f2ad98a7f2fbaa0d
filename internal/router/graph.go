// Package router is the Agentic RAG orchestrator: a small explicit state
// graph (not mutual recursion) that threads a RouterState through
// sanitize, rewrite, classify, cache-check, decompose, retrieve, generate,
// and evaluate nodes, with a global timeout budget recomputed before each
// node and a bounded graduated retry loop back to retrieval.
package router

import (
	"context"
	"time"

	"github.com/konsult-ai/rag-router/internal/pipelineerr"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// node is one step of the pipeline: it reads prior RouterState fields and
// writes exactly one field group, honoring the remaining timeout budget on
// ctx.
type node func(ctx context.Context, state *ragmodel.RouterState) (*ragmodel.RouterState, error)

// namedNode pairs a node with the stage name used for timing and error
// records.
type namedNode struct {
	name string
	fn   node
}

// runNode executes n against state, recomputing the remaining budget from
// deadline before the call and recording its wall-clock duration
// regardless of outcome.
func runNode(ctx context.Context, deadline time.Time, n namedNode, state *ragmodel.RouterState) (*ragmodel.RouterState, error) {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		state.TimeoutCause = ragmodel.TimeoutCausePipeline
		return state, &pipelineerr.BudgetExceeded{Stage: n.name}
	}

	nodeCtx, cancel := context.WithTimeout(ctx, remaining)
	defer cancel()

	start := time.Now()
	next, err := n.fn(nodeCtx, state)
	next.RecordTiming(n.name, time.Since(start))

	if err != nil {
		if nodeCtx.Err() != nil {
			next.TimeoutCause = ragmodel.TimeoutCauseQuestion
			next.RecordError(n.name, "timeout", err.Error())
			return next, &pipelineerr.BudgetExceeded{Stage: n.name}
		}
		next.RecordError(n.name, "error", err.Error())
	}
	return next, err
}
