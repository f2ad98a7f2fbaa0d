package retrieve

import (
	"context"

	"github.com/konsult-ai/rag-router/internal/hybridsearch"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// applyLegalSupplement fetches up to max_legal_supplement additional
// documents from law_common when result's domain isn't law_common itself
// and its sub-query carries a legal-trigger token, bounded by
// max_retrieval_docs overall (spec.md §4.8 "Legal supplement").
func (a *Agent) applyLegalSupplement(ctx context.Context, query string, result *ragmodel.RetrievalResult) {
	if result == nil || result.Domain == ragmodel.DomainLawCommon {
		return
	}
	shape := AnalyzeQuery(result.SubQuery)
	if !shape.HasLegalTrigger {
		return
	}

	budget := a.cfg.MaxRetrievalDocs - result.DocCount
	if budget <= 0 {
		return
	}
	supplementK := a.cfg.MaxLegalSupplement
	if supplementK > budget {
		supplementK = budget
	}
	if supplementK <= 0 {
		return
	}

	supplementDocs, _, err := a.searcher.Search(ctx, ragmodel.DomainLawCommon, result.SubQuery, hybridsearch.Options{K: supplementK})
	if err != nil || len(supplementDocs) == 0 {
		return
	}

	result.Documents = ragmodel.DedupDocuments(append(result.Documents, supplementDocs...))
	if len(result.Documents) > a.cfg.MaxRetrievalDocs {
		result.Documents = result.Documents[:a.cfg.MaxRetrievalDocs]
	}
	result.DocCount = len(result.Documents)
}
