package retrieve

import (
	"context"
	"sort"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/rerank"
)

type scoredDoc struct {
	domain ragmodel.Domain
	doc    *ragmodel.Document
	score  float64
}

// crossDomainRerank concatenates every domain's retrieved pool, scores it
// against the original user query with the cross-encoder, then
// reallocates `max_retrieval_docs` across domains preserving at least
// min_domain_k per domain, per spec.md §4.8 "Cross-domain rerank".
func (a *Agent) crossDomainRerank(ctx context.Context, query string, results []*ragmodel.RetrievalResult) {
	pool := make([]scoredDoc, 0)
	pairs := make([]rerank.Pair, 0)
	for _, r := range results {
		for _, d := range r.Documents {
			pool = append(pool, scoredDoc{domain: r.Domain, doc: d})
			pairs = append(pairs, rerank.Pair{Query: query, Doc: d.Content})
		}
	}
	if len(pool) == 0 {
		return
	}

	scores, err := a.crossEncoder.Score(ctx, pairs)
	if err != nil {
		a.logger.Warn("cross-domain rerank scoring failed, keeping per-domain retrieval results")
		return
	}
	for i := range pool {
		pool[i].score = scores[i]
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].score > pool[j].score })

	byDomain := make(map[ragmodel.Domain][]*ragmodel.Document, len(results))
	counts := make(map[ragmodel.Domain]int, len(results))
	total := 0

	// First pass: guarantee min_domain_k per domain from the globally
	// sorted pool, in score order.
	for _, sd := range pool {
		if total >= a.cfg.MaxRetrievalDocs {
			break
		}
		if counts[sd.domain] >= a.cfg.MinDomainK {
			continue
		}
		byDomain[sd.domain] = append(byDomain[sd.domain], sd.doc)
		counts[sd.domain]++
		total++
	}
	// Second pass: fill the remaining budget by score, capped per domain.
	for _, sd := range pool {
		if total >= a.cfg.MaxRetrievalDocs {
			break
		}
		if counts[sd.domain] >= a.cfg.MaxPerDomain {
			continue
		}
		if containsDoc(byDomain[sd.domain], sd.doc) {
			continue
		}
		byDomain[sd.domain] = append(byDomain[sd.domain], sd.doc)
		counts[sd.domain]++
		total++
	}

	for _, r := range results {
		r.Documents = byDomain[r.Domain]
		r.DocCount = len(r.Documents)
	}
}

func containsDoc(docs []*ragmodel.Document, doc *ragmodel.Document) bool {
	for _, d := range docs {
		if d == doc {
			return true
		}
	}
	return false
}
