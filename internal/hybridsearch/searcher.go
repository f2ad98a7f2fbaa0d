package hybridsearch

import (
	"context"
	"fmt"

	"github.com/konsult-ai/rag-router/internal/embedclient"
	"github.com/konsult-ai/rag-router/internal/lexical"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/rerank"
	"github.com/konsult-ai/rag-router/internal/vectorstore"
)

// DocumentProvider resolves a document ID to its full content and
// metadata. Document ingestion itself is out of scope for this module;
// callers populate a provider however their deployment sources documents.
type DocumentProvider interface {
	GetDocument(ctx context.Context, id string) (*ragmodel.Document, error)
}

// Options controls one Search call.
type Options struct {
	K                int
	EnableReranking  bool
	RerankMultiplier int // oversample factor before rerank truncates back to K
	// RelaxToGeneral allows falling back to the general collection when the
	// requested domain's collection returns fewer than K candidates.
	RelaxToGeneral bool
	// UseMMR selects maximal-marginal-relevance re-selection over the
	// vector side instead of plain top-k similarity, trading some
	// relevance for diversity. Graduated retry's RELAX_PARAMS level turns
	// this off (spec.md §4.8).
	UseMMR    bool
	MMRLambda float64
	// SimilarityThreshold drops vector hits scoring below it; 0 disables
	// filtering. RELAX_PARAMS lowers this on retry.
	SimilarityThreshold float64
}

// Searcher runs BM25 + vector search per domain and fuses the results.
type Searcher struct {
	lexicalRegistry *lexical.Registry
	vectorStore     *vectorstore.Store
	embedder        embedclient.Embedder
	crossEncoder    rerank.CrossEncoder
	documents       DocumentProvider
}

// New creates a Searcher over the given per-domain lexical/vector
// backends.
func New(lexicalRegistry *lexical.Registry, vectorStore *vectorstore.Store, embedder embedclient.Embedder, crossEncoder rerank.CrossEncoder, documents DocumentProvider) *Searcher {
	return &Searcher{
		lexicalRegistry: lexicalRegistry,
		vectorStore:     vectorStore,
		embedder:        embedder,
		crossEncoder:    crossEncoder,
		documents:       documents,
	}
}

// Search runs BM25 and vector search for domain, fuses them with RRF,
// optionally reranks with the cross-encoder, and resolves the final
// document list. When opts.RelaxToGeneral is set and the domain
// collection returns fewer than K fused results, the general collection
// is searched too and merged in (documents already present keep their
// domain-collection rank).
func (s *Searcher) Search(ctx context.Context, domain ragmodel.Domain, query string, opts Options) ([]*ragmodel.Document, []FusedResult, error) {
	k := opts.K
	if k <= 0 {
		k = 6
	}

	fused, err := s.fuseDomain(ctx, domain, query, k, opts)
	if err != nil {
		return nil, nil, err
	}

	if opts.RelaxToGeneral && len(fused) < k && domain != ragmodel.DomainGeneral {
		generalFused, err := s.fuseDomain(ctx, ragmodel.DomainGeneral, query, k, opts)
		if err == nil {
			fused = mergeFused(fused, generalFused, k)
		}
	}

	if opts.EnableReranking && s.crossEncoder != nil && len(fused) > 0 {
		if m := opts.RerankMultiplier; m > 0 && len(fused) > k*m {
			fused = fused[:k*m]
		}
		fused, err = s.rerank(ctx, query, fused)
		if err != nil {
			return nil, nil, err
		}
	}

	if len(fused) > k {
		fused = fused[:k]
	}

	docs := make([]*ragmodel.Document, 0, len(fused))
	for _, fr := range fused {
		doc, err := s.documents.GetDocument(ctx, fr.DocumentID)
		if err != nil || doc == nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, fused, nil
}

func (s *Searcher) fuseDomain(ctx context.Context, domain ragmodel.Domain, query string, k int, opts Options) ([]FusedResult, error) {
	oversample := k * 3

	lex, err := s.lexicalRegistry.Collection(domain)
	if err != nil {
		return nil, fmt.Errorf("lexical collection: %w", err)
	}
	keywordHits, err := lex.Search(ctx, query, oversample)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var semanticHits []vectorstore.Result
	if opts.UseMMR {
		lambda := opts.MMRLambda
		if lambda <= 0 {
			lambda = 0.5
		}
		semanticHits, err = s.vectorStore.MMRSearch(ctx, domain, queryVec, oversample, lambda)
	} else {
		semanticHits, err = s.vectorStore.SimilaritySearch(ctx, domain, queryVec, oversample)
	}
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if opts.SimilarityThreshold > 0 {
		filtered := semanticHits[:0]
		for _, h := range semanticHits {
			if h.Score >= opts.SimilarityThreshold {
				filtered = append(filtered, h)
			}
		}
		semanticHits = filtered
	}

	keywordRanked := make([]RankedID, len(keywordHits))
	for i, h := range keywordHits {
		keywordRanked[i] = RankedID{ID: h.ID, Score: h.Score}
	}
	semanticRanked := make([]RankedID, len(semanticHits))
	for i, h := range semanticHits {
		semanticRanked[i] = RankedID{ID: h.ID, Score: h.Score}
	}

	return Fuse(keywordRanked, semanticRanked), nil
}

func (s *Searcher) rerank(ctx context.Context, query string, fused []FusedResult) ([]FusedResult, error) {
	pairs := make([]rerank.Pair, len(fused))
	for i, fr := range fused {
		doc, err := s.documents.GetDocument(ctx, fr.DocumentID)
		text := ""
		if err == nil && doc != nil {
			text = doc.Content
		}
		pairs[i] = rerank.Pair{Query: query, Doc: text}
	}
	scores, err := s.crossEncoder.Score(ctx, pairs)
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}
	for i := range fused {
		fused[i].Score = scores[i]
	}
	sortFusedDescending(fused)
	return fused, nil
}

func mergeFused(primary, fallback []FusedResult, k int) []FusedResult {
	seen := make(map[string]bool, len(primary))
	for _, fr := range primary {
		seen[fr.DocumentID] = true
	}
	merged := append([]FusedResult(nil), primary...)
	for _, fr := range fallback {
		if len(merged) >= k {
			break
		}
		if !seen[fr.DocumentID] {
			merged = append(merged, fr)
			seen[fr.DocumentID] = true
		}
	}
	sortFusedDescending(merged)
	return merged
}

func sortFusedDescending(fused []FusedResult) {
	for i := 1; i < len(fused); i++ {
		for j := i; j > 0 && fused[j].Score > fused[j-1].Score; j-- {
			fused[j], fused[j-1] = fused[j-1], fused[j]
		}
	}
}
