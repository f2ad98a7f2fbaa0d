package lexical

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// Classic BM25 parameters (Robertson/Zaragoza defaults).
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// BM25Index is a Bleve-backed in-memory collection scored with explicit
// classic BM25 (k1=1.5, b=0.75) from raw term/document frequencies, rather
// than Bleve's own TF-IDF-ish score.
type BM25Index struct {
	index bleve.Index

	mu        sync.RWMutex
	docLens   map[string]int // token count per doc, for avgdl normalization
	totalLen  int
}

// NewBM25Index creates an in-memory Bleve index for one domain collection.
func NewBM25Index() (*BM25Index, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming, so Korean and
	// English terms alike match on exact token rather than a stemmed form.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	im.AddDocumentMapping("document", docMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("create BM25 index: %w", err)
	}
	return &BM25Index{
		index:   index,
		docLens: make(map[string]int),
	}, nil
}

type bleveDoc struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

// Index adds or replaces a document.
func (b *BM25Index) Index(ctx context.Context, id string, content, title string) error {
	b.mu.Lock()
	if old, ok := b.docLens[id]; ok {
		b.totalLen -= old
	}
	length := len(tokenize(content)) + len(tokenize(title))
	b.docLens[id] = length
	b.totalLen += length
	b.mu.Unlock()

	return b.index.Index(id, bleveDoc{Content: content, Title: title})
}

// Delete removes a document from the index.
func (b *BM25Index) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	if old, ok := b.docLens[id]; ok {
		b.totalLen -= old
		delete(b.docLens, id)
	}
	b.mu.Unlock()
	return b.index.Delete(id)
}

// Close closes the underlying Bleve index.
func (b *BM25Index) Close() error {
	return b.index.Close()
}

// DocCount returns the number of indexed documents.
func (b *BM25Index) DocCount() (int, error) {
	n, err := b.index.DocCount()
	return int(n), err
}

// Search tokenizes query and scores every matching document with classic
// BM25 over content+title term frequencies.
func (b *BM25Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	totalDocs, err := b.DocCount()
	if err != nil {
		return nil, fmt.Errorf("doc count: %w", err)
	}
	if totalDocs == 0 {
		return nil, nil
	}

	b.mu.RLock()
	avgdl := float64(b.totalLen) / float64(max(totalDocs, 1))
	b.mu.RUnlock()

	termFreqs, docFreqs, err := b.termAndDocFrequencies(terms)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64)
	for _, term := range terms {
		n := docFreqs[term]
		if n == 0 {
			continue
		}
		idf := math.Log(float64(totalDocs-n)+0.5) - math.Log(float64(n)+0.5) + 1
		for docID, tf := range termFreqs[term] {
			b.mu.RLock()
			docLen := b.docLens[docID]
			b.mu.RUnlock()
			if docLen == 0 {
				docLen = 1
			}
			denom := float64(tf) + bm25K1*(1-bm25B+bm25B*float64(docLen)/avgdl)
			scores[docID] += idf * (float64(tf) * (bm25K1 + 1)) / denom
		}
	}

	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, scored{id: id, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Result, len(ranked))
	for i, r := range ranked {
		out[i] = Result{ID: r.id, Score: r.score}
	}
	return out, nil
}

// termAndDocFrequencies returns, per term, the document frequency and the
// per-document raw term frequency (occurrences across content+title),
// derived from Bleve's match-with-locations results.
func (b *BM25Index) termAndDocFrequencies(terms []string) (termFreqs map[string]map[string]int, docFreqs map[string]int, err error) {
	termFreqs = make(map[string]map[string]int, len(terms))
	docFreqs = make(map[string]int, len(terms))

	for _, term := range terms {
		q := bleve.NewMatchQuery(term)
		req := bleve.NewSearchRequest(q)
		req.Size = 10000
		req.IncludeLocations = true
		results, searchErr := b.index.Search(req)
		if searchErr != nil {
			return nil, nil, fmt.Errorf("search term %q: %w", term, searchErr)
		}
		docFreqs[term] = int(results.Total)
		perDoc := make(map[string]int, len(results.Hits))
		for _, hit := range results.Hits {
			count := 0
			for _, field := range []string{"content", "title"} {
				count += len(hit.Locations[field][term])
			}
			if count == 0 {
				count = 1 // matched but locations unavailable for this field layout
			}
			perDoc[hit.ID] = count
		}
		termFreqs[term] = perDoc
	}
	return termFreqs, docFreqs, nil
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
