package hybridsearch

import (
	"context"
	"fmt"
	"sync"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// MemoryDocumentProvider is an in-memory DocumentProvider, used in tests
// and as a default when documents are registered directly by the caller
// rather than sourced from an external store.
type MemoryDocumentProvider struct {
	mu   sync.RWMutex
	docs map[string]*ragmodel.Document
}

// NewMemoryDocumentProvider returns an empty provider.
func NewMemoryDocumentProvider() *MemoryDocumentProvider {
	return &MemoryDocumentProvider{docs: make(map[string]*ragmodel.Document)}
}

// Put registers id -> doc.
func (p *MemoryDocumentProvider) Put(id string, doc *ragmodel.Document) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs[id] = doc
}

// GetDocument returns the document for id.
func (p *MemoryDocumentProvider) GetDocument(ctx context.Context, id string) (*ragmodel.Document, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	doc, ok := p.docs[id]
	if !ok {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	return doc, nil
}
