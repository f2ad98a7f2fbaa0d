package lexical

import (
	"fmt"
	"sync"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

const lawCommonCollection = "law_common"

// Registry owns one BM25Index per domain collection plus the shared
// law_common collection, built lazily on first use under a per-registry
// lock (the same lazy-collection idiom as vectorstore.Store, generalized
// from the teacher's path-exists-or-create branch in NewBleveIndex).
type Registry struct {
	mu          sync.Mutex
	collections map[string]*BM25Index
}

// NewRegistry creates an empty collection registry.
func NewRegistry() *Registry {
	return &Registry{collections: make(map[string]*BM25Index)}
}

func (r *Registry) collection(name string) (*BM25Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.collections[name]; ok {
		return idx, nil
	}
	idx, err := NewBM25Index()
	if err != nil {
		return nil, fmt.Errorf("create lexical collection %s: %w", name, err)
	}
	r.collections[name] = idx
	return idx, nil
}

// Collection returns the BM25Index for domain, creating it if absent.
func (r *Registry) Collection(domain ragmodel.Domain) (*BM25Index, error) {
	return r.collection(string(domain))
}

// LawCommon returns the shared law_common collection.
func (r *Registry) LawCommon() (*BM25Index, error) {
	return r.collection(lawCommonCollection)
}

// Close closes every collection in the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, idx := range r.collections {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
