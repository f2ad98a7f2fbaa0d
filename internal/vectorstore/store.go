package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/cenkalti/backoff/v5"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// lawCommonCollection is the shared collection supplementing every
// domain's retrieval with general legal passages (§ legal supplement).
const lawCommonCollection = "law_common"

// Store owns one Index per domain collection plus the shared law_common
// collection, created lazily on first use.
type Store struct {
	dimensions int
	mu         sync.Mutex
	collections map[string]Index
	newIndex    func(dimensions int) (Index, error)
}

// New creates a Store backed by in-memory indexes of the given dimension.
func New(dimensions int) *Store {
	return &Store{
		dimensions:  dimensions,
		collections: make(map[string]Index),
		newIndex: func(dimensions int) (Index, error) {
			return NewMemoryIndex(dimensions)
		},
	}
}

func (s *Store) collection(name string) (Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.collections[name]; ok {
		return idx, nil
	}
	idx, err := s.newIndex(s.dimensions)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	s.collections[name] = idx
	return idx, nil
}

// GetCollection returns the collection for domain, creating it if absent.
func (s *Store) GetCollection(domain ragmodel.Domain) (Index, error) {
	return s.collection(string(domain))
}

// LawCommon returns the shared law_common collection.
func (s *Store) LawCommon() (Index, error) {
	return s.collection(lawCommonCollection)
}

func withRetry(ctx context.Context, op func() error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op()
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(3))
	return err
}

// Add writes vectors into domain's collection, retrying transient failures
// up to 3 times with exponential backoff.
func (s *Store) Add(ctx context.Context, domain ragmodel.Domain, ids []string, vectors [][]float32) error {
	idx, err := s.GetCollection(domain)
	if err != nil {
		return err
	}
	return withRetry(ctx, func() error {
		return idx.Add(ctx, ids, vectors)
	})
}

// SimilaritySearch returns the top-k nearest neighbors in domain's
// collection, retrying transient failures up to 3 times.
func (s *Store) SimilaritySearch(ctx context.Context, domain ragmodel.Domain, query []float32, k int) ([]Result, error) {
	idx, err := s.GetCollection(domain)
	if err != nil {
		return nil, err
	}
	var results []Result
	err = withRetry(ctx, func() error {
		var searchErr error
		results, searchErr = idx.Search(ctx, query, k)
		return searchErr
	})
	return results, err
}
