// Package corpus loads the prebuilt per-domain document set this module
// consumes at startup (spec.md §1: "the core *consumes* prebuilt indexes").
// Crawling and preprocessing of source material is an external
// collaborator's job; this package only seeds the in-process vector and
// lexical collections from a flat YAML fixture so the retrieval agent has
// something to search against.
package corpus

import (
	"context"
	"fmt"
	"os"

	"github.com/konsult-ai/rag-router/internal/embedclient"
	"github.com/konsult-ai/rag-router/internal/hybridsearch"
	"github.com/konsult-ai/rag-router/internal/lexical"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/vectorstore"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Seed is one prebuilt document entry as it appears in the corpus fixture.
type Seed struct {
	ID      string         `yaml:"id"`
	Domain  ragmodel.Domain `yaml:"domain"`
	Title   string         `yaml:"title"`
	Source  string         `yaml:"source"`
	Content string         `yaml:"content"`
}

// File is the root shape of the corpus fixture: a flat list of seeds.
type File struct {
	Documents []Seed `yaml:"documents"`
}

// Load reads and parses path. A missing file is not an error — the
// pipeline runs with empty collections (every retrieval degrades to
// status=empty) rather than refusing to start, matching domainconfig's
// "optional, loaded once at startup" convention for operator-supplied data.
func Load(path string) ([]Seed, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("corpus: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("corpus: parse %s: %w", path, err)
	}
	return f.Documents, nil
}

// Bootstrap embeds and indexes every seed into the vector store, the
// lexical registry, and the document provider, one seed at a time in
// fixture order. A single seed's embedding or indexing failure is logged and
// skipped rather than aborting the whole load — a partially-seeded
// collection is still useful, per the same degrade-not-abort posture the
// retrieval agent itself takes on a per-sub-query failure.
func Bootstrap(ctx context.Context, seeds []Seed, embedder embedclient.Embedder, store *vectorstore.Store, registry *lexical.Registry, docs *hybridsearch.MemoryDocumentProvider, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, s := range seeds {
		if s.ID == "" || s.Content == "" {
			continue
		}
		doc := &ragmodel.Document{
			Content: s.Content,
			Metadata: map[string]interface{}{
				ragmodel.MetaSource: s.Source,
				ragmodel.MetaTitle:  s.Title,
				ragmodel.MetaDomain: string(s.Domain),
			},
		}
		docs.Put(s.ID, doc)

		lex, err := registry.Collection(s.Domain)
		if err != nil {
			logger.Warn("corpus: lexical collection", zap.String("id", s.ID), zap.Error(err))
			continue
		}
		if err := lex.Index(ctx, s.ID, s.Content, s.Title); err != nil {
			logger.Warn("corpus: lexical index failed", zap.String("id", s.ID), zap.Error(err))
			continue
		}

		vec, err := embedder.Embed(ctx, s.Content)
		if err != nil {
			logger.Warn("corpus: embed failed", zap.String("id", s.ID), zap.Error(err))
			continue
		}
		if err := store.Add(ctx, s.Domain, []string{s.ID}, [][]float32{vec}); err != nil {
			logger.Warn("corpus: vector add failed", zap.String("id", s.ID), zap.Error(err))
			continue
		}
	}
	return nil
}
