// Package respcache caches full generated responses keyed by a fingerprint
// of the sanitized query, routed domains, and recent history, so a repeat
// question skips classification, retrieval, generation, and evaluation
// entirely.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// Entry is a cached pipeline outcome.
type Entry struct {
	Generation *ragmodel.Generation
	Evaluation *ragmodel.EvaluationResult
}

// ResponseCache is the storage contract shared by the in-process LRU and
// the redis-backed implementation, so the router depends on neither
// concretely.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key string, entry *Entry)
}

// Key computes the SHA-256 cache key for (sanitizedQuery, domains,
// history[-3:]), per spec.md §4.11.
func Key(sanitizedQuery string, domains []ragmodel.Domain, history ragmodel.History) string {
	sorted := make([]string, len(domains))
	for i, d := range domains {
		sorted[i] = string(d)
	}
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(sanitizedQuery))
	h.Write([]byte("|"))
	h.Write([]byte(strings.Join(sorted, ",")))
	h.Write([]byte("|"))
	h.Write([]byte(historyFingerprint(history)))
	return hex.EncodeToString(h.Sum(nil))
}

func historyFingerprint(history ragmodel.History) string {
	var b strings.Builder
	for _, t := range history.Tail(3) {
		b.WriteString(string(t.Role))
		b.WriteString(":")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}
