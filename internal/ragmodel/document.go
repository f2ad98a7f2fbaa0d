package ragmodel

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Document is an immutable value object retrieved from a vector or
// keyword index.
type Document struct {
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Metadata keys Documents are expected to carry, at minimum:
// source, domain; optionally title, chunk_index, parent_id.
const (
	MetaSource     = "source"
	MetaTitle      = "title"
	MetaDomain     = "domain"
	MetaChunkIndex = "chunk_index"
	MetaParentID   = "parent_id"
)

func (d *Document) meta(key string) (string, bool) {
	if d.Metadata == nil {
		return "", false
	}
	v, ok := d.Metadata[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Source returns the document's source metadata field.
func (d *Document) Source() string {
	s, _ := d.meta(MetaSource)
	return s
}

// Title returns the document's title metadata field.
func (d *Document) Title() string {
	s, _ := d.meta(MetaTitle)
	return s
}

// DedupPrefixBytes is the number of leading content bytes hashed to form
// the dedup fingerprint. This mirrors a known weakness carried over from
// the source system: documents sharing a long common prefix (e.g. the
// same boilerplate disclaimer) collide even when their bodies differ.
// Set to 0 to fingerprint the full content instead.
//
// This is intentionally left as the historical default rather than
// silently switched to a full-content hash; see DESIGN.md open question
// "Prefix-hash dedup".
var DedupPrefixBytes = 500

// Fingerprint returns the dedup key for a document's content, per
// DedupPrefixBytes.
func Fingerprint(content string) uint64 {
	if DedupPrefixBytes > 0 && len(content) > DedupPrefixBytes {
		content = content[:DedupPrefixBytes]
	}
	return xxhash.Sum64String(content)
}

// FingerprintString is Fingerprint formatted as a stable string key, for
// use in maps/sets where a uint64 key is inconvenient (e.g. JSON).
func FingerprintString(content string) string {
	return strconv.FormatUint(Fingerprint(content), 16)
}

// DedupDocuments removes documents with a colliding Fingerprint, keeping
// the first occurrence in iteration order.
func DedupDocuments(docs []*Document) []*Document {
	seen := make(map[uint64]struct{}, len(docs))
	out := make([]*Document, 0, len(docs))
	for _, d := range docs {
		fp := Fingerprint(d.Content)
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, d)
	}
	return out
}
