package ragmodel

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxQueryRunes is the maximum accepted query length, in runes.
const MaxQueryRunes = 1000

// ValidateQuery checks that query is non-empty after trim and within the
// max length. Returns a descriptive error (mapped to InputError by the
// caller) otherwise.
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("query is empty after trim")
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxQueryRunes {
		return fmt.Errorf("query length %d exceeds max %d", n, MaxQueryRunes)
	}
	return nil
}

// SubQuery is a per-domain rewriting of a composite user query.
type SubQuery struct {
	Text          string `json:"text"`
	Domain        Domain `json:"domain"`
	OriginalOrder int    `json:"original_order"`
}

// MaxSubQueries caps the number of sub-queries a decomposition can
// produce, even when the classifier selected more domains.
const MaxSubQueries = 3
