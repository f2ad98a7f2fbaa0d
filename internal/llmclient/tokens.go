package llmclient

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates token counts for budget accounting (generation
// max-token checks, prompt-size logging) using the cl100k_base encoding as
// a Claude-compatible approximation.
type TokenCounter struct {
	encoder *tiktoken.Tiktoken
	mu      sync.Mutex
}

var (
	globalCounter *TokenCounter
	counterOnce   sync.Once
)

// GetTokenCounter returns the process-wide token counter, initializing it
// on first use.
func GetTokenCounter() *TokenCounter {
	counterOnce.Do(func() {
		tkm, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			globalCounter = &TokenCounter{encoder: nil}
			return
		}
		globalCounter = &TokenCounter{encoder: tkm}
	})
	return globalCounter
}

// Count returns the estimated token count for text.
func (tc *TokenCounter) Count(text string) int {
	if tc.encoder == nil {
		return len(text) / 4
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.encoder.Encode(text, nil, nil))
}
