// Package llmclient wraps the Anthropic chat completion API with a circuit
// breaker, exponential backoff, and a per-client token-bucket rate limiter,
// so every LLM-calling node (classify, decompose, rewrite, generate,
// evaluate) shares one resilient client instead of reimplementing retry
// logic five times.
package llmclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Message is a single turn sent to the chat model.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request is one completion request.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int64
	Temperature float64
}

// Response is the model's reply plus usage accounting for cost/latency logs.
type Response struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Client calls the configured chat model, guarded by a circuit breaker and
// bounded exponential backoff.
type Client struct {
	sdk         anthropic.Client
	modelID     string
	logger      *zap.Logger
	breaker     *gobreaker.CircuitBreaker
	maxAttempts uint
}

// New creates a Client for modelID using apiKey. If apiKey is empty, the SDK
// falls back to the ANTHROPIC_API_KEY environment variable.
func New(modelID, apiKey string, logger *zap.Logger) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	sdk := anthropic.NewClient(opts...)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llmclient",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("llm circuit breaker state change",
					zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
			}
		},
	})

	return &Client{
		sdk:         sdk,
		modelID:     modelID,
		logger:      logger,
		breaker:     breaker,
		maxAttempts: 3,
	}
}

// Complete sends req and returns the model's reply. Transient failures are
// retried with exponential backoff inside the circuit breaker; once the
// breaker is open, calls fail fast without hitting the network.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	operation := func() (*Response, error) {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.complete(ctx, req)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return result.(*Response), nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxAttempts))
}

func (c *Client) complete(ctx context.Context, req Request) (*Response, error) {
	params := c.buildParams(req)

	msg, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("llm completion failed: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &Response{
		Text:         text,
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}

func (c *Client) buildParams(req Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.modelID),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == "assistant" {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	return params
}

// CompleteStream sends req and invokes onToken for each text delta as it
// arrives. It returns the fully accumulated response once the stream ends.
// Unlike Complete, a stream already in flight cannot be cleanly retried by
// the circuit breaker without re-emitting tokens, so CompleteStream trips
// the breaker on failure but does not retry with backoff itself.
func (c *Client) CompleteStream(ctx context.Context, req Request, onToken func(string)) (*Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.completeStream(ctx, req, onToken)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Response), nil
}

func (c *Client) completeStream(ctx context.Context, req Request, onToken func(string)) (*Response, error) {
	params := c.buildParams(req)
	stream := c.sdk.Messages.NewStreaming(ctx, params)

	var text strings.Builder
	var inputTokens, outputTokens int64

	for stream.Next() {
		event := stream.Current()
		switch event.Type {
		case "message_start":
			inputTokens = event.Message.Usage.InputTokens
		case "content_block_delta":
			if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				text.WriteString(event.Delta.Text)
				if onToken != nil {
					onToken(event.Delta.Text)
				}
			}
		case "message_delta":
			outputTokens = event.Usage.OutputTokens
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("llm stream failed: %w", err)
	}

	return &Response{
		Text:         text.String(),
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}, nil
}
