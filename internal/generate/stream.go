package generate

import (
	"context"
	"fmt"

	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// EventType identifies a streamed generation event.
type EventType string

const (
	EventSource EventType = "source"
	EventToken  EventType = "token"
	EventAction EventType = "action"
	EventDone   EventType = "done"
)

// Event is one item in the generation stream. Within a single call, events
// are emitted strictly in the order source* < token+ < action* < done.
type Event struct {
	Type     EventType
	Content  string
	Source   *ragmodel.SourceCitation
	Action   *ragmodel.ActionSuggestion
	Metadata map[string]any
}

// GenerateStream synthesizes in the same way as Generate but emits events to
// emit as they become available instead of returning one final string.
// emit must not block indefinitely; it is called synchronously from the
// token callback, so a slow consumer stalls the underlying LLM stream.
func (g *Generator) GenerateStream(ctx context.Context, in Input, emit func(Event)) (*ragmodel.Generation, error) {
	sources := buildSources(in.Results)
	for i, s := range sources {
		emit(Event{Type: EventSource, Source: s, Metadata: map[string]any{"index": i + 1}})
	}

	actions := g.collectActions(in.Query, in.Results)
	actionHint := actionHintText(actions)
	domains := resultDomains(in.Results)

	var prompt string
	var err error
	if len(domains) <= 1 {
		prompt, err = g.singleDomainPrompt(in, domains, sources, actionHint)
	} else {
		prompt, err = g.multiDomainPrompt(in, sources, actionHint)
	}
	if err != nil {
		return nil, fmt.Errorf("building generation prompt: %w", err)
	}

	resp, err := g.llm.CompleteStream(ctx, llmclient.Request{
		Messages:    []llmclient.Message{{Role: "user", Content: prompt}},
		MaxTokens:   int64(maxTokensFor(actions)),
		Temperature: defaultTemperature,
	}, func(token string) {
		emit(Event{Type: EventToken, Content: token})
	})
	if err != nil {
		return nil, fmt.Errorf("generation stream failed: %w", err)
	}

	for _, a := range actions {
		emit(Event{Type: EventAction, Action: a})
	}

	emit(Event{Type: EventDone, Metadata: map[string]any{
		"domains": domains,
	}})

	return &ragmodel.Generation{
		Content: resp.Text,
		Actions: actions,
		Sources: sources,
	}, nil
}

// RefusalStream emits the fixed refusal message as a single token event
// followed by a terminal done event, with no source events, matching the
// rejection-verdict streaming contract.
func RefusalStream(emit func(Event)) *ragmodel.Generation {
	emit(Event{Type: EventToken, Content: fixedRefusalMessage})
	emit(Event{Type: EventDone, Metadata: map[string]any{"domains": []ragmodel.Domain{ragmodel.DomainRejection}}})
	return Refusal()
}
