package serverapi

import "github.com/konsult-ai/rag-router/internal/ragmodel"

// turnDTO is the wire shape of one history entry.
type turnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the body of POST /api/chat and /api/chat/stream.
type chatRequest struct {
	Message     string                 `json:"message"`
	History     []turnDTO              `json:"history"`
	UserContext map[string]interface{} `json:"user_context,omitempty"`
}

func (req chatRequest) toHistory() ragmodel.History {
	if len(req.History) == 0 {
		return nil
	}
	history := make(ragmodel.History, len(req.History))
	for i, t := range req.History {
		history[i] = ragmodel.Turn{Role: ragmodel.Role(t.Role), Content: t.Content}
	}
	return history
}

// chatResponse is the body of a successful POST /api/chat response, per
// spec.md §6. session_id and ragas_metrics are always null: session
// persistence and RAGAS offline scoring both belong to external
// collaborators this module never talks to (spec.md §1 Non-goals).
type chatResponse struct {
	Content      string                        `json:"content"`
	Domain       ragmodel.Domain               `json:"domain"`
	Domains      []ragmodel.Domain             `json:"domains"`
	Sources      []*ragmodel.SourceCitation    `json:"sources"`
	Actions      []*ragmodel.ActionSuggestion  `json:"actions"`
	Evaluation   *ragmodel.EvaluationResult    `json:"evaluation"`
	SessionID    *string                       `json:"session_id"`
	RetryCount   int                           `json:"retry_count"`
	RagasMetrics *struct{}                     `json:"ragas_metrics"`
}

func toChatResponse(state *ragmodel.RouterState) chatResponse {
	resp := chatResponse{
		RetryCount: state.RetryCount,
	}
	domains := state.Domains()
	if len(domains) > 0 {
		resp.Domain = domains[0]
		resp.Domains = domains
	} else {
		resp.Domain = ragmodel.DomainRejection
		resp.Domains = []ragmodel.Domain{ragmodel.DomainRejection}
	}
	if state.Generation != nil {
		resp.Content = state.Generation.Content
		resp.Sources = state.Generation.Sources
		resp.Actions = state.Generation.Actions
	}
	resp.Evaluation = state.Evaluation
	return resp
}

// streamEvent is one SSE frame of POST /api/chat/stream, per spec.md §6.
type streamEvent struct {
	Type     string                 `json:"type"`
	Content  string                 `json:"content,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
