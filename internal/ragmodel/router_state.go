package ragmodel

import (
	"time"

	"github.com/google/uuid"
)

// TimeoutCause identifies why a pipeline returned a partial response.
type TimeoutCause string

const (
	TimeoutCauseQuestion TimeoutCause = "question_timeout"
	TimeoutCausePipeline TimeoutCause = "pipeline_total_timeout"
	TimeoutCauseRuntime  TimeoutCause = "runtime_error"
)

// StageError is a non-fatal error recorded on RouterState at a node
// boundary, per the §7 propagation policy.
type StageError struct {
	Stage   string `json:"stage"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Generation holds the synthesized answer plus its citations and action
// hints.
type Generation struct {
	Content string              `json:"content"`
	Actions []*ActionSuggestion `json:"actions"`
	Sources []*SourceCitation   `json:"sources"`
}

// QueryRewriteInfo records the outcome of the query rewriter stage.
type QueryRewriteInfo struct {
	Applied bool          `json:"applied"`
	Reason  string        `json:"reason"`
	Time    time.Duration `json:"time"`
}

// RouterState is the cooperative, append-only record threaded through the
// pipeline. A RouterState is created per incoming request and lives for
// the request only; no field is mutated after the stage that produced it,
// except RetryCount and RetrievalResults on graduated retry.
type RouterState struct {
	CorrelationID string `json:"correlation_id"`
	ClientID      string `json:"client_id,omitempty"`

	Query          string         `json:"query"`
	SanitizedQuery string         `json:"sanitized_query"`
	WasSanitized   bool           `json:"was_sanitized"`
	History        History        `json:"history"`
	UserContext    map[string]any `json:"user_context,omitempty"`

	Classification *ClassificationResult `json:"classification,omitempty"`
	SubQueries     []SubQuery            `json:"sub_queries,omitempty"`

	RetrievalResults []*RetrievalResult `json:"retrieval_results,omitempty"`

	Generation *Generation        `json:"generation,omitempty"`
	Evaluation *EvaluationResult  `json:"evaluation,omitempty"`

	RetryCount int `json:"retry_count"`

	// Timings records per-stage wall-clock duration in milliseconds,
	// keyed by stage name ("classify", "decompose", "retrieve", ...).
	Timings map[string]int64 `json:"timings"`

	TimeoutCause TimeoutCause `json:"timeout_cause,omitempty"`

	QueryRewrite *QueryRewriteInfo `json:"query_rewrite,omitempty"`

	Errors []StageError `json:"errors,omitempty"`
}

// NewRouterState constructs a RouterState for a fresh request.
func NewRouterState(query string, history History, userContext map[string]any, clientID string) *RouterState {
	return &RouterState{
		CorrelationID: uuid.NewString(),
		ClientID:      clientID,
		Query:         query,
		History:       history,
		UserContext:   userContext,
		Timings:       make(map[string]int64),
	}
}

// RecordTiming appends a stage duration.
func (s *RouterState) RecordTiming(stage string, d time.Duration) {
	if s.Timings == nil {
		s.Timings = make(map[string]int64)
	}
	s.Timings[stage] = d.Milliseconds()
}

// RecordError appends a StageError without aborting the pipeline.
func (s *RouterState) RecordError(stage, errType, message string) {
	s.Errors = append(s.Errors, StageError{Stage: stage, Type: errType, Message: message})
}

// Domains returns the classification's domain set, or nil if classification
// has not run yet.
func (s *RouterState) Domains() []Domain {
	if s.Classification == nil {
		return nil
	}
	return s.Classification.Domains
}
