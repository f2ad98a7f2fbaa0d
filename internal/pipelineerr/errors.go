// Package pipelineerr defines the §7 error taxonomy: typed errors caught
// at node boundaries, recorded on RouterState, and mapped to degrade /
// retry / fallback behavior rather than propagated raw to the caller.
package pipelineerr

import "fmt"

// ClassificationError means the LLM classifier failed; the router falls
// back to the hybrid classifier. Non-fatal.
type ClassificationError struct {
	Cause error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed: %v", e.Cause)
}

func (e *ClassificationError) Unwrap() error { return e.Cause }

// RetrievalError means a vector/BM25 call failed after retries for one
// sub-query. Degrades to an empty RetrievalResult; non-fatal unless every
// sub-query fails.
type RetrievalError struct {
	Domain string
	Cause  error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for domain %s: %v", e.Domain, e.Cause)
}

func (e *RetrievalError) Unwrap() error { return e.Cause }

// GenerationError means the LLM generation call failed or exceeded its
// timeout. Surfaced to the user as a fixed fallback message plus any
// collected sources.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// FixedGenerationFailureMessage is returned to the user when generation
// fails outright.
const FixedGenerationFailureMessage = "일시적으로 답변을 생성할 수 없습니다"

// EvaluationError means the judge call failed or its output could not be
// parsed. Scored as 0/unparseable; does not trigger a retry.
type EvaluationError struct {
	Cause error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed: %v", e.Cause)
}

func (e *EvaluationError) Unwrap() error { return e.Cause }

// BudgetExceeded means the global pipeline timeout was exhausted. The
// pipeline returns a partial response with TimeoutCause set.
type BudgetExceeded struct {
	Stage string
}

func (e *BudgetExceeded) Error() string {
	return fmt.Sprintf("pipeline budget exceeded at stage %s", e.Stage)
}

// InputError means the query was empty, over-length, or the sanitizer left
// no usable residue. Surfaced to the caller with a user-visible message.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// SystemErrorMessage is the catch-all message shown for unrecoverable
// internal errors, alongside a correlation id.
const SystemErrorMessage = "일시적 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."

// DelayAnnotation is appended to partial/timeout responses.
const DelayAnnotation = "응답 지연"
