// Package errors provides standardized error handling for the matching engine.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Caller contract violations. The only category allowed to propagate
	// as a hard failure out of the engine.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Skill corpus access
	ErrCodeCorpusUnavailable ErrorCode = "CORPUS_UNAVAILABLE"
	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	// Contamination guards; these always fail open
	ErrCodeGuardTableLoadFailed    ErrorCode = "GUARD_TABLE_LOAD_FAILED"
	ErrCodeContaminationGuardError ErrorCode = "CONTAMINATION_GUARD_ERROR"

	// External model collaborators
	ErrCodeEmbeddingFailed  ErrorCode = "EMBEDDING_FAILED"
	ErrCodeEmbeddingTimeout ErrorCode = "EMBEDDING_TIMEOUT"
	ErrCodeLLMAnalysisFailed ErrorCode = "LLM_ANALYSIS_FAILED"
	ErrCodeLLMTimeout        ErrorCode = "LLM_TIMEOUT"

	// Audit output; logged and discarded, never surfaced
	ErrCodeAuditPersistenceFailed ErrorCode = "AUDIT_PERSISTENCE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidInputError creates a non-retryable caller contract violation.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCorpusUnavailableError creates a retryable corpus connection error.
func NewCorpusUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCorpusUnavailable,
		Message:   "Skill corpus unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable relevance query error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Skill corpus query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable corpus query timeout error.
func NewSearchTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Skill corpus query timeout",
		Details:   "query exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Skill corpus index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGuardTableLoadFailedError creates a retryable guard store error.
func NewGuardTableLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGuardTableLoadFailed,
		Message:   "Contamination guard table load failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewContaminationGuardError creates a fail-open guard evaluation error.
// Callers must log it and pass the skill through with a low-confidence marker.
func NewContaminationGuardError(guardName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContaminationGuardError,
		Message:   "Contamination guard evaluation failed",
		Details:   fmt.Sprintf("guard: %s, error: %s", guardName, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingFailedError creates a retryable embedding provider error.
func NewEmbeddingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingFailed,
		Message:   "Embedding provider error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingTimeoutError creates an embedding timeout error. The batch
// layer substitutes a zero vector instead of retrying.
func NewEmbeddingTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingTimeout,
		Message:   "Embedding call timeout",
		Details:   "call exceeded timeout threshold",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMAnalysisFailedError creates a retryable generative analysis error.
func NewLLMAnalysisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMAnalysisFailed,
		Message:   "Generative match analysis failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable generative analysis timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Generative match analysis timeout",
		Details:   "call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditPersistenceFailedError creates an audit write error. It must never
// affect the returned score.
func NewAuditPersistenceFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditPersistenceFailed,
		Message:   "Audit record persistence failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Worker Error Integration
// ==========================

// GetRetryCount returns the recommended retry count when a worker fails a job
// with this code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCorpusUnavailable,
		ErrCodeSearchQueryFailed,
		ErrCodeGuardTableLoadFailed,
		ErrCodeEmbeddingFailed,
		ErrCodeLLMAnalysisFailed:
		return 3 // Retryable technical errors

	case ErrCodeSearchTimeout,
		ErrCodeLLMTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Contract violations and fail-open categories: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CORPUS") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "CORPUS"
	case strings.Contains(codeStr, "GUARD") || strings.Contains(codeStr, "CONTAMINATION"):
		return "CONTAMINATION"
	case strings.Contains(codeStr, "EMBEDDING") || strings.Contains(codeStr, "LLM"):
		return "MODEL"
	case strings.Contains(codeStr, "AUDIT"):
		return "AUDIT"
	default:
		return "OTHER"
	}
}
