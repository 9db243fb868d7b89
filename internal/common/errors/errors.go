// internal/common/errors/errors.go

// Package errors provides the standardized error taxonomy shared by the
// prediction, advisory, lead, and search services.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeExamDataNotAvailable   ErrorCode = "EXAM_DATA_NOT_AVAILABLE"
	ErrCodeMethodNotAllowed       ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeDataUnavailable        ErrorCode = "DATA_UNAVAILABLE"
	ErrCodeQueryTimeout           ErrorCode = "QUERY_TIMEOUT"
	ErrCodeGenerationTimeout      ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeGenerationFailed       ErrorCode = "GENERATION_FAILED"
	ErrCodeDuplicateLead          ErrorCode = "DUPLICATE_LEAD"
	ErrCodeLeadInsertFailed       ErrorCode = "LEAD_INSERT_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeSearchQueryFailed      ErrorCode = "SEARCH_QUERY_FAILED"
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

// NewValidationError creates a non-retryable input validation error.
// Validation failures are reported before any I/O happens.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedExamError reports a request for an exam paper that has no
// backing cutoff data yet. Distinct from an empty result set. The message
// wording is part of the public API contract.
func NewUnsupportedExamError(examLabel string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExamDataNotAvailable,
		Message:   fmt.Sprintf("%s data is not available yet. Currently supporting DCECE [PM] only.", examLabel),
		Details:   fmt.Sprintf("examType: %s", examLabel),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDataUnavailableError creates a retryable storage error. Cutoff data is
// never fabricated when the store is down; the caller sees this error instead.
func NewDataUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataUnavailable,
		Message:   "Cutoff data store unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Cutoff query timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError reports an advisory generation call that exceeded
// its deadline. Recovered locally via the deterministic fallback.
func NewGenerationTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Advice generation timeout",
		Details:   "generation call exceeded timeout threshold",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError reports an advisory generation API failure.
// Recovered locally via the deterministic fallback.
func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Advice generation API error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateLeadError creates a non-retryable duplicate lead error.
func NewDuplicateLeadError(phone string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateLead,
		Message:   "A lead with this phone number already exists",
		Details:   fmt.Sprintf("phone: %s", phone),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLeadInsertFailedError creates a retryable lead insert error.
func NewLeadInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLeadInsertFailed,
		Message:   "Lead insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Lead notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable institute search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Institute search query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the HTTP status the API surfaces it with.
// Generation errors never reach a caller: the advisor swallows them and
// returns fallback text, so they map to 200 by construction.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeExamDataNotAvailable:
		return http.StatusBadRequest
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeDuplicateLead:
		return http.StatusConflict
	case ErrCodeDataUnavailable, ErrCodeQueryTimeout, ErrCodeSearchQueryFailed:
		return http.StatusServiceUnavailable
	case ErrCodeGenerationTimeout, ErrCodeGenerationFailed:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether an error carries a retryable code.
func IsRetryable(err error) bool {
	if se, ok := err.(*StandardError); ok {
		return se.Retryable
	}
	return false
}
