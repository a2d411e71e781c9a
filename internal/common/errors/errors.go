// Package errors carries the intake error taxonomy: every failure below the
// top level is converted into a StandardError value rather than propagated.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration         ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeFieldValidationFailed ErrorCode = "FIELD_VALIDATION_FAILED"
	ErrCodePayloadPreparation    ErrorCode = "PAYLOAD_PREPARATION_FAILED"
	ErrCodeTransportTransient    ErrorCode = "TRANSPORT_TRANSIENT"
	ErrCodeTransportTerminal     ErrorCode = "TRANSPORT_TERMINAL"
	ErrCodeRetriesExhausted      ErrorCode = "RETRIES_EXHAUSTED"
	ErrCodeSnapshotCorrupted     ErrorCode = "SNAPSHOT_CORRUPTED"
	ErrCodeSnapshotStoreFailed   ErrorCode = "SNAPSHOT_STORE_FAILED"
	ErrCodeSubmissionInProgress  ErrorCode = "SUBMISSION_IN_PROGRESS"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured intake error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewConfigurationError is returned before any I/O when a required setting is missing.
func NewConfigurationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFieldValidationError summarises a failed step validation.
func NewFieldValidationError(step, fieldCount int) *StandardError {
	return &StandardError{
		Code:      ErrCodeFieldValidationFailed,
		Message:   "Form data validation failed",
		Details:   fmt.Sprintf("step: %d, invalid fields: %d", step, fieldCount),
		Retryable: false,
		Metadata: map[string]interface{}{
			"step":       step,
			"fieldCount": fieldCount,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadPreparationError is non-fatal: the caller drops the offending part.
func NewPayloadPreparationError(part string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadPreparation,
		Message:   "Failed to prepare submission data",
		Details:   fmt.Sprintf("part: %s, error: %v", part, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError classifies a delivery failure. statusCode 0 means no
// response was received at all.
func NewTransportError(statusCode int, message string, cause error) *StandardError {
	code := ErrCodeTransportTerminal
	retryable := IsRetryableStatus(statusCode)
	if retryable {
		code = ErrCodeTransportTransient
	}
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:       code,
		Message:    message,
		Details:    details,
		Retryable:  retryable,
		StatusCode: statusCode,
		Timestamp:  time.Now().UTC(),
	}
}

// NewRetriesExhaustedError wraps the last failure once the retry budget is spent.
func NewRetriesExhaustedError(message string, retries int) *StandardError {
	return &StandardError{
		Code:      ErrCodeRetriesExhausted,
		Message:   message,
		Details:   fmt.Sprintf("retries: %d", retries),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSnapshotCorruptedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotCorrupted,
		Message:   "Saved form snapshot is corrupted",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSnapshotStoreError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotStoreFailed,
		Message:   "Snapshot store operation failed",
		Details:   fmt.Sprintf("op: %s, error: %v", op, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewSubmissionInProgressError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionInProgress,
		Message:   "A submission is already in progress",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRetryableStatus reports whether an HTTP status is worth another
// attempt. 0 stands for "no response received".
func IsRetryableStatus(status int) bool {
	switch {
	case status == 0:
		return true
	case status == 408, status == 429:
		return true
	case status >= 500 && status < 600:
		return true
	default:
		return false
	}
}

// IsRetryable checks a wrapped error chain for a retryable StandardError.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONFIGURATION"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "PAYLOAD"):
		return "PAYLOAD"
	case strings.Contains(codeStr, "TRANSPORT") || strings.Contains(codeStr, "RETRIES"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "SNAPSHOT"):
		return "PERSISTENCE"
	default:
		return "OTHER"
	}
}
