// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
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
	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"

	ErrCodeStoreQueryFailed ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeStoreTimeout     ErrorCode = "STORE_TIMEOUT"
	ErrCodeInvalidDataset   ErrorCode = "INVALID_DATASET"
	ErrCodeInvalidFilter    ErrorCode = "INVALID_FILTER"

	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"

	ErrCodeDelegateFailed  ErrorCode = "DELEGATE_FAILED"
	ErrCodeDelegateTimeout ErrorCode = "DELEGATE_TIMEOUT"

	ErrCodeSourceLookupFailed ErrorCode = "SOURCE_LOOKUP_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError wraps a record store failure for a dataset/filter pair.
func NewStoreQueryFailedError(dataset, filter string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "Record store query failed",
		Details:   fmt.Sprintf("dataset: %s, filter: %s, error: %s", dataset, filter, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"dataset": dataset, "filter": filter},
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreTimeoutError creates a retryable store timeout error.
func NewStoreTimeoutError(dataset string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreTimeout,
		Message:   "Record store query timeout",
		Details:   fmt.Sprintf("dataset: %s", dataset),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidDatasetError creates a non-retryable unknown dataset error.
func NewInvalidDatasetError(dataset string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidDataset,
		Message:   "Unsupported dataset",
		Details:   fmt.Sprintf("dataset: %s", dataset),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterError creates a non-retryable filter error.
func NewInvalidFilterError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilter,
		Message:   "Invalid filter",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputValidationFailedError reports job variables that failed schema validation.
func NewInputValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDelegateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDelegateFailed,
		Message:   "Agent delegate error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewDelegateTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeDelegateTimeout,
		Message:   "Agent delegate timeout",
		Details:   "agent call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceLookupFailedError is non-retryable: FAQ answers render without citations instead.
func NewSourceLookupFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceLookupFailed,
		Message:   "Source lookup failed",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes modelled in the BPMN diagrams.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeStoreQueryFailed:              "STORE_QUERY_FAILED",
	ErrCodeStoreTimeout:                  "STORE_TIMEOUT",
	ErrCodeInvalidDataset:                "INVALID_DATASET",
	ErrCodeInvalidFilter:                 "INVALID_FILTER",
	ErrCodeInputValidationFailed:         "INPUT_VALIDATION_FAILED",
	ErrCodeDelegateFailed:                "DELEGATE_FAILED",
	ErrCodeDelegateTimeout:               "DELEGATE_TIMEOUT",
	ErrCodeSourceLookupFailed:            "SOURCE_LOOKUP_FAILED",
}

// RetryPolicy says how often a job failing with one code goes back to the broker
// and how long the broker holds it before the next activation.
type RetryPolicy struct {
	Retries int
	Backoff time.Duration
}

// Timeouts wait longest: a store or agent that just ran out of time is usually
// still busy. Codes without a policy are business errors and escalate at once.
var retryPolicies = map[ErrorCode]RetryPolicy{
	ErrCodeDatabaseConnectionFailed:      {Retries: 3, Backoff: 5 * time.Second},
	ErrCodeElasticsearchConnectionFailed: {Retries: 3, Backoff: 5 * time.Second},
	ErrCodeStoreQueryFailed:              {Retries: 3, Backoff: time.Second},
	ErrCodeStoreTimeout:                  {Retries: 2, Backoff: 10 * time.Second},
	ErrCodeDelegateFailed:                {Retries: 3, Backoff: 2 * time.Second},
	ErrCodeDelegateTimeout:               {Retries: 1, Backoff: 30 * time.Second},
}

// PolicyFor returns the retry policy of code; the zero policy never retries.
func PolicyFor(code ErrorCode) RetryPolicy {
	return retryPolicies[code]
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	return PolicyFor(code).Retries
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "ELASTICSEARCH"):
		return "CONNECTION"
	case strings.HasPrefix(codeStr, "STORE"):
		return "STORE"
	case strings.Contains(codeStr, "DELEGATE"):
		return "AGENT"
	case strings.Contains(codeStr, "SOURCE"):
		return "SOURCES"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// CodeOf returns the code of the StandardError in err's chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}
