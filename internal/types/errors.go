package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All components MUST use these constants instead of hardcoded strings.
const (
	// EndpointInvalid means a provider URL could not be constructed or the
	// provider returned a document without the expected follow-up URL. This
	// is a programming or configuration defect, not retryable without a
	// code or config change.
	ErrCodeEndpointInvalid ErrorCode = "endpoint_invalid"

	// UpstreamStatus means the provider answered with a non-2xx status.
	// The HTTP status code is carried in AppError.Status. Retryable by the
	// user via manual refresh.
	ErrCodeUpstreamStatus ErrorCode = "upstream_status"

	// UpstreamDecode means the response body did not match the expected
	// schema, which indicates upstream contract drift.
	ErrCodeUpstreamDecode ErrorCode = "upstream_decode"

	// UpstreamUnreachable means the request never produced a usable
	// response: DNS failure, connection refused, timeout, or an open
	// circuit breaker.
	ErrCodeUpstreamUnreachable ErrorCode = "upstream_unreachable"

	// RequestCancelled means the caller aborted the request. This is a
	// distinct outcome, not a failure: it must never populate user-facing
	// error state or be logged as an error.
	ErrCodeRequestCancelled ErrorCode = "request_cancelled"

	// StoreFailure means the persisted settings store rejected a read or
	// write.
	ErrCodeStoreFailure ErrorCode = "store_failure"
)

// AppError is the standard application error type used throughout skycast.
// All domain errors should be expressed as AppError to enable consistent
// classification and error chain support.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error

	// Status holds the upstream HTTP status code for ErrCodeUpstreamStatus
	// errors. Zero otherwise.
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Code == ErrCodeUpstreamStatus && e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error. This is the standard constructor for domain
// errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewUpstreamStatusError creates an AppError for a non-2xx provider response.
func NewUpstreamStatusError(status int, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamStatus,
		Message: fmt.Sprintf("upstream returned status %d", status),
		Err:     err,
		Status:  status,
	}
}

// CodeOf extracts the ErrorCode from an error chain. Returns an empty code
// when the chain contains no AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// StatusOf extracts the upstream HTTP status from an error chain. Returns
// zero when the chain contains no upstream status error.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// IsCancelled reports whether the error represents a caller-initiated abort.
func IsCancelled(err error) bool {
	return CodeOf(err) == ErrCodeRequestCancelled
}

// IsInvalidEndpoint reports whether the error represents an unconstructable
// provider URL.
func IsInvalidEndpoint(err error) bool {
	return CodeOf(err) == ErrCodeEndpointInvalid
}

// IsDecodeError reports whether the error represents a schema mismatch in a
// provider response.
func IsDecodeError(err error) bool {
	return CodeOf(err) == ErrCodeUpstreamDecode
}
