// Package dto defines API request/response types and error handling.
//
// This package contains all types used for HTTP API communication:
//   - Request types with path/query/json struct tags for parameter binding
//   - Response types for JSON serialization
//   - Structured error types with HTTP status codes and error codes
//
// The dto package is the API contract layer and does not import the users
// package. Conversion between dto and domain types is handled by the
// handlers package (in convert.go).
//
// Every error body carries the human readable message under "error", the
// machine readable ErrorCode under "code" and optional "details".
package dto

import (
	"fmt"
	"maps"
	"net/http"
	"strconv"
)

// ErrorCode defines specific error types for the API.
type ErrorCode string

const (
	// ErrorCodeValidationFailed is returned when input data fails validation.
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrorCodeInvalidFormat is returned when a parameter has an invalid format.
	ErrorCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	// ErrorCodePayloadTooLarge is returned when the request body is too big.
	ErrorCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"

	// ErrorCodeNotFound is returned when a resource is not found.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrorCodeStorageError is returned when a storage operation fails.
	ErrorCodeStorageError ErrorCode = "STORAGE_ERROR"

	// ErrorCodeInternal is returned when an unexpected server error occurs.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeNotImplemented is returned when a feature is not enabled.
	ErrorCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	// ErrorCodeRateLimitExceeded is returned when a client sends too many requests.
	ErrorCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// MsgInvalidUserData is the message of every rejected user payload.
const MsgInvalidUserData = "Invalid user data"

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    ErrorCode      `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorWithStatus is an error that includes an HTTP status code and error code.
type ErrorWithStatus interface {
	Error() string
	// Message is the client facing message; it never includes wrapped errors.
	Message() string
	StatusCode() int
	Code() ErrorCode
	Details() map[string]any
}

// APIError is a concrete error type with status code and optional details.
type APIError struct {
	statusCode int
	code       ErrorCode
	message    string
	details    map[string]any
	wrappedErr error
}

// NewAPIError creates a new APIError with the given status code and message.
func NewAPIError(statusCode int, code ErrorCode, message string) *APIError {
	return &APIError{
		statusCode: statusCode,
		code:       code,
		message:    message,
		details:    make(map[string]any),
	}
}

// WithDetails adds details to the error.
func (e *APIError) WithDetails(details map[string]any) *APIError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	maps.Copy(e.details, details)
	return e
}

// WithDetail adds a single detail to the error.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// Wrap wraps an underlying error.
func (e *APIError) Wrap(err error) *APIError {
	e.wrappedErr = err
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.wrappedErr != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrappedErr)
	}
	return e.message
}

// Message returns the message without the wrapped error.
func (e *APIError) Message() string {
	return e.message
}

// StatusCode returns the HTTP status code.
func (e *APIError) StatusCode() int {
	return e.statusCode
}

// Code returns the error code.
func (e *APIError) Code() ErrorCode {
	return e.code
}

// Details returns additional error details.
func (e *APIError) Details() map[string]any {
	return e.details
}

// Unwrap returns the wrapped error if any.
func (e *APIError) Unwrap() error {
	return e.wrappedErr
}

// Predefined error constructors for common cases

// NotFound creates a 404 Not Found error.
func NotFound(resource string) *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeNotFound, resource+" not found")
}

// NoUsersInCity creates the 404 error of an export matching nobody.
func NoUsersInCity(city string) *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeNotFound, "No users found in "+city).WithDetail("city", city)
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeValidationFailed, message)
}

// InvalidUserData creates the 400 error returned for any rejected user
// payload. field names the offending field when known.
func InvalidUserData(field, reason string) *APIError {
	err := BadRequest(MsgInvalidUserData)
	if field != "" {
		err.WithDetail("field", field)
	}
	if reason != "" {
		err.WithDetail("reason", reason)
	}
	return err
}

// InvalidParameter creates a 400 error for a malformed path or query value.
func InvalidParameter(name, value string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeInvalidFormat, "Invalid "+name).
		WithDetail("parameter", name).
		WithDetail("value", value)
}

// PayloadTooLarge creates a 413 error for a request body above limit bytes.
func PayloadTooLarge(limit int64) *APIError {
	return NewAPIError(http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "Request body too large").
		WithDetail("limit", limit)
}

// RateLimitExceeded creates a 429 error telling the client when to retry.
func RateLimitExceeded(retryAfter int) *APIError {
	return NewAPIError(http.StatusTooManyRequests, ErrorCodeRateLimitExceeded, "Rate limit exceeded, retry in "+strconv.Itoa(retryAfter)+"s").
		WithDetail("retry_after", retryAfter)
}

// Storage creates a 500 error for a failed read or write of the data file.
func Storage(err error) *APIError {
	return NewAPIError(http.StatusInternalServerError, ErrorCodeStorageError, "Storage error").Wrap(err)
}

// Internal returns a 500 Internal Server Error.
func Internal(message string) *APIError {
	return NewAPIError(http.StatusInternalServerError, ErrorCodeInternal, message)
}

// InternalWithError creates a 500 error wrapping an underlying error.
func InternalWithError(message string, err error) *APIError {
	return Internal(message).Wrap(err)
}

// NotImplemented creates a 501 Not Implemented error.
func NotImplemented(feature string) *APIError {
	return NewAPIError(http.StatusNotImplemented, ErrorCodeNotImplemented, feature+" is not enabled")
}
