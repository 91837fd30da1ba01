package dto

import (
	"errors"
	"net/http"
	"testing"
)

func TestAPIError(t *testing.T) {
	t.Run("NewAPIError", func(t *testing.T) {
		err := NewAPIError(http.StatusNotFound, ErrorCodeNotFound, "resource not found")
		if err.StatusCode() != http.StatusNotFound {
			t.Errorf("Expected status code %d, got %d", http.StatusNotFound, err.StatusCode())
		}
		if err.Code() != ErrorCodeNotFound {
			t.Errorf("Expected code %s, got %s", ErrorCodeNotFound, err.Code())
		}
		if err.Error() != "resource not found" {
			t.Errorf("Expected message 'resource not found', got '%s'", err.Error())
		}
		if err.Details() == nil {
			t.Error("Expected Details() to return non-nil map")
		}
	})
	t.Run("WithDetails", func(t *testing.T) {
		err := (&APIError{statusCode: http.StatusBadRequest, code: ErrorCodeValidationFailed, message: "test"}).
			WithDetails(map[string]any{"field": "age", "reason": "too old"})
		if err.Details()["field"] != "age" || err.Details()["reason"] != "too old" {
			t.Errorf("Unexpected details %v", err.Details())
		}
	})
	t.Run("WithDetail", func(t *testing.T) {
		err := (&APIError{statusCode: http.StatusBadRequest, code: ErrorCodeValidationFailed, message: "test"}).
			WithDetail("field", "city")
		if err.Details()["field"] != "city" {
			t.Errorf("Expected field 'city', got %v", err.Details()["field"])
		}
	})
	t.Run("Wrap", func(t *testing.T) {
		inner := errors.New("disk on fire")
		err := Storage(inner)
		if !errors.Is(err, inner) {
			t.Error("Expected errors.Is to find the wrapped error")
		}
		if err.Error() != "Storage error: disk on fire" {
			t.Errorf("Unexpected Error() %q", err.Error())
		}
		if err.Message() != "Storage error" {
			t.Errorf("Message() must not leak the wrapped error, got %q", err.Message())
		}
		if err.StatusCode() != http.StatusInternalServerError || err.Code() != ErrorCodeStorageError {
			t.Errorf("Unexpected %d %s", err.StatusCode(), err.Code())
		}
	})
	t.Run("ErrorWithStatus", func(t *testing.T) {
		var err error = NotFound("User")
		var ews ErrorWithStatus
		if !errors.As(err, &ews) {
			t.Fatal("Expected *APIError to implement ErrorWithStatus")
		}
		if ews.Message() != "User not found" {
			t.Errorf("Unexpected message %q", ews.Message())
		}
	})
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *APIError
		status  int
		code    ErrorCode
		message string
	}{
		{"NotFound", NotFound("User"), http.StatusNotFound, ErrorCodeNotFound, "User not found"},
		{"BadRequest", BadRequest("nope"), http.StatusBadRequest, ErrorCodeValidationFailed, "nope"},
		{"InvalidUserData", InvalidUserData("age", "too old"), http.StatusBadRequest, ErrorCodeValidationFailed, MsgInvalidUserData},
		{"InvalidParameter", InvalidParameter("n", "x"), http.StatusBadRequest, ErrorCodeInvalidFormat, "Invalid n"},
		{"PayloadTooLarge", PayloadTooLarge(10), http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "Request body too large"},
		{"RateLimitExceeded", RateLimitExceeded(3), http.StatusTooManyRequests, ErrorCodeRateLimitExceeded, "Rate limit exceeded, retry in 3s"},
		{"Internal", Internal("boom"), http.StatusInternalServerError, ErrorCodeInternal, "boom"},
		{"NotImplemented", NotImplemented("History"), http.StatusNotImplemented, ErrorCodeNotImplemented, "History is not enabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.status)
			}
			if tt.err.Code() != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code(), tt.code)
			}
			if tt.err.Message() != tt.message {
				t.Errorf("message = %q, want %q", tt.err.Message(), tt.message)
			}
		})
	}
	t.Run("InvalidUserData details", func(t *testing.T) {
		if d := InvalidUserData("", "").Details(); len(d) != 0 {
			t.Errorf("expected no details, got %v", d)
		}
		if d := InvalidUserData("name", "").Details(); d["field"] != "name" {
			t.Errorf("got %v", d)
		}
	})
}
