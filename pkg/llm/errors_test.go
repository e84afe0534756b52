package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError_Nil(t *testing.T) {
	if got := ClassifyError(nil); got != nil {
		t.Errorf("expected nil for nil error, got %v", got)
	}
}

func TestClassifyError_PassesThroughStructuredError(t *testing.T) {
	orig := NewError(ErrorTypeAuth, "authentication failed", false, errors.New("401"))
	wrapped := fmt.Errorf("call failed: %w", orig)

	got := ClassifyError(wrapped)
	if got != orig {
		t.Errorf("expected the original structured error back, got %v", got)
	}
}

func TestClassifyError_Classification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"unauthorized", errors.New("401 Unauthorized"), ErrorTypeAuth, false},
		{"invalid api key", errors.New("invalid api key provided"), ErrorTypeAuth, false},
		{"model missing", errors.New("model gpt-4o-mini does not exist"), ErrorTypeModel, false},
		{"endpoint 404", errors.New("404 page not found"), ErrorTypeEndpoint, false},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrorTypeEndpoint, true},
		{"no such host", errors.New("dial tcp: lookup api.invalid: no such host"), ErrorTypeEndpoint, true},
		{"timeout", errors.New("context deadline exceeded"), ErrorTypeEndpoint, true},
		{"rate limited", errors.New("429 Too Many Requests"), ErrorTypeUnknown, true},
		{"server error", errors.New("503 Service Unavailable"), ErrorTypeEndpoint, true},
		{"unknown", errors.New("something odd happened"), ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", got.Retryable, tt.retryable)
			}
			if got.Cause != tt.err {
				t.Errorf("cause not preserved: %v", got.Cause)
			}
		})
	}
}

func TestClassifyError_ExtractsStatusCode(t *testing.T) {
	got := ClassifyError(errors.New("429 Too Many Requests"))
	if got.StatusCode != 429 {
		t.Errorf("expected status code 429, got %d", got.StatusCode)
	}
}

func TestError_ErrorString(t *testing.T) {
	e := &Error{
		Type:       ErrorTypeAuth,
		Message:    "authentication failed",
		StatusCode: 401,
		Cause:      errors.New("bad key"),
	}
	want := "auth HTTP 401 authentication failed: bad key"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	e := NewError(ErrorTypeEndpoint, "connection failed", true, cause)

	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find the cause through Unwrap")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(NewError(ErrorTypeEndpoint, "server error", true, nil)) {
		t.Error("expected retryable error to report true")
	}
	if IsRetryable(NewError(ErrorTypeAuth, "authentication failed", false, nil)) {
		t.Error("expected non-retryable error to report false")
	}
	if IsRetryable(errors.New("plain error")) {
		t.Error("expected plain error to report false")
	}
}

func TestGetErrorType(t *testing.T) {
	if got := GetErrorType(NewError(ErrorTypeModel, "model not found", false, nil)); got != ErrorTypeModel {
		t.Errorf("expected model type, got %q", got)
	}
	if got := GetErrorType(errors.New("plain error")); got != ErrorTypeUnknown {
		t.Errorf("expected unknown type for plain error, got %q", got)
	}
}
