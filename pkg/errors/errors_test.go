package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := RateLimitError("provider throttled", nil)
	if got := err.Error(); got != "[RATE_LIMIT] provider throttled" {
		t.Errorf("unexpected message: %q", got)
	}

	wrapped := ServerError("upstream failed", errors.New("boom"))
	if got := wrapped.Error(); got != "[SERVER] upstream failed: boom" {
		t.Errorf("unexpected wrapped message: %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := TimeoutError("call timed out", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsType(wrapped, ErrTimeout) {
		t.Error("expected IsType to see through fmt wrapping")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", RateLimitError("throttled", nil), true},
		{"server", ServerError("500", nil), true},
		{"timeout", TimeoutError("deadline", nil), true},
		{"auth", AuthError("bad key", nil), false},
		{"not found", NotFoundError("no model", nil), false},
		{"config", ConfigError("bad config", nil), false},
		{"plain error", errors.New("mystery"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"rate limit text", errors.New("HTTP 429 too many requests"), ErrRateLimit},
		{"timeout text", errors.New("context deadline exceeded"), ErrTimeout},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrTimeout},
		{"auth text", errors.New("401 unauthorized"), ErrAuth},
		{"invalid key", errors.New("Invalid API key provided"), ErrAuth},
		{"not found", errors.New("model gpt-9 not found"), ErrNotFound},
		{"server 503", errors.New("503 service unavailable"), ErrServer},
		{"unknown", errors.New("something odd"), ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Type != tt.want {
				t.Errorf("Classify(%v).Type = %v, want %v", tt.err, got.Type, tt.want)
			}
		})
	}
}

func TestClassifyPassesThroughTypedErrors(t *testing.T) {
	orig := AuthError("bad key", nil)
	wrapped := fmt.Errorf("client: %w", orig)

	got := Classify(wrapped)
	if got.Type != ErrAuth {
		t.Errorf("expected typed error to pass through, got %v", got.Type)
	}
}

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{429, ErrRateLimit},
		{401, ErrAuth},
		{403, ErrAuth},
		{404, ErrNotFound},
		{408, ErrTimeout},
		{500, ErrServer},
		{503, ErrServer},
		{400, ErrGeneration},
	}

	for _, tt := range tests {
		got := FromStatusCode(tt.code, "x")
		if got.Type != tt.want {
			t.Errorf("FromStatusCode(%d) = %v, want %v", tt.code, got.Type, tt.want)
		}
	}
}

func TestWithContext(t *testing.T) {
	err := GenerationError("merge failed", nil).WithContext("chunks", 12)
	if err.Context["chunks"] != 12 {
		t.Error("expected context value to be stored")
	}
}
