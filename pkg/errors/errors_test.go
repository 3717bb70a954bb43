package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "cluster not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "cluster not found" {
		t.Errorf("expected message 'cluster not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeTransport, "describe cluster failed", cause)

	if err.Code != ErrCodeTransport {
		t.Errorf("expected code %s, got %s", ErrCodeTransport, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	err := WrapWithContext(ErrCodeCanceled, "poll canceled", context.Canceled, map[string]any{
		"target":   "Sample-Spark2",
		"attempts": 2,
	})

	if err.Code != ErrCodeCanceled {
		t.Errorf("expected code %s, got %s", ErrCodeCanceled, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["target"] != "Sample-Spark2" {
		t.Errorf("expected target to be Sample-Spark2")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"structured", New(ErrCodeTimeout, "slow"), ErrCodeTimeout},
		{"fmt wrapped", fmt.Errorf("outer: %w", New(ErrCodeUnauthorized, "denied")), ErrCodeUnauthorized},
		{"outermost wins", Wrap(ErrCodeTransport, "fetch", New(ErrCodeUnavailable, "503")), ErrCodeTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeUnavailable, "503")
	err := fmt.Errorf("poll: %w", Wrap(ErrCodeTransport, "fetch failed", inner))

	if !IsCode(err, ErrCodeTransport) {
		t.Error("expected TRANSPORT in chain")
	}
	if !IsCode(err, ErrCodeUnavailable) {
		t.Error("expected SERVICE_UNAVAILABLE in chain")
	}
	if IsCode(err, ErrCodeCanceled) {
		t.Error("did not expect CANCELED in chain")
	}
	if IsCode(errors.New("plain"), ErrCodeInternal) {
		t.Error("plain errors carry no code")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeNotFound,
		ErrCodeUnauthorized,
		ErrCodeTimeout,
		ErrCodeCanceled,
		ErrCodeTransport,
		ErrCodeInternal,
		ErrCodeInvalidRequest,
		ErrCodeRateLimitExceeded,
		ErrCodeUnavailable,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
		if seen[code] {
			t.Errorf("duplicate error code: %v", code)
		}
		seen[code] = true
	}
}
