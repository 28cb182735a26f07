package errors

import (
	"context"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidScenario, "unknown market: %s", "m9")

	if err.Code != ErrCodeInvalidScenario {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidScenario)
	}

	if err.Message != "unknown market: m9" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown market: m9")
	}

	expected := "INVALID_SCENARIO: unknown market: m9"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrCodeAborted, context.Canceled, "build pu paths")

	if err.Code != ErrCodeAborted {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeAborted)
	}

	if errors.Unwrap(err) != context.Canceled {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), context.Canceled)
	}

	if !errors.Is(err, context.Canceled) {
		t.Error("errors.Is(err, context.Canceled) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNotFound, "x"), ErrCodeNotFound, true},
		{"non-matching code", New(ErrCodeNotFound, "x"), ErrCodeStore, false},
		{"outer code wins", Wrap(ErrCodeStore, New(ErrCodeNotFound, "inner"), "outer"), ErrCodeStore, true},
		{"non-Error type", errors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeCache, "x")); got != ErrCodeCache {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeCache)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %v, want %v", got, "friendly message")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %v, want %v", got, "plain error")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidScenario, "x"), 400},
		{New(ErrCodeNotFound, "x"), 404},
		{New(ErrCodeAborted, "x"), 499},
		{New(ErrCodeStore, "x"), 500},
		{errors.New("plain"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
