package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNoStacks, "No stack counts found in %d streams", 2)

	if err.Code != ErrCodeNoStacks {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNoStacks)
	}

	if err.Message != "No stack counts found in 2 streams" {
		t.Errorf("Message = %v, want %v", err.Message, "No stack counts found in 2 streams")
	}

	expected := "NO_STACKS: No stack counts found in 2 streams"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeInput, cause, "open %s", "perf.folded")

	if err.Code != ErrCodeInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInput)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "INPUT: open perf.folded: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNoStacks, "x"), ErrCodeNoStacks, true},
		{"different code", New(ErrCodeInput, "x"), ErrCodeNoStacks, false},
		{"wrapped by fmt", fmt.Errorf("render: %w", New(ErrCodeNoStacks, "x")), ErrCodeNoStacks, true},
		{"plain error", errors.New("x"), ErrCodeNoStacks, false},
		{"nil error", nil, ErrCodeNoStacks, false},
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
	if got := GetCode(fmt.Errorf("outer: %w", New(ErrCodeInvalidPalette, "x"))); got != ErrCodeInvalidPalette {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidPalette)
	}
	if got := GetCode(errors.New("x")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNoStacks, "No stack counts found")); got != "No stack counts found" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != "boom" {
		t.Errorf("UserMessage() = %q", got)
	}
}
