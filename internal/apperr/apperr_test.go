package apperr

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(ErrPromptNotFound, "prompt missing")
	if got := e.Error(); got != "[PROMPT_NOT_FOUND] prompt missing" {
		t.Errorf("Unexpected message: %q", got)
	}

	wrapped := Wrap(ErrStorageWrite, "persist failed", errors.New("disk full"))
	if !strings.Contains(wrapped.Error(), "disk full") {
		t.Errorf("Expected cause in message, got %q", wrapped.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := Wrap(ErrInternal, "boom", cause)

	if !errors.Is(wrapped, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
	if New(ErrInternal, "no cause").Unwrap() != nil {
		t.Error("Expected nil unwrap without a cause")
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(ErrValidation, "bad input")

	if !Is(err, ErrValidation) {
		t.Error("Expected code match")
	}
	if Is(err, ErrNotFound) {
		t.Error("Expected code mismatch")
	}
	if Is(errors.New("plain"), ErrValidation) {
		t.Error("Expected plain errors not to match")
	}
	if Is(nil, ErrValidation) {
		t.Error("Expected nil not to match")
	}
}
