package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "validation", err: Validation("bad input"), expected: KindValidation},
		{name: "permission", err: Permission(), expected: KindPermission},
		{name: "not found", err: NotFound("nothing here"), expected: KindNotFound},
		{name: "platform", err: Platform("api broke", errors.New("500")), expected: KindPlatform},
		{name: "internal", err: Internal(errors.New("boom")), expected: KindInternal},
		{name: "plain error", err: errors.New("boom"), expected: KindInternal},
		{name: "wrapped command error", err: fmt.Errorf("context: %w", Validation("bad")), expected: KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Validation("Mention a user")); got != "Mention a user" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("sql: connection refused")); got != "An error occurred while executing that command" {
		t.Errorf("plain errors must map to the generic message, got %q", got)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Platform("api broke", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}
