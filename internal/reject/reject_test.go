package reject

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	t.Parallel()
	err := New(NotASelect, "only SELECT queries are allowed")
	want := "NOT_A_SELECT: only SELECT queries are allowed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewFormatsArgs(t *testing.T) {
	t.Parallel()
	err := New(LimitExceedsCeiling, "limit %d exceeds maximum of %d", 50001, 10000)
	if err.Message != "limit 50001 exceeds maximum of 10000" {
		t.Errorf("unexpected message: %q", err.Message)
	}
}

func TestReasonOf(t *testing.T) {
	t.Parallel()
	err := New(UnauthorizedOwner, "nope")
	if got := ReasonOf(err); got != UnauthorizedOwner {
		t.Errorf("ReasonOf = %s, want %s", got, UnauthorizedOwner)
	}

	wrapped := fmt.Errorf("pipeline: %w", err)
	if got := ReasonOf(wrapped); got != UnauthorizedOwner {
		t.Errorf("ReasonOf(wrapped) = %s, want %s", got, UnauthorizedOwner)
	}

	if got := ReasonOf(errors.New("plain")); got != "" {
		t.Errorf("ReasonOf(plain error) = %q, want empty", got)
	}
	if got := ReasonOf(nil); got != "" {
		t.Errorf("ReasonOf(nil) = %q, want empty", got)
	}
}
