package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidColor, "channel out of range: %d", 300)

	if got, want := err.Code, ErrCodeInvalidColor; got != want {
		t.Errorf("code = %q, want %q", got, want)
	}
	if got, want := err.Message, "channel out of range: 300"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if got, want := err.Error(), "INVALID_COLOR: channel out of range: 300"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrCodeBackend, cause, "encoding PNG")

	if got, want := err.Error(), "BACKEND_ERROR: encoding PNG: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInsufficientRadius, "margins exceed canvas")

	if !Is(err, ErrCodeInsufficientRadius) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeInvalidColor) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("Is should not match a non-structured error")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeInvalidColor, "bad hex literal")
	outer := fmt.Errorf("loading style: %w", inner)

	if !Is(outer, ErrCodeInvalidColor) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
	if got, want := GetCode(outer), ErrCodeInvalidColor; got != want {
		t.Errorf("GetCode = %q, want %q", got, want)
	}
}

func TestGetCode(t *testing.T) {
	if got, want := GetCode(New(ErrCodeUnknownMask, "no entry")), ErrCodeUnknownMask; got != want {
		t.Errorf("GetCode = %q, want %q", got, want)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidStyle, "track_gap must be in [0, 1)")
	if got, want := UserMessage(err), "track_gap must be in [0, 1)"; got != want {
		t.Errorf("UserMessage = %q, want %q", got, want)
	}
	plain := fmt.Errorf("plain error")
	if got, want := UserMessage(plain), "plain error"; got != want {
		t.Errorf("UserMessage on plain = %q, want %q", got, want)
	}
}
