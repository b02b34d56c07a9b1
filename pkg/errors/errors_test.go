package errors

import (
	stderrors "errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeGemNotFound, "gem %q not found", "rails")

	if err.Code != ErrCodeGemNotFound {
		t.Errorf("unexpected code: %s", err.Code)
	}
	if err.Error() != `GEM_NOT_FOUND: gem "rails" not found` {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeFeedUnavailable, cause, "sync failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if GetCode(err) != ErrCodeFeedUnavailable {
		t.Errorf("unexpected code: %s", GetCode(err))
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNotFound, "missing")

	if !Is(err, ErrCodeNotFound) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNotFound) {
		t.Error("Is should not match plain errors")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "empty gem name")
	if UserMessage(err) != "empty gem name" {
		t.Errorf("unexpected user message: %s", UserMessage(err))
	}

	plain := stderrors.New("plain failure")
	if UserMessage(plain) != "plain failure" {
		t.Errorf("unexpected user message for plain error: %s", UserMessage(plain))
	}
}
