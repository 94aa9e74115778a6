package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "config not found")
		if err.Error() != "[NOT_FOUND] config not found" {
			t.Errorf("expected [NOT_FOUND] config not found, got %s", err.Error())
		}
	})

	t.Run("Newf", func(t *testing.T) {
		err := Newf(CodeValidationError, "unknown rule %q", "E9999")
		if err.Error() != `[VALIDATION_ERROR] unknown rule "E9999"` {
			t.Errorf("unexpected message %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("disk full")
		err := Wrap(original, CodeInternal, "save snapshot")
		expected := "[INTERNAL_ERROR] save snapshot: disk full"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to the original")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("load: %w", New(CodeConflict, "duplicate rule"))
		if !IsCode(err, CodeConflict) {
			t.Error("expected IsCode to see through fmt wrapping")
		}
	})

	t.Run("AddContextSortsKeys", func(t *testing.T) {
		err := AddContext(New(CodeValidationError, "syntax error"), CtxPath, "a.php")
		err = AddContext(err, CtxLine, 3)
		expected := "[VALIDATION_ERROR] syntax error (line=3, path=a.php)"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("AddContextForeign", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxRule, "E0001")
		if !IsCode(err, CodeInternal) {
			t.Error("expected foreign errors to be wrapped as internal")
		}
	})
}
