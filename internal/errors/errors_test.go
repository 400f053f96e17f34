package errors

import (
	"fmt"
	"testing"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := SchemaError("missing column")
	wrapped := Wrap(base, "preprocessing failed")

	if got := GetCode(wrapped); got != CodeSchemaError {
		t.Errorf("expected %s, got %s", CodeSchemaError, got)
	}
}

func TestWrap_PreservesCodeThroughErrorfChain(t *testing.T) {
	base := FitError("did not converge")
	chained := fmt.Errorf("fold 3: %w", base)
	wrapped := Wrap(chained, "cross-validation failed")

	if got := GetCode(wrapped); got != CodeFitError {
		t.Errorf("expected %s, got %s", CodeFitError, got)
	}
}

func TestWrap_StampsInternalErrorOnPlainCause(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("disk on fire"), "write failed")
	if got := GetCode(wrapped); got != CodeInternalError {
		t.Errorf("expected %s, got %s", CodeInternalError, got)
	}
}

func TestWrap_NilIsNil(t *testing.T) {
	if Wrap(nil, "nothing") != nil {
		t.Error("wrapping nil should return nil")
	}
	if WrapCode(nil, CodeIOError, "nothing") != nil {
		t.Error("WrapCode of nil should return nil")
	}
}

func TestWrapCode_OverridesCode(t *testing.T) {
	base := New(CodeInternalError, "solver blew up")
	wrapped := WrapCode(base, CodeFitError, "probit fit failed")

	if got := GetCode(wrapped); got != CodeFitError {
		t.Errorf("expected %s, got %s", CodeFitError, got)
	}
}

func TestWrapf_FormatsMessage(t *testing.T) {
	wrapped := Wrapf(InvalidInput("bad cell"), "column %q row %d", "agegroup", 7)
	want := `column "agegroup" row 7: bad cell`
	if wrapped.Error() != want {
		t.Errorf("expected %q, got %q", want, wrapped.Error())
	}
	if got := GetCode(wrapped); got != CodeInvalidInput {
		t.Errorf("expected %s, got %s", CodeInvalidInput, got)
	}
}

func TestGetCode_UnknownForPlainError(t *testing.T) {
	if got := GetCode(fmt.Errorf("plain")); got != "UNKNOWN" {
		t.Errorf("expected UNKNOWN, got %s", got)
	}
}
