package ravelerr

import (
	"errors"
	"testing"
)

func TestShapeMismatchErrorMessage(t *testing.T) {
	t.Parallel()

	err := ShapeMismatchError{Want: 2, Got: 3}
	if err.Error() == "" {
		t.Fatalf("expected a non-empty error message")
	}
	var target ShapeMismatchError
	if !errors.As(error(err), &target) {
		t.Fatalf("expected errors.As to match ShapeMismatchError")
	}
}

func TestGraphInvariantErrorMessage(t *testing.T) {
	t.Parallel()

	err := GraphInvariantError{Detail: "dangling gater"}
	if err.Error() == "" {
		t.Fatalf("expected a non-empty error message")
	}
}
