package id

import "testing"

func TestNewIDsAreUniqueAndNotNil(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	if a == b {
		t.Fatalf("expected two calls to New to produce distinct IDs")
	}
	if a.IsNil() || b.IsNil() {
		t.Fatalf("expected New to never produce a nil ID")
	}
}

func TestNilIsNil(t *testing.T) {
	t.Parallel()

	if !Nil.IsNil() {
		t.Fatalf("expected the zero value to report IsNil")
	}
}
