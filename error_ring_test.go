package graft

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorRing_NilSafe(t *testing.T) {
	var r *errorRing

	// All operations should be safe on nil
	r.push(errors.New("test"))

	if r.all() != nil {
		t.Error("expected nil from nil ring")
	}
}

func TestErrorRing_ZeroSize(t *testing.T) {
	r := newErrorRing(0)
	if r != nil {
		t.Error("expected nil ring for size 0")
	}
}

func TestErrorRing_NegativeSize(t *testing.T) {
	r := newErrorRing(-1)
	if r != nil {
		t.Error("expected nil ring for negative size")
	}
}

func TestErrorRing_SingleError(t *testing.T) {
	r := newErrorRing(3)

	err := errors.New("error1")
	r.push(err)

	errs := r.all()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0] != err {
		t.Error("expected same error instance")
	}
}

func TestErrorRing_FillsWithoutWrapping(t *testing.T) {
	r := newErrorRing(3)

	for i := 0; i < 3; i++ {
		r.push(fmt.Errorf("error%d", i))
	}

	errs := r.all()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}
	for i := 0; i < 3; i++ {
		want := fmt.Sprintf("error%d", i)
		if errs[i].Error() != want {
			t.Errorf("position %d: expected %q, got %q", i, want, errs[i].Error())
		}
	}
}

func TestErrorRing_WrapsEvictingOldest(t *testing.T) {
	r := newErrorRing(3)

	for i := 0; i < 5; i++ {
		r.push(fmt.Errorf("error%d", i))
	}

	errs := r.all()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}
	// Oldest first: errors 2, 3, 4 survive
	for i, want := range []string{"error2", "error3", "error4"} {
		if errs[i].Error() != want {
			t.Errorf("position %d: expected %q, got %q", i, want, errs[i].Error())
		}
	}
}

func TestErrorRing_EmptyReturnsNil(t *testing.T) {
	r := newErrorRing(3)
	if r.all() != nil {
		t.Error("expected nil from empty ring")
	}
}
