package graft

import (
	"errors"
	"testing"
)

func TestInvalidStateError_Message(t *testing.T) {
	err := &InvalidStateError{Op: "register", State: StateRunning}
	want := "graft: register not allowed while running"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestLoadError_Unwrap(t *testing.T) {
	cause := errors.New("corrupt")
	err := &LoadError{Path: "X", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected LoadError to unwrap to its cause")
	}
}

func TestHandlerError_Unwrap(t *testing.T) {
	cause := errors.New("panic: boom")
	err := &HandlerError{Path: "X", Pattern: ".*", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected HandlerError to unwrap to its cause")
	}
}

func TestCleanupError_Unwrap(t *testing.T) {
	cause := errors.New("close failed")
	err := &CleanupError{Path: "X", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected CleanupError to unwrap to its cause")
	}
}
