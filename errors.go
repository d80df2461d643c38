package graft

import "fmt"

// InvalidStateError reports a mutating call made in a lifecycle state that
// forbids it: any mutation after Stop, or Register after Start.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("graft: %s not allowed while %s", e.Op, e.State)
}

// LoadError reports a Loader failure for a single resource. Binding is
// aborted for that resource only; other resources and the handler table
// are unaffected.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("graft: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// HandlerError reports a bind callback that panicked. It propagates to the
// caller that triggered discovery for the resource; sibling resources and
// the handler table are unaffected.
type HandlerError struct {
	Path    string
	Pattern string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("graft: handler %q on %s: %v", e.Pattern, e.Path, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// CleanupError reports a cleanup action that failed or panicked. Cleanup
// failures never abort remaining cleanups; they are collected and exposed
// via Runtime.CleanupErrors.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("graft: cleanup %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
