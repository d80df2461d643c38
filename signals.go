package graft

import "github.com/zoobzio/capitan"

// Runtime lifecycle signals.
var (
	// RuntimeStarted is emitted when Start freezes the handler table.
	RuntimeStarted = capitan.NewSignal(
		"graft.runtime.started",
		"Runtime started, handler table frozen",
	)

	// RuntimeStopped is emitted after Stop flushes all cleanups.
	RuntimeStopped = capitan.NewSignal(
		"graft.runtime.stopped",
		"Runtime stopped, cleanups flushed",
	)

	// RuntimeStateChanged is emitted on every lifecycle transition.
	RuntimeStateChanged = capitan.NewSignal(
		"graft.runtime.state.changed",
		"Runtime state transition",
	)
)

// Handler table signals.
var (
	// HandlerRegistered is emitted when a handler enters the table.
	HandlerRegistered = capitan.NewSignal(
		"graft.handler.registered",
		"Handler registered",
	)

	// HandlerRemoved is emitted when a removal token takes effect.
	HandlerRemoved = capitan.NewSignal(
		"graft.handler.removed",
		"Handler removed from table",
	)
)

// Discovery and binding signals.
var (
	// ResourceDiscovered is emitted when a resource enters dispatch.
	ResourceDiscovered = capitan.NewSignal(
		"graft.resource.discovered",
		"Resource entered dispatch",
	)

	// ResourceBound is emitted when a handler binds to a resource.
	ResourceBound = capitan.NewSignal(
		"graft.resource.bound",
		"Handler bound to resource",
	)

	// BindVetoed is emitted when a matching handler declines to bind.
	BindVetoed = capitan.NewSignal(
		"graft.bind.vetoed",
		"Matching handler vetoed, scan continues",
	)

	// ResourceUnbound is emitted after a bound resource's cleanup runs.
	ResourceUnbound = capitan.NewSignal(
		"graft.resource.unbound",
		"Bound resource cleaned up",
	)

	// SubtreeWatched is emitted when AddDescendants begins a stream.
	SubtreeWatched = capitan.NewSignal(
		"graft.subtree.watched",
		"Subtree membership stream started",
	)
)

// Failure signals.
var (
	// LoadFailed is emitted when the Loader fails for a resource.
	LoadFailed = capitan.NewSignal(
		"graft.load.failed",
		"Module loader failed",
	)

	// HandlerFailed is emitted when a bind callback panics.
	HandlerFailed = capitan.NewSignal(
		"graft.handler.failed",
		"Bind callback failed",
	)

	// CleanupFailed is emitted when a cleanup action fails or panics.
	CleanupFailed = capitan.NewSignal(
		"graft.cleanup.failed",
		"Cleanup action failed",
	)
)
