package graft

import "github.com/zoobzio/capitan"

// Field keys for Runtime events.
var (
	// KeyState is the current state of the Runtime.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyPath is the full hierarchical path of a resource.
	KeyPath = capitan.NewStringKey("path")

	// KeyPattern is the pattern of the handler involved.
	KeyPattern = capitan.NewStringKey("pattern")

	// KeyRoot is the root path of a subtree stream.
	KeyRoot = capitan.NewStringKey("root")

	// KeyPriority is the priority of a registered handler.
	KeyPriority = capitan.NewIntKey("priority")

	// KeyHandlers is the number of handlers in the table.
	KeyHandlers = capitan.NewIntKey("handlers")

	// KeyCleanups is the number of cleanup actions flushed by Stop.
	KeyCleanups = capitan.NewIntKey("cleanups")
)
