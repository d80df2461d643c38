package graft

import "context"

// Resource is a discovered unit within a tree. Implementations are supplied
// by a Tree provider; the Runtime never creates resources itself.
type Resource interface {
	// Path returns the stable full hierarchical path of the resource,
	// for example "Game.Server.FooService". Handler patterns match
	// against this string.
	Path() string

	// Module reports whether the resource is a loadable module. The
	// Runtime only attempts to bind handlers to module resources.
	Module() bool

	// Removed returns a channel that is closed when the resource is
	// removed from its tree. A nil channel means the resource is never
	// removed.
	Removed() <-chan struct{}
}

// Op identifies the kind of membership change a TreeEvent describes.
type Op int

const (
	// Added indicates a resource is present under the watched root,
	// either in the initial snapshot or added later.
	Added Op = iota

	// Removed indicates a previously reported resource left the tree.
	Removed
)

// String returns the string representation of the op.
func (o Op) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// TreeEvent is a single subtree membership change.
type TreeEvent struct {
	Op       Op
	Resource Resource
}

// Tree supplies subtree membership streams to the Runtime. Implementations
// must emit the current membership under root immediately upon Descendants
// being called, then incremental changes. The channel is closed when the
// context is canceled or the source goes away.
type Tree interface {
	Descendants(ctx context.Context, root string) (<-chan TreeEvent, error)
}
