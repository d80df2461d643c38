package graft

import (
	"context"
	"sync"
)

// Notice is a one-shot notification that remembers its outcome. It settles
// at most once: resolved when the Runtime starts, or rejected when the
// Runtime stops without ever starting. Subscribers arriving after the
// outcome is settled observe it immediately; nothing is lost.
type Notice struct {
	done chan struct{}

	mu      sync.Mutex
	settled bool
	err     error
}

func newNotice() *Notice {
	return &Notice{done: make(chan struct{})}
}

// Done returns a channel that is closed once the notice settles, with
// either outcome. Check Err after the channel closes.
func (n *Notice) Done() <-chan struct{} {
	return n.done
}

// Err returns the settled outcome: nil if resolved, the rejection error if
// rejected, and nil while the notice is still pending.
func (n *Notice) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err
}

// Wait blocks until the notice settles or ctx is done. It returns nil when
// the notice resolved, the rejection error when it was rejected, or the
// context's error. Wait after settlement returns immediately.
func (n *Notice) Wait(ctx context.Context) error {
	select {
	case <-n.done:
		return n.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// resolve settles the notice successfully. Later calls are no-ops.
func (n *Notice) resolve() {
	n.settle(nil)
}

// reject settles the notice with err. Later calls are no-ops.
func (n *Notice) reject(err error) {
	n.settle(err)
}

func (n *Notice) settle(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.settled {
		return
	}
	n.settled = true
	n.err = err
	close(n.done)
}
