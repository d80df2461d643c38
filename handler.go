package graft

import "regexp"

// HandlerFunc is invoked when a handler's pattern matches a resource path.
// The value argument is whatever the Loader produced for the resource.
//
// The result decides ownership: Cleanup binds the handler to the resource
// and stops the scan, Veto declines despite the match and lets later
// handlers compete, and the zero result (or NoBind) binds with nothing to
// tear down. At most one handler ever binds to a given resource.
type HandlerFunc func(r Resource, value any) BindResult

type bindKind int

const (
	kindNoBind bindKind = iota
	kindVeto
	kindCleanup
)

// BindResult is the outcome of a handler callback. The zero value means
// "matched, bind, nothing to clean up".
type BindResult struct {
	kind    bindKind
	cleanup func() error
}

// NoBind reports that the handler accepts the match with no cleanup
// action. The scan stops; no later handler sees the resource.
func NoBind() BindResult {
	return BindResult{kind: kindNoBind}
}

// Veto reports that the handler declines to bind despite the pattern
// match. The scan continues with the next handler in table order.
func Veto() BindResult {
	return BindResult{kind: kindVeto}
}

// Cleanup binds the handler to the resource and registers fn to run when
// the resource is removed or the Runtime stops. A nil fn is equivalent to
// NoBind.
func Cleanup(fn func() error) BindResult {
	if fn == nil {
		return BindResult{kind: kindNoBind}
	}
	return BindResult{kind: kindCleanup, cleanup: fn}
}

// RemoveFunc undoes a prior registration. It is idempotent: invoking it
// more than once is a no-op.
type RemoveFunc func()

// handler is a single table entry. Identity is pointer identity; two
// entries may share pattern and priority.
type handler struct {
	pattern  *regexp.Regexp
	source   string
	fn       HandlerFunc
	priority *int
}

// handlerTable holds handlers in evaluation order. Entries with a priority
// are kept before any entry of strictly lower priority; ties and
// priority-less entries preserve insertion order.
type handlerTable struct {
	entries []*handler
}

// insert places h according to its priority. Without a priority h is
// appended. With priority p, h lands just before the first existing entry
// whose priority is strictly less than p; priority-less entries never
// satisfy that test, so they are overtaken only by genuinely higher
// priorities behind them.
func (t *handlerTable) insert(h *handler) {
	if h.priority == nil {
		t.entries = append(t.entries, h)
		return
	}
	idx := len(t.entries)
	for i, e := range t.entries {
		if e.priority != nil && *e.priority < *h.priority {
			idx = i
			break
		}
	}
	t.entries = append(t.entries, nil)
	copy(t.entries[idx+1:], t.entries[idx:])
	t.entries[idx] = h
}

// remove deletes h by identity. Returns false if h is not present.
func (t *handlerTable) remove(h *handler) bool {
	for i, e := range t.entries {
		if e == h {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot returns the current evaluation order. Callers must not mutate
// the returned slice's entries.
func (t *handlerTable) snapshot() []*handler {
	out := make([]*handler, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *handlerTable) len() int {
	return len(t.entries)
}
