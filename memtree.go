package graft

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemResource is a resource held by a MemTree.
type MemResource struct {
	path    string
	module  bool
	value   any
	removed chan struct{}
	once    sync.Once
}

// Path returns the resource's full hierarchical path.
func (r *MemResource) Path() string { return r.path }

// Module reports whether the resource was created as a loadable module.
func (r *MemResource) Module() bool { return r.module }

// Removed returns a channel closed when the resource leaves the tree.
func (r *MemResource) Removed() <-chan struct{} { return r.removed }

// Value returns the value the resource was created with.
func (r *MemResource) Value() any { return r.value }

func (r *MemResource) markRemoved() {
	r.once.Do(func() { close(r.removed) })
}

type memSub struct {
	ctx  context.Context
	root string

	mu     sync.Mutex
	closed bool
	ch     chan TreeEvent
}

func (s *memSub) send(ev TreeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ctx.Err() != nil {
		return
	}
	select {
	case s.ch <- ev:
	case <-s.ctx.Done():
	}
}

func (s *memSub) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// MemTree is an in-memory Tree implementation. It backs tests and hosts
// whose resources are not filesystem entries. Paths are dot-separated,
// e.g. "Game.Server.FooService"; a resource is under root when its path
// equals root or extends it by a dot segment.
type MemTree struct {
	mu        sync.Mutex
	resources map[string]*MemResource
	subs      []*memSub
}

// NewMemTree creates an empty tree.
func NewMemTree() *MemTree {
	return &MemTree{resources: make(map[string]*MemResource)}
}

// Create adds a module resource carrying value. An existing resource at
// the same path is replaced (and marked removed).
func (t *MemTree) Create(path string, value any) *MemResource {
	return t.create(path, value, true)
}

// CreateContainer adds a non-module resource. Containers flow through
// discovery but are never matched against handlers.
func (t *MemTree) CreateContainer(path string) *MemResource {
	return t.create(path, nil, false)
}

func (t *MemTree) create(path string, value any, module bool) *MemResource {
	res := &MemResource{
		path:    path,
		module:  module,
		value:   value,
		removed: make(chan struct{}),
	}

	t.mu.Lock()
	old := t.resources[path]
	t.resources[path] = res
	targets := t.targets(path)
	t.mu.Unlock()

	if old != nil {
		old.markRemoved()
	}
	for _, sub := range targets {
		sub.send(TreeEvent{Op: Added, Resource: res})
	}
	return res
}

// Remove deletes the resource at path, closing its Removed channel and
// notifying subscribers. Unknown paths are ignored.
func (t *MemTree) Remove(path string) {
	t.mu.Lock()
	res := t.resources[path]
	delete(t.resources, path)
	targets := t.targets(path)
	t.mu.Unlock()

	if res == nil {
		return
	}
	res.markRemoved()
	for _, sub := range targets {
		sub.send(TreeEvent{Op: Removed, Resource: res})
	}
}

// Loader returns a Loader producing each MemResource's stored value.
func (t *MemTree) Loader() Loader {
	return LoaderFunc(func(r Resource) (any, error) {
		if mr, ok := r.(*MemResource); ok {
			return mr.Value(), nil
		}
		return nil, nil
	})
}

// Descendants emits the current membership under root in path order, then
// incremental changes. The channel is buffered; it is closed when ctx is
// canceled.
func (t *MemTree) Descendants(ctx context.Context, root string) (<-chan TreeEvent, error) {
	t.mu.Lock()
	var initial []*MemResource
	for path, res := range t.resources {
		if underRoot(path, root) {
			initial = append(initial, res)
		}
	}
	sort.Slice(initial, func(i, j int) bool { return initial[i].path < initial[j].path })

	sub := &memSub{
		ctx:  ctx,
		root: root,
		ch:   make(chan TreeEvent, len(initial)+64),
	}
	t.subs = append(t.subs, sub)
	t.mu.Unlock()

	for _, res := range initial {
		sub.send(TreeEvent{Op: Added, Resource: res})
	}

	go func() {
		<-ctx.Done()
		t.mu.Lock()
		for i, s := range t.subs {
			if s == sub {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				break
			}
		}
		t.mu.Unlock()
		sub.close()
	}()

	return sub.ch, nil
}

// targets returns subscribers whose root covers path. Callers hold the
// mutex.
func (t *MemTree) targets(path string) []*memSub {
	var out []*memSub
	for _, sub := range t.subs {
		if underRoot(path, sub.root) {
			out = append(out, sub)
		}
	}
	return out
}

func underRoot(path, root string) bool {
	if root == "" {
		return true
	}
	return path == root || strings.HasPrefix(path, root+".")
}
