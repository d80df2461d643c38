package graft

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
)

// Runtime is the module-binding engine. It owns the handler table, a
// DisposerBag of pending cleanups, and the lifecycle state machine.
//
// A Runtime is constructed once, accepts handler registrations while idle
// and resource additions while idle or running, transitions idle→running
// exactly once via Start, and to stopped exactly once via Stop. After Stop
// every mutating call fails with *InvalidStateError.
type Runtime struct {
	tree   Tree
	loader Loader

	bag   *DisposerBag
	start *Notice
	errs  *errorRing

	state atomic.Int32

	mu       sync.Mutex
	table    handlerTable
	syncMode bool
	streams  []*subtreeSub
}

// subtreeSub tracks one AddDescendants stream. The bound map is touched
// only by the stream's single consumer (its goroutine, or Process in sync
// mode).
type subtreeSub struct {
	root  string
	ch    <-chan TreeEvent
	bound map[Resource]RemoveFunc
}

// New creates an idle Runtime.
//
// The tree is only consulted by AddDescendants and may be nil when
// resources are fed via Add directly. The loader produces each module's
// value; a nil loader yields nil values. With WithShutdownHook, the hook
// immediately receives a closure that stops the Runtime, for the host to
// invoke before process exit.
func New(tree Tree, loader Loader, opts ...Option) *Runtime {
	cfg := &config{errCap: DefaultCleanupErrorCapacity}
	for _, opt := range opts {
		opt(cfg)
	}

	r := &Runtime{
		tree:     tree,
		loader:   loader,
		bag:      NewDisposerBag(),
		start:    newNotice(),
		errs:     newErrorRing(cfg.errCap),
		syncMode: cfg.syncMode,
	}
	r.state.Store(int32(StateIdle))

	if cfg.hook != nil {
		cfg.hook(func() { _ = r.Stop(context.Background()) })
	}
	return r
}

// State returns the current lifecycle state.
func (r *Runtime) State() State {
	return State(r.state.Load())
}

// IsRunning reports whether the Runtime is in StateRunning.
func (r *Runtime) IsRunning() bool {
	return r.State() == StateRunning
}

// OnStart returns the one-shot start notification. It resolves when Start
// is called and is rejected with *InvalidStateError when the Runtime is
// stopped without ever starting. Subscribers arriving after settlement
// observe the outcome immediately.
func (r *Runtime) OnStart() *Notice {
	return r.start
}

// CleanupErrors returns the most recent cleanup failures, oldest first.
// Cleanup errors never propagate to callers; this is where they surface.
func (r *Runtime) CleanupErrors() []error {
	return r.errs.all()
}

// Register adds a handler to the table. The pattern is a regular
// expression matched against resource paths as a substring unless
// anchored with ^ or $.
//
// Registration is only allowed while idle; once Start freezes the table,
// Register fails with *InvalidStateError. The returned RemoveFunc removes
// the handler if still present and is idempotent; once the Runtime leaves
// idle the token is a no-op, keeping the frozen table intact.
func (r *Runtime) Register(pattern string, fn HandlerFunc, opts ...RegisterOption) (RemoveFunc, error) {
	cfg := &registerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("graft: invalid pattern %q: %w", pattern, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.State(); s != StateIdle {
		return nil, &InvalidStateError{Op: "register", State: s}
	}

	h := &handler{pattern: re, source: pattern, fn: fn, priority: cfg.priority}
	r.table.insert(h)

	if cfg.priority != nil {
		capitan.Emit(context.Background(), HandlerRegistered,
			KeyPattern.Field(pattern),
			KeyPriority.Field(*cfg.priority),
		)
	} else {
		capitan.Emit(context.Background(), HandlerRegistered,
			KeyPattern.Field(pattern),
		)
	}

	removed := false
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if removed || r.State() != StateIdle {
			return
		}
		if r.table.remove(h) {
			removed = true
			capitan.Emit(context.Background(), HandlerRemoved, KeyPattern.Field(pattern))
		}
	}, nil
}

// Add feeds a single resource through match-and-bind. It fails with
// *InvalidStateError once stopped. The matched handler's callback runs
// inline; a *LoadError or *HandlerError aborts binding for this resource
// only.
//
// When a handler binds with a cleanup, the cleanup is registered in the
// DisposerBag to run on Stop and is also wired to the resource's removal
// so it fires early if the resource disappears first. If Stop completes
// while the handler is still binding, the cleanup runs immediately and
// Add reports *InvalidStateError. The returned
// RemoveFunc runs the cleanup immediately and deregisters it,
// idempotently. It is nil when nothing was bound or no cleanup was
// registered.
func (r *Runtime) Add(ctx context.Context, res Resource) (RemoveFunc, error) {
	if s := r.State(); s == StateStopped {
		return nil, &InvalidStateError{Op: "add", State: s}
	}

	path := res.Path()
	capitan.Emit(ctx, ResourceDiscovered, KeyPath.Field(path))

	cleanup, err := r.resolve(ctx, res)
	if err != nil || cleanup == nil {
		return nil, err
	}

	wrapped := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = &CleanupError{Path: path, Err: fmt.Errorf("panic: %v", p)}
			}
		}()
		if cerr := cleanup(); cerr != nil {
			return &CleanupError{Path: path, Err: cerr}
		}
		capitan.Emit(ctx, ResourceUnbound, KeyPath.Field(path))
		return nil
	}

	tok, ok := r.bag.Add(wrapped)
	if !ok {
		// Stop flushed the bag while the handler was binding. The
		// cleanup still owes exactly one run; do it here, then report
		// the add as rejected.
		if err := runAction(wrapped); err != nil {
			r.errs.push(err)
			capitan.Emit(ctx, CleanupFailed,
				KeyPath.Field(path),
				KeyError.Field(err.Error()),
			)
		}
		return nil, &InvalidStateError{Op: "add", State: StateStopped}
	}
	cancelWatch := r.bag.OnRemoval(res.Removed(), func() {
		r.consume(ctx, tok, path)
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			cancelWatch()
			r.consume(ctx, tok, path)
		})
	}, nil
}

// AddDescendants subscribes to the tree's membership stream rooted at
// root: every resource currently present or later added under root is fed
// to Add. Removals run the per-resource cleanup exactly once. Discovery is
// not frozen by Start; new resources keep binding while running.
//
// Per-resource dispatch failures inside the stream are reported via the
// LoadFailed and HandlerFailed signals and do not stop the stream.
//
// The returned RemoveFunc tears down the subscription only; cleanups
// already registered stay owned by the DisposerBag until Stop or fire on
// their resource's removal.
func (r *Runtime) AddDescendants(ctx context.Context, root string) (RemoveFunc, error) {
	if s := r.State(); s == StateStopped {
		return nil, &InvalidStateError{Op: "add descendants", State: s}
	}
	if r.tree == nil {
		return nil, fmt.Errorf("graft: no tree provider configured")
	}

	subCtx, cancel := context.WithCancel(ctx)
	events, err := r.tree.Descendants(subCtx, root)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("graft: descendants of %q: %w", root, err)
	}

	sub := &subtreeSub{root: root, ch: events, bound: make(map[Resource]RemoveFunc)}

	// The subscription itself lives in the bag so Stop tears it down.
	tok, ok := r.bag.Add(func() error {
		cancel()
		return nil
	})
	if !ok {
		cancel()
		return nil, &InvalidStateError{Op: "add descendants", State: StateStopped}
	}

	capitan.Emit(ctx, SubtreeWatched, KeyRoot.Field(root))

	if r.syncMode {
		r.mu.Lock()
		r.streams = append(r.streams, sub)
		r.mu.Unlock()
	} else {
		go func() {
			for {
				select {
				case <-subCtx.Done():
					return
				case ev, ok := <-events:
					if !ok {
						return
					}
					r.dispatchStreamEvent(subCtx, sub, ev)
				}
			}
		}()
	}

	return func() {
		_ = r.bag.Invoke(tok)
	}, nil
}

// Process drains pending subtree events from all streams opened with
// AddDescendants. Only available with WithSyncDiscovery; used for
// deterministic testing. Returns true if any event was processed.
func (r *Runtime) Process(ctx context.Context) bool {
	if !r.syncMode {
		return false
	}

	r.mu.Lock()
	streams := make([]*subtreeSub, len(r.streams))
	copy(streams, r.streams)
	r.mu.Unlock()

	processed := false
	for _, sub := range streams {
	drain:
		for {
			select {
			case ev, ok := <-sub.ch:
				if !ok {
					break drain
				}
				processed = true
				r.dispatchStreamEvent(ctx, sub, ev)
			default:
				break drain
			}
		}
	}
	return processed
}

// Start transitions idle→running, freezes the handler table, and resolves
// the one-shot start notification. Call at most once; a second call fails
// with *InvalidStateError.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	s := r.State()
	if s != StateIdle {
		r.mu.Unlock()
		return &InvalidStateError{Op: "start", State: s}
	}
	r.transition(ctx, s, StateRunning)
	n := r.table.len()
	r.mu.Unlock()

	r.start.resolve()
	capitan.Emit(ctx, RuntimeStarted, KeyHandlers.Field(n))
	return nil
}

// Stop transitions to stopped and flushes the DisposerBag: every
// registered cleanup runs exactly once, in registration order, and an
// individual failure never blocks the rest (failures surface via
// CleanupErrors and the CleanupFailed signal). Afterwards the Runtime is
// permanently immutable. A second Stop fails with *InvalidStateError and
// never re-runs cleanups. Stopping before Start rejects the start
// notification.
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	s := r.State()
	if s == StateStopped {
		r.mu.Unlock()
		return &InvalidStateError{Op: "stop", State: s}
	}
	r.transition(ctx, s, StateStopped)
	r.streams = nil
	r.mu.Unlock()

	// No-op if Start already resolved the notice.
	r.start.reject(&InvalidStateError{Op: "await start", State: StateStopped})

	n := r.bag.Len()
	for _, err := range r.bag.FlushAll() {
		r.errs.push(err)
		capitan.Emit(ctx, CleanupFailed, KeyError.Field(err.Error()))
	}

	capitan.Emit(ctx, RuntimeStopped, KeyCleanups.Field(n))
	return nil
}

// resolve walks the handler table in order and applies match-and-bind.
// The module value is loaded lazily, once, at the first pattern match.
// Returns the bound cleanup action, or nil when no handler binds or the
// binding carries no cleanup.
func (r *Runtime) resolve(ctx context.Context, res Resource) (func() error, error) {
	if !res.Module() {
		return nil, nil
	}
	path := res.Path()

	r.mu.Lock()
	handlers := r.table.snapshot()
	r.mu.Unlock()

	var value any
	loaded := false
	for _, h := range handlers {
		if !h.pattern.MatchString(path) {
			continue
		}

		if !loaded {
			v, err := r.load(res)
			if err != nil {
				capitan.Emit(ctx, LoadFailed,
					KeyPath.Field(path),
					KeyError.Field(err.Error()),
				)
				return nil, &LoadError{Path: path, Err: err}
			}
			value = v
			loaded = true
		}

		result, err := invokeHandler(h, res, value)
		if err != nil {
			capitan.Emit(ctx, HandlerFailed,
				KeyPath.Field(path),
				KeyPattern.Field(h.source),
				KeyError.Field(err.Error()),
			)
			return nil, err
		}

		switch result.kind {
		case kindVeto:
			capitan.Emit(ctx, BindVetoed,
				KeyPath.Field(path),
				KeyPattern.Field(h.source),
			)
		case kindCleanup:
			capitan.Emit(ctx, ResourceBound,
				KeyPath.Field(path),
				KeyPattern.Field(h.source),
			)
			return result.cleanup, nil
		default:
			capitan.Emit(ctx, ResourceBound,
				KeyPath.Field(path),
				KeyPattern.Field(h.source),
			)
			return nil, nil
		}
	}
	return nil, nil
}

func (r *Runtime) load(res Resource) (any, error) {
	if r.loader == nil {
		return nil, nil
	}
	return r.loader.Load(res)
}

// invokeHandler runs a callback, converting a panic into *HandlerError.
func invokeHandler(h *handler, res Resource, value any) (result BindResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &HandlerError{Path: res.Path(), Pattern: h.source, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	return h.fn(res, value), nil
}

// consume runs a bag token's cleanup and records any failure.
func (r *Runtime) consume(ctx context.Context, tok Token, path string) {
	if err := r.bag.Invoke(tok); err != nil {
		r.errs.push(err)
		capitan.Emit(ctx, CleanupFailed,
			KeyPath.Field(path),
			KeyError.Field(err.Error()),
		)
	}
}

// dispatchStreamEvent handles one membership change from a subtree stream.
func (r *Runtime) dispatchStreamEvent(ctx context.Context, sub *subtreeSub, ev TreeEvent) {
	switch ev.Op {
	case Added:
		rm, err := r.Add(ctx, ev.Resource)
		if err != nil {
			return
		}
		if rm != nil {
			sub.bound[ev.Resource] = rm
		}
	case Removed:
		if rm, ok := sub.bound[ev.Resource]; ok {
			delete(sub.bound, ev.Resource)
			rm()
		}
	}
}

// transition updates the state and emits a state change event if changed.
func (r *Runtime) transition(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	r.state.Store(int32(newState))
	capitan.Emit(ctx, RuntimeStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
}
