package graft

import (
	"fmt"
	"sync"
)

// Token identifies an action registered in a DisposerBag. The zero Token
// is valid and refers to nothing.
type Token struct {
	e *bagEntry
}

type bagEntry struct {
	action func() error
	// spent marks the action as either run or deregistered. Guarded by
	// the bag mutex; guarantees each action runs at most once even when
	// removal events race Stop.
	spent bool
}

type bagSub struct {
	stop chan struct{}
	once sync.Once
}

func (s *bagSub) cancel() {
	s.once.Do(func() { close(s.stop) })
}

// DisposerBag collects cleanup actions and event subscriptions and flushes
// all of them exactly once. A Runtime owns one bag exclusively and is the
// only caller of FlushAll; actions may also fire early, individually, when
// the resource they belong to is removed.
type DisposerBag struct {
	mu      sync.Mutex
	entries []*bagEntry
	subs    []*bagSub
	flushed bool
}

// NewDisposerBag creates an empty bag.
func NewDisposerBag() *DisposerBag {
	return &DisposerBag{}
}

// Add registers an action to run on flush. Actions run in registration
// order. Adding to a flushed bag returns the zero Token and false; the
// action is never run and ownership stays with the caller.
func (b *DisposerBag) Add(action func() error) (Token, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.flushed {
		return Token{}, false
	}
	e := &bagEntry{action: action}
	b.entries = append(b.entries, e)
	return Token{e: e}, true
}

// Remove deregisters the action without running it. Idempotent.
func (b *DisposerBag) Remove(tok Token) {
	if tok.e == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	tok.e.spent = true
}

// Invoke runs the action now and deregisters it. Invoking a token whose
// action already ran, or was removed, is a no-op returning nil.
func (b *DisposerBag) Invoke(tok Token) error {
	if tok.e == nil {
		return nil
	}
	b.mu.Lock()
	if tok.e.spent {
		b.mu.Unlock()
		return nil
	}
	tok.e.spent = true
	b.mu.Unlock()
	return runAction(tok.e.action)
}

// OnRemoval invokes fn when the removed channel closes. The returned
// cancel tears down the subscription without invoking fn; cancel is
// idempotent. All live subscriptions are canceled by FlushAll. A nil
// removed channel never fires.
func (b *DisposerBag) OnRemoval(removed <-chan struct{}, fn func()) (cancel func()) {
	sub := &bagSub{stop: make(chan struct{})}
	b.mu.Lock()
	if b.flushed {
		b.mu.Unlock()
		return func() {}
	}
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	go func() {
		select {
		case <-sub.stop:
		case <-removed:
			fn()
		}
	}()
	return sub.cancel
}

// FlushAll cancels every subscription, then runs every still-registered
// action in registration order, each at most once. A failing or panicking
// action never blocks the rest; all failures are returned. Flushing twice
// is a no-op.
func (b *DisposerBag) FlushAll() []error {
	b.mu.Lock()
	if b.flushed {
		b.mu.Unlock()
		return nil
	}
	b.flushed = true
	subs := b.subs
	b.subs = nil
	var pending []*bagEntry
	for _, e := range b.entries {
		if !e.spent {
			e.spent = true
			pending = append(pending, e)
		}
	}
	b.entries = nil
	b.mu.Unlock()

	for _, s := range subs {
		s.cancel()
	}

	var errs []error
	for _, e := range pending {
		if err := runAction(e.action); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Len returns the number of registered, not-yet-spent actions.
func (b *DisposerBag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.entries {
		if !e.spent {
			n++
		}
	}
	return n
}

// runAction runs fn, converting a panic into an error.
func runAction(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cleanup panicked: %v", p)
		}
	}()
	return fn()
}
