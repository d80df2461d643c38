package graft

import "testing"

func TestRuntimeStarted(t *testing.T) {
	if RuntimeStarted.Name() != "graft.runtime.started" {
		t.Errorf("expected name 'graft.runtime.started', got %q", RuntimeStarted.Name())
	}
}

func TestRuntimeStopped(t *testing.T) {
	if RuntimeStopped.Name() != "graft.runtime.stopped" {
		t.Errorf("expected name 'graft.runtime.stopped', got %q", RuntimeStopped.Name())
	}
}

func TestRuntimeStateChanged(t *testing.T) {
	if RuntimeStateChanged.Name() != "graft.runtime.state.changed" {
		t.Errorf("expected name 'graft.runtime.state.changed', got %q", RuntimeStateChanged.Name())
	}
}

func TestHandlerRegistered(t *testing.T) {
	if HandlerRegistered.Name() != "graft.handler.registered" {
		t.Errorf("expected name 'graft.handler.registered', got %q", HandlerRegistered.Name())
	}
}

func TestHandlerRemoved(t *testing.T) {
	if HandlerRemoved.Name() != "graft.handler.removed" {
		t.Errorf("expected name 'graft.handler.removed', got %q", HandlerRemoved.Name())
	}
}

func TestResourceDiscovered(t *testing.T) {
	if ResourceDiscovered.Name() != "graft.resource.discovered" {
		t.Errorf("expected name 'graft.resource.discovered', got %q", ResourceDiscovered.Name())
	}
}

func TestResourceBound(t *testing.T) {
	if ResourceBound.Name() != "graft.resource.bound" {
		t.Errorf("expected name 'graft.resource.bound', got %q", ResourceBound.Name())
	}
}

func TestBindVetoed(t *testing.T) {
	if BindVetoed.Name() != "graft.bind.vetoed" {
		t.Errorf("expected name 'graft.bind.vetoed', got %q", BindVetoed.Name())
	}
}

func TestResourceUnbound(t *testing.T) {
	if ResourceUnbound.Name() != "graft.resource.unbound" {
		t.Errorf("expected name 'graft.resource.unbound', got %q", ResourceUnbound.Name())
	}
}

func TestSubtreeWatched(t *testing.T) {
	if SubtreeWatched.Name() != "graft.subtree.watched" {
		t.Errorf("expected name 'graft.subtree.watched', got %q", SubtreeWatched.Name())
	}
}

func TestLoadFailed(t *testing.T) {
	if LoadFailed.Name() != "graft.load.failed" {
		t.Errorf("expected name 'graft.load.failed', got %q", LoadFailed.Name())
	}
}

func TestHandlerFailed(t *testing.T) {
	if HandlerFailed.Name() != "graft.handler.failed" {
		t.Errorf("expected name 'graft.handler.failed', got %q", HandlerFailed.Name())
	}
}

func TestCleanupFailed(t *testing.T) {
	if CleanupFailed.Name() != "graft.cleanup.failed" {
		t.Errorf("expected name 'graft.cleanup.failed', got %q", CleanupFailed.Name())
	}
}
