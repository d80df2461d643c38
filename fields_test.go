package graft

import "testing"

func TestKeyState(t *testing.T) {
	field := KeyState.Field("running")
	if field.Key().Name() != "state" {
		t.Errorf("expected key 'state', got %q", field.Key().Name())
	}
}

func TestKeyOldState(t *testing.T) {
	field := KeyOldState.Field("idle")
	if field.Key().Name() != "old_state" {
		t.Errorf("expected key 'old_state', got %q", field.Key().Name())
	}
}

func TestKeyNewState(t *testing.T) {
	field := KeyNewState.Field("running")
	if field.Key().Name() != "new_state" {
		t.Errorf("expected key 'new_state', got %q", field.Key().Name())
	}
}

func TestKeyError(t *testing.T) {
	field := KeyError.Field("something went wrong")
	if field.Key().Name() != "error" {
		t.Errorf("expected key 'error', got %q", field.Key().Name())
	}
}

func TestKeyPath(t *testing.T) {
	field := KeyPath.Field("Game.Server.FooService")
	if field.Key().Name() != "path" {
		t.Errorf("expected key 'path', got %q", field.Key().Name())
	}
}

func TestKeyPattern(t *testing.T) {
	field := KeyPattern.Field("Service$")
	if field.Key().Name() != "pattern" {
		t.Errorf("expected key 'pattern', got %q", field.Key().Name())
	}
}

func TestKeyRoot(t *testing.T) {
	field := KeyRoot.Field("Game.Server")
	if field.Key().Name() != "root" {
		t.Errorf("expected key 'root', got %q", field.Key().Name())
	}
}

func TestKeyPriority(t *testing.T) {
	field := KeyPriority.Field(10)
	if field.Key().Name() != "priority" {
		t.Errorf("expected key 'priority', got %q", field.Key().Name())
	}
}

func TestKeyHandlers(t *testing.T) {
	field := KeyHandlers.Field(3)
	if field.Key().Name() != "handlers" {
		t.Errorf("expected key 'handlers', got %q", field.Key().Name())
	}
}

func TestKeyCleanups(t *testing.T) {
	field := KeyCleanups.Field(2)
	if field.Key().Name() != "cleanups" {
		t.Errorf("expected key 'cleanups', got %q", field.Key().Name())
	}
}
