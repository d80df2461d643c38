// Package graft provides a dynamic module-binding runtime.
//
// The core type is Runtime, which discovers resources as they appear in a
// tree, matches each against an ordered list of pattern handlers, invokes
// at most one matching handler per resource, and tracks the cleanup action
// that handler registers so it runs when the resource disappears or the
// runtime shuts down.
//
// # Binding
//
// Handlers compete for each resource in priority order:
//
//	Discover → Path → Load → Match → Bind → Cleanup
//
// The first handler, in table order, whose pattern matches the resource
// path and whose callback does not veto, binds. A Veto result continues
// the scan with the next handler even though the pattern matched; this
// lets a specific handler defer to a more general one while guaranteeing
// that exactly one handler owns any given resource.
//
// # Lifecycle
//
// Runtime maintains one of three states:
//
//   - Idle: constructed, handlers may be registered
//   - Running: Start called, handler table frozen, discovery continues
//   - Stopped: Stop called, all cleanups flushed, permanently immutable
//
// Start fires a one-shot notification (OnStart) that downstream code can
// await to defer work until registration is complete. The notification
// remembers its outcome: subscribers arriving after Start observe it
// immediately, and stopping a never-started runtime rejects it.
//
// # Trees
//
// The Tree interface abstracts resource providers. The core package
// provides MemTree for in-memory trees and testing, and FileTree, which
// exposes a directory of module manifests via fsnotify.
//
// # Example
//
//	rt := graft.New(tree, tree.Loader())
//
//	rt.Register("Service$", func(r graft.Resource, v any) graft.BindResult {
//	    svc := startService(r.Path(), v)
//	    return graft.Cleanup(svc.Close)
//	}, graft.WithPriority(10))
//
//	rt.AddDescendants(ctx, "Game.Server")
//	rt.Start(ctx)
//	defer rt.Stop(ctx)
package graft
