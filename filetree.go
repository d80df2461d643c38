package graft

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zoobzio/clockz"
)

// DefaultSettle is the default window for coalescing filesystem events.
const DefaultSettle = 100 * time.Millisecond

// FileTree exposes a directory as a resource tree. Every regular file is a
// resource; its tree path is the path relative to the watched directory
// with the extension stripped and separators replaced by dots, so
// "server/foo_service.yaml" becomes "server.foo_service". Files with a
// module extension (.yaml and .yml by default) are loadable modules.
//
// Filesystem events arrive in bursts; FileTree coalesces them within a
// settle window before emitting tree events.
type FileTree struct {
	dir    string
	clock  clockz.Clock
	settle time.Duration
	exts   map[string]struct{}
}

// FileTreeOption configures a FileTree.
type FileTreeOption func(*FileTree)

// WithClock sets a custom clock for the settle window. Use this with
// clockz.FakeClock for deterministic tests.
func WithClock(clock clockz.Clock) FileTreeOption {
	return func(t *FileTree) {
		t.clock = clock
	}
}

// WithSettle sets the window for coalescing filesystem events.
func WithSettle(d time.Duration) FileTreeOption {
	return func(t *FileTree) {
		t.settle = d
	}
}

// WithModuleExtensions sets which file extensions mark a loadable module.
// Extensions include the leading dot.
func WithModuleExtensions(exts ...string) FileTreeOption {
	return func(t *FileTree) {
		t.exts = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			t.exts[e] = struct{}{}
		}
	}
}

// NewFileTree creates a FileTree rooted at dir.
func NewFileTree(dir string, opts ...FileTreeOption) *FileTree {
	t := &FileTree{
		dir:    dir,
		clock:  clockz.RealClock,
		settle: DefaultSettle,
		exts:   map[string]struct{}{".yaml": {}, ".yml": {}},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// fileResource is a single file under a FileTree.
type fileResource struct {
	treePath string
	fsPath   string
	module   bool
	removed  chan struct{}
	once     sync.Once
}

// Path returns the dot-separated tree path of the file.
func (r *fileResource) Path() string { return r.treePath }

// Module reports whether the file carries a module extension.
func (r *fileResource) Module() bool { return r.module }

// Removed returns a channel closed when the file is deleted or renamed.
func (r *fileResource) Removed() <-chan struct{} { return r.removed }

// Bytes returns the current file contents. Loaders use this to decode the
// module's value.
func (r *fileResource) Bytes() ([]byte, error) {
	return os.ReadFile(r.fsPath)
}

func (r *fileResource) markRemoved() {
	r.once.Do(func() { close(r.removed) })
}

// treePath maps a filesystem path to its tree path.
func (t *FileTree) treePath(fsPath string) (string, bool) {
	rel, err := filepath.Rel(t.dir, fsPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(rel, "/", "."), true
}

func (t *FileTree) newResource(fsPath, root string) *fileResource {
	tp, ok := t.treePath(fsPath)
	if !ok || !underRoot(tp, root) {
		return nil
	}
	_, module := t.exts[filepath.Ext(fsPath)]
	return &fileResource{
		treePath: tp,
		fsPath:   fsPath,
		module:   module,
		removed:  make(chan struct{}),
	}
}

// Descendants begins watching the directory and returns a channel that
// emits the current files under root first, then incremental changes.
// The channel is closed when ctx is canceled.
func (t *FileTree) Descendants(ctx context.Context, root string) (<-chan TreeEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	var files []string
	err = filepath.WalkDir(t.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to walk %s: %w", t.dir, err)
	}
	sort.Strings(files)

	out := make(chan TreeEvent)
	go t.watch(ctx, watcher, root, files, out)
	return out, nil
}

// watch drives one Descendants stream: initial snapshot, then fsnotify
// events coalesced within the settle window.
func (t *FileTree) watch(ctx context.Context, watcher *fsnotify.Watcher, root string, initial []string, out chan<- TreeEvent) {
	defer close(out)
	defer watcher.Close()

	live := make(map[string]*fileResource)

	emit := func(ev TreeEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for _, p := range initial {
		res := t.newResource(p, root)
		if res == nil {
			continue
		}
		live[p] = res
		if !emit(TreeEvent{Op: Added, Resource: res}) {
			return
		}
	}

	var (
		timer   clockz.Timer
		pending = make(map[string]Op)
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				return
			}

			switch {
			case event.Op&fsnotify.Create != 0:
				if fi, statErr := os.Stat(event.Name); statErr == nil && fi.IsDir() {
					// New directory: watch it and pick up its contents.
					_ = filepath.WalkDir(event.Name, func(p string, d fs.DirEntry, walkErr error) error {
						if walkErr != nil {
							return nil
						}
						if d.IsDir() {
							_ = watcher.Add(p)
							return nil
						}
						pending[p] = Added
						return nil
					})
				} else {
					pending[event.Name] = Added
				}
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				pending[event.Name] = Removed
			default:
				continue
			}

			if timer == nil {
				timer = t.clock.NewTimer(t.settle)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(t.settle)
			}

		case <-timerC:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)

			for _, p := range paths {
				switch pending[p] {
				case Added:
					if _, seen := live[p]; seen {
						continue
					}
					res := t.newResource(p, root)
					if res == nil {
						continue
					}
					live[p] = res
					if !emit(TreeEvent{Op: Added, Resource: res}) {
						return
					}
				case Removed:
					res, seen := live[p]
					if !seen {
						continue
					}
					delete(live, p)
					res.markRemoved()
					if !emit(TreeEvent{Op: Removed, Resource: res}) {
						return
					}
				}
			}
			pending = make(map[string]Op)

		case _, ok := <-watcher.Errors:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				return
			}
			// Continue watching despite errors.
		}
	}
}
