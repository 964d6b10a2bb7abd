// Package watch re-runs a handler for packaged archives as they appear or
// change on disk.
//
// Directories are watched recursively with fsnotify. Events for a given
// archive are debounced so a file that is written in several chunks is
// handled once, after it settles. Handlers for archives that share a key
// (by default the archive path) never run concurrently; a change that
// arrives while a handler for its key is running schedules one more run,
// for the most recently changed archive, after it finishes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/logger"
)

const defaultDebounce = 300 * time.Millisecond

var defaultIgnores = []string{
	"**/.git/**",
	"**/.gradle/**",
	"**/.idea/**",
	"**/.*",
}

// Handler is invoked with the absolute path of an archive that settled.
type Handler func(ctx context.Context, input aarpath.ArchivePath) error

// KeyFunc maps an archive to the resource its handler writes. Handlers for
// archives with equal keys never run concurrently.
type KeyFunc func(input aarpath.ArchivePath) string

// Config holds the parameters for a Watcher.
type Config struct {
	// Dirs are the directories to watch recursively. Empty means the
	// current working directory.
	Dirs []string

	// Ignore are doublestar patterns, relative to each watched directory,
	// merged with the built-in ignores. Matching directories are not
	// descended into.
	Ignore []string

	// Debounce is the quiet period per archive before Handler runs. Zero or
	// negative values use the default.
	Debounce time.Duration

	Handler Handler

	// Key groups archives whose handlers must not overlap. Nil keys by path.
	Key KeyFunc

	Logger *slog.Logger
}

// Watcher watches directories for packaged archives. Run must be called
// exactly once.
type Watcher struct {
	fsw      *fsnotify.Watcher
	roots    []string
	ignores  []string
	debounce time.Duration
	handler  Handler
	key      KeyFunc
	log      *slog.Logger
	started  atomic.Bool
}

// New validates cfg and registers every non-ignored directory with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if cfg.Handler == nil {
		return nil, fmt.Errorf("watch: handler is required")
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
		ignores = append(ignores, pat)
	}

	dirs := cfg.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	roots := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, absErr := filepath.Abs(d)
		if absErr != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", d, absErr)
		}
		info, statErr := os.Stat(abs)
		if statErr != nil {
			return nil, fmt.Errorf("watch: %w", statErr)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("watch: %s is not a directory", abs)
		}
		roots = append(roots, abs)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	fsw, fswErr := fsnotify.NewWatcher()
	if fswErr != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", fswErr)
	}

	w := &Watcher{
		fsw:      fsw,
		roots:    roots,
		ignores:  ignores,
		debounce: debounce,
		handler:  cfg.Handler,
		key:      cfg.Key,
		log:      log.With("component", "watch"),
	}
	for _, root := range roots {
		if addErr := w.addTree(root); addErr != nil {
			_ = fsw.Close()
			return nil, addErr
		}
	}
	return w, nil
}

// Roots returns the absolute directories being watched.
func (w *Watcher) Roots() []string {
	out := make([]string, len(w.roots))
	copy(out, w.roots)
	return out
}

// Run processes events until ctx is cancelled. It returns nil on
// cancellation and an error if the underlying watcher breaks. Before
// returning it stops the debounce timer, waits for running handlers and
// closes the fsnotify watcher.
//
// Debouncing and dispatch happen on the calling goroutine; the only
// goroutines Run starts are handler runs.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	var (
		deadlines = make(map[string]time.Time)
		timer     = time.NewTimer(w.debounce)
		timerC    <-chan time.Time
		finished  = make(chan string)
		running   = make(map[string]bool)
		queued    = make(map[string]string)
		handlers  sync.WaitGroup
	)
	timer.Stop()

	defer func() {
		timer.Stop()
		cancel()
		close(done)
		handlers.Wait()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.log.Warn("close fsnotify watcher", "error", closeErr)
		}
	}()

	rearm := func() {
		timerC = nil
		var next time.Time
		for _, d := range deadlines {
			if next.IsZero() || d.Before(next) {
				next = d
			}
		}
		if next.IsZero() {
			timer.Stop()
			return
		}
		timer.Reset(time.Until(next))
		timerC = timer.C
	}

	launch := func(key, path string) {
		running[key] = true
		handlers.Add(1)
		go func() {
			defer handlers.Done()
			w.handle(ctx, path)
			select {
			case finished <- key:
			case <-done:
			}
		}()
	}

	dispatch := func(path string) {
		key := w.keyFor(path)
		if running[key] {
			queued[key] = path
			return
		}
		launch(key, path)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-timerC:
			for path, d := range deadlines {
				if !d.After(now) {
					delete(deadlines, path)
					dispatch(path)
				}
			}
			rearm()

		case key := <-finished:
			delete(running, key)
			if path, ok := queued[key]; ok {
				delete(queued, key)
				launch(key, path)
			}

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if path, relevant := w.accept(evt); relevant {
				deadlines[path] = time.Now().Add(w.debounce)
				rearm()
			}

		case watchErr, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalWatchError(watchErr) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", watchErr)
			}
			w.log.Warn("fsnotify error", "error", watchErr)
		}
	}
}

// keyFor returns the serialization key for path.
func (w *Watcher) keyFor(path string) string {
	if w.key == nil {
		return path
	}
	input, pathErr := aarpath.NewArchivePath(path)
	if pathErr != nil {
		return path
	}
	return w.key(input)
}

// accept filters an event down to an archive path worth handling. Newly
// created directories are added to the watch as a side effect.
func (w *Watcher) accept(evt fsnotify.Event) (string, bool) {
	if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) {
		return "", false
	}
	if w.isIgnored(evt.Name) {
		return "", false
	}

	if evt.Has(fsnotify.Create) {
		if info, statErr := os.Stat(evt.Name); statErr == nil && info.IsDir() {
			if addErr := w.addTree(evt.Name); addErr != nil {
				w.log.Warn("watch new directory", "path", evt.Name, "error", addErr)
			}
			return "", false
		}
	}

	if !strings.EqualFold(filepath.Ext(evt.Name), aarpath.AarExtension) {
		return "", false
	}
	return evt.Name, true
}

func (w *Watcher) handle(ctx context.Context, path string) {
	input, pathErr := aarpath.NewArchivePath(path)
	if pathErr != nil {
		w.log.Warn("skip archive", "path", path, "error", pathErr)
		return
	}
	if _, statErr := os.Stat(path); statErr != nil {
		w.log.Debug("archive vanished before handling", "path", path)
		return
	}

	w.log.Info("archive changed", "path", path)
	if handleErr := w.handler(ctx, input); handleErr != nil {
		w.log.Error("handle archive", "path", path, "error", handleErr)
	}
}

func (w *Watcher) addTree(root string) error {
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.log.Warn("skip inaccessible path", "path", path, "error", walkDirErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.isIgnored(path) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk %s: %w", root, walkErr)
	}
	return nil
}

// isIgnored matches path against the ignore patterns relative to the root
// that contains it.
func (w *Watcher) isIgnored(path string) bool {
	for _, root := range w.roots {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		if matchesAny(w.ignores, filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, matchErr := doublestar.Match(pat, rel); matchErr == nil && matched {
			return true
		}
		if matched, matchErr := doublestar.Match(pat, rel+"/"); matchErr == nil && matched {
			return true
		}
	}
	return false
}
