// Package spool downloads request files dropped into a directory.
package spool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/savage13/fern/pkg/log"
)

// Suffix marks files the watcher picks up.
const Suffix = ".request"

// DefaultDebounce is how long a file must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one request file.
type Handler interface {
	Handle(ctx context.Context, path string) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, path string) error

// Handle calls f(ctx, path).
func (f HandlerFunc) Handle(ctx context.Context, path string) error { return f(ctx, path) }

// Watcher hands every *.request file in a directory to a Handler, one at a
// time, once writes to it have settled.
type Watcher struct {
	dir     string
	delay   time.Duration
	handler Handler
	logger  log.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	ready  chan string
}

// NewWatcher creates a watcher for dir. A non-positive delay uses DefaultDebounce.
func NewWatcher(dir string, delay time.Duration, handler Handler, logger log.Logger) *Watcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Watcher{
		dir:     dir,
		delay:   delay,
		handler: handler,
		logger:  log.OrNoop(logger),
		timers:  make(map[string]*time.Timer),
		ready:   make(chan string, 16),
	}
}

// Run handles existing request files, then watches for new or rewritten
// ones until ctx is canceled. Handler errors are logged and do not stop
// the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	defer w.stopTimers()

	existing, err := w.existing()
	if err != nil {
		return err
	}
	for _, path := range existing {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.handle(ctx, path)
	}

	w.logger.Info("watching for request files", log.String("dir", w.dir))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRequestFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounce(ctx, event.Name)

		case path := <-w.ready:
			w.handle(ctx, path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	w.logger.Info("processing request file", log.String("path", path))
	if err := w.handler.Handle(ctx, path); err != nil {
		w.logger.Error("request file failed", log.String("path", path), log.Err(err))
	}
}

// debounce restarts the quiet period for path.
func (w *Watcher) debounce(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case w.ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// existing lists request files already in the directory, sorted by name.
func (w *Watcher) existing() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", w.dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isRequestFile(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(w.dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func isRequestFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, Suffix) && !strings.HasPrefix(name, ".")
}
