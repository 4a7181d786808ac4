// Package watch turns file-system activity in a vault into debounced
// changelog refresh triggers.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ariel-frischer/vaultlog/internal/vault"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last relevant event before a
// trigger fires.
const DefaultDebounce = 200 * time.Millisecond

// DocumentMatcher decides which paths count as vault documents.
type DocumentMatcher interface {
	HasDocumentExtension(name string) bool
	Ignores(rel string, isDir bool) bool
}

// Watcher watches a vault recursively and emits a trigger after each burst of
// relevant changes.
type Watcher struct {
	root        string
	destination string
	excludes    []string
	debounce    time.Duration
	matcher     DocumentMatcher
	logger      *zap.Logger

	fsw      *fsnotify.Watcher
	triggers chan struct{}

	mu     sync.Mutex
	dirs   map[string]struct{}
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithDestination sets the vault-relative changelog path whose events are ignored.
func WithDestination(rel string) Option {
	return func(w *Watcher) {
		w.destination = vault.NormalizeRel(rel)
	}
}

// WithExcludePrefixes drops events under any of the given vault-relative
// prefixes, matching the changelog's exclude_paths.
func WithExcludePrefixes(prefixes []string) Option {
	return func(w *Watcher) {
		w.excludes = w.excludes[:0]
		for _, p := range prefixes {
			if p = strings.TrimSpace(p); p != "" {
				w.excludes = append(w.excludes, p)
			}
		}
	}
}

// WithMatcher sets the document matcher, usually the vault.Scanner in use.
func WithMatcher(m DocumentMatcher) Option {
	return func(w *Watcher) {
		if m != nil {
			w.matcher = m
		}
	}
}

// WithLogger sets the logger for watcher diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Watcher and registers every non-hidden directory under root.
func New(root string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		triggers: make(chan struct{}, 1),
		dirs:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.matcher == nil {
		w.matcher = vault.NewScanner(root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Triggers returns the channel receiving one value per debounced burst.
// Pending triggers coalesce: a slow consumer sees at most one queued value.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggers
}

// Run processes events until ctx is done or the underlying watcher fails.
// Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if w.handle(event) {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			w.fire()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// Events were dropped; refresh to be safe.
				w.logger.Warn("watcher event overflow", zap.Error(err))
				timer.Reset(w.debounce)
				continue
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}

// WatchedDirs returns the number of directories currently registered.
func (w *Watcher) WatchedDirs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

func (w *Watcher) fire() {
	select {
	case w.triggers <- struct{}{}:
		w.logger.Debug("vault changed, trigger queued")
	default:
	}
}

// handle updates watches for the event and reports whether it is relevant.
func (w *Watcher) handle(event fsnotify.Event) bool {
	rel, ok := w.relative(event.Name)
	if !ok {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watching new directory failed", zap.String("path", rel), zap.Error(err))
			}
			return !w.skipped(rel, true) && w.containsDocuments(event.Name)
		}
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if w.forgetDir(event.Name) {
			return !w.skipped(rel, true)
		}
	}

	return w.relevant(rel, event.Op)
}

// relevant reports whether an operation on a vault-relative file path should
// refresh the changelog.
func (w *Watcher) relevant(rel string, op fsnotify.Op) bool {
	if rel == w.destination {
		return false
	}
	if !w.matcher.HasDocumentExtension(rel) || w.skipped(rel, false) {
		return false
	}
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}

// skipped reports whether rel is .gitignored or under an excluded prefix,
// so changes there cannot alter the changelog.
func (w *Watcher) skipped(rel string, isDir bool) bool {
	if w.matcher.Ignores(rel, isDir) {
		return true
	}
	if isDir {
		rel += "/"
	}
	for _, p := range w.excludes {
		if strings.HasPrefix(rel, p) {
			return true
		}
	}
	return false
}

// relative maps an absolute event path to a vault-relative slash path.
// Paths inside hidden directories or outside the vault are rejected.
func (w *Watcher) relative(name string) (string, bool) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if vault.IsHidden(part) {
			return "", false
		}
	}
	return rel, true
}

// addTree registers dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return fmt.Errorf("watching %s: %w", p, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && vault.IsHidden(d.Name()) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		w.mu.Lock()
		w.dirs[p] = struct{}{}
		w.mu.Unlock()
		return nil
	})
}

// forgetDir drops a removed directory and its descendants from the watch set.
// Returns true when name was a watched directory.
func (w *Watcher) forgetDir(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.dirs[name]; !ok {
		return false
	}
	prefix := name + string(filepath.Separator)
	for d := range w.dirs {
		if d == name || strings.HasPrefix(d, prefix) {
			delete(w.dirs, d)
			_ = w.fsw.Remove(d)
		}
	}
	return true
}

func (w *Watcher) containsDocuments(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != dir && vault.IsHidden(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !vault.IsHidden(d.Name()) && w.matcher.HasDocumentExtension(d.Name()) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}
