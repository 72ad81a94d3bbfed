// Package filesystem reads podcast transcripts from a local directory.
//
// Two layouts are recognised under the root directory:
//
//	<root>/<slug>/transcript.md   episode folders
//	<root>/<slug>.txt             single files (.txt or .md)
//
// When both exist for the same slug the episode folder wins. Hidden files
// and directories are ignored.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
	"github.com/custodia-labs/podchunk/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.WatchableSource = (*Connector)(nil)

const (
	// Type is the source type identifier.
	Type = "filesystem"

	// EpisodeFile is the transcript name inside an episode folder.
	EpisodeFile = "transcript.md"

	// DefaultDebounce is how long Watch waits for writes to settle.
	DefaultDebounce = 250 * time.Millisecond
)

// transcriptExts are the single-file extensions, in lookup order.
var transcriptExts = []string{".txt", ".md"}

// Connector reads transcripts from a directory tree.
type Connector struct {
	rootPath string
	debounce time.Duration

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// Option configures a Connector.
type Option func(*Connector)

// WithDebounce sets the quiet period Watch waits before emitting changes.
func WithDebounce(d time.Duration) Option {
	return func(c *Connector) { c.debounce = d }
}

// New creates a connector rooted at rootPath.
func New(rootPath string, opts ...Option) *Connector {
	c := &Connector{
		rootPath: rootPath,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns the source type identifier.
func (c *Connector) Type() string {
	return Type
}

// Root returns the root directory.
func (c *Connector) Root() string {
	return c.rootPath
}

// Validate checks the root path exists and is a directory.
func (c *Connector) Validate(_ context.Context) error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}
	return nil
}

// List returns every transcript slug, sorted.
func (c *Connector) List(ctx context.Context) ([]string, error) {
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}

	seen := make(map[string]struct{})
	for _, entry := range entries {
		name := entry.Name()
		if isHidden(name) {
			continue
		}

		if entry.IsDir() {
			if fileExists(filepath.Join(c.rootPath, name, EpisodeFile)) {
				seen[name] = struct{}{}
			}
			continue
		}

		if slug, ok := fileSlug(name); ok {
			seen[slug] = struct{}{}
		}
	}

	slugs := make([]string, 0, len(seen))
	for slug := range seen {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Read returns the raw transcript for a slug.
func (c *Connector) Read(_ context.Context, slug string) (*domain.RawTranscript, error) {
	if !validSlug(slug) {
		return nil, fmt.Errorf("%w: invalid slug %q", domain.ErrInvalidInput, slug)
	}

	path, ok := c.resolve(slug)
	if !ok {
		return nil, fmt.Errorf("transcript %s: %w", slug, domain.ErrNotFound)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &domain.RawTranscript{
		Slug:    slug,
		URI:     path,
		Content: content,
	}, nil
}

// resolve finds the file holding a slug's transcript. Episode folders win
// over single files; single files match extensions the way List does.
func (c *Connector) resolve(slug string) (string, bool) {
	if path := filepath.Join(c.rootPath, slug, EpisodeFile); c.within(path) && fileExists(path) {
		return path, true
	}

	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		return "", false
	}
	for _, ext := range transcriptExts {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ext) {
				continue
			}
			if stem, ok := fileSlug(name); ok && stem == slug {
				path := filepath.Join(c.rootPath, name)
				if c.within(path) && fileExists(path) {
					return path, true
				}
			}
		}
	}
	return "", false
}

// within reports whether path stays inside the root directory.
func (c *Connector) within(path string) bool {
	rel, err := filepath.Rel(c.rootPath, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Watch emits a change for every transcript written or removed under the
// root. Bursts of events for the same slug are merged until the debounce
// period passes without new events. The channel is closed when ctx is
// cancelled or the connector is closed.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.TranscriptChange, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.New("connector is closed")
	}
	c.mu.Unlock()

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := c.addWatches(watcher); err != nil {
		watcher.Close()
		return nil, err
	}

	c.mu.Lock()
	c.watchers = append(c.watchers, watcher)
	c.mu.Unlock()

	changes := make(chan domain.TranscriptChange)
	go c.watchLoop(ctx, watcher, changes)
	return changes, nil
}

// addWatches watches the root and every visible episode folder.
func (c *Connector) addWatches(watcher *fsnotify.Watcher) error {
	if err := watcher.Add(c.rootPath); err != nil {
		return fmt.Errorf("watch %s: %w", c.rootPath, err)
	}

	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		return fmt.Errorf("read root: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() && !isHidden(entry.Name()) {
			dir := filepath.Join(c.rootPath, entry.Name())
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}
	}
	return nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- domain.TranscriptChange) {
	defer close(out)
	defer c.removeWatcher(watcher)

	pending := make(map[string]domain.TranscriptChange)
	timer := time.NewTimer(c.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			c.trackNewFolder(watcher, event)
			if change := c.handleFsEvent(event); change != nil {
				pending[change.Slug] = *change
				timer.Reset(c.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watch error: %v", err)

		case <-timer.C:
			for _, change := range sortedChanges(pending) {
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
			pending = make(map[string]domain.TranscriptChange)
		}
	}
}

// trackNewFolder starts watching an episode folder created after Watch began.
func (c *Connector) trackNewFolder(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) || filepath.Dir(event.Name) != filepath.Clean(c.rootPath) {
		return
	}
	if isHidden(filepath.Base(event.Name)) {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if err := watcher.Add(event.Name); err != nil {
			logger.Warn("Cannot watch %s: %v", event.Name, err)
		}
	}
}

// handleFsEvent maps a filesystem event to a transcript change, or nil when
// the event does not concern a transcript.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.TranscriptChange {
	rel, err := filepath.Rel(c.rootPath, event.Name)
	if err != nil || isHidden(rel) {
		return nil
	}

	slug, ok := slugForPath(rel)
	if !ok {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.TranscriptChange{Slug: slug, URI: event.Name, Removed: true}

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if !fileExists(event.Name) {
			return nil
		}
		return &domain.TranscriptChange{Slug: slug, URI: event.Name}
	}

	return nil
}

// Close stops every active watch.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	var errs []error
	for _, w := range c.watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.watchers = nil
	return errors.Join(errs...)
}

func (c *Connector) removeWatcher(watcher *fsnotify.Watcher) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, w := range c.watchers {
		if w == watcher {
			c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
			watcher.Close()
			return
		}
	}
}

// slugForPath derives the slug from a path relative to the root.
func slugForPath(rel string) (string, bool) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	switch len(parts) {
	case 1:
		return fileSlug(parts[0])
	case 2:
		if parts[1] == EpisodeFile {
			return parts[0], true
		}
	}
	return "", false
}

// fileSlug returns the stem of a single-file transcript name.
func fileSlug(name string) (string, bool) {
	ext := filepath.Ext(name)
	for _, known := range transcriptExts {
		if strings.EqualFold(ext, known) {
			slug := strings.TrimSuffix(name, ext)
			return slug, slug != ""
		}
	}
	return "", false
}

func sortedChanges(pending map[string]domain.TranscriptChange) []domain.TranscriptChange {
	out := make([]domain.TranscriptChange, 0, len(pending))
	for _, change := range pending {
		out = append(out, change)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
// validSlug rejects empty, relative, hidden and multi-segment slugs.
func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.HasPrefix(slug, ".") && !strings.ContainsAny(slug, `/\`)
}

func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
