package store

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

	"github.com/fsnotify/fsnotify"
)

// ErrWatchUnsupported is returned by Watch when the byte store has no
// directory to observe.
var ErrWatchUnsupported = errors.New("store: byte store cannot be watched")

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventMonthChanged indicates the record of the month in Event.Key
	// changed on disk.
	EventMonthChanged EventType = iota
	// EventPresetsChanged indicates the preset list changed.
	EventPresetsChanged
	// EventSettingsChanged indicates the settings changed.
	EventSettingsChanged
	// EventInvalidated signals a change that could not be classified.
	// Callers should refresh their full view.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventMonthChanged:
		return "month"
	case EventPresetsChanged:
		return "presets"
	case EventSettingsChanged:
		return "settings"
	default:
		return "invalidated"
	}
}

// Event is emitted by Persistence.Watch when underlying storage changes. Key
// is the year-month of a month event and empty otherwise.
type Event struct {
	Type EventType
	Key  string
}

type watchable interface {
	Dir() string
}

// Watch streams change events until ctx is cancelled. Every event first
// drops the affected records from the cache, so a consumer reading after an
// event sees the new data. Callers should drain the returned channel to
// avoid missing events. The channel is closed once ctx is done or the
// watcher encounters an unrecoverable error.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := p.kv.(watchable)
	if !ok || w.Dir() == "" {
		return nil, ErrWatchUnsupported
	}
	basePath := w.Dir()

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				p.log.Warn().Err(err).Msg("watcher close")
			}
		})
	}

	dirs, err := collectDirs(basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		// The throttle timer may still fire while we shut down.
		var sendMu sync.Mutex
		closed := false
		defer func() {
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(ev Event) {
			p.invalidate(ev.recordKind(), ev.Key)
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case events <- ev:
			default:
				// The cache is already invalidated; a slow consumer only
				// misses the notification.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Warn().Err(err).Msg("watcher error, invalidating cache")
				throttle.Enqueue(Event{Type: EventInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						absDir := filepath.Clean(evt.Name)
						if _, found := watched[absDir]; !found {
							if err := watcher.Add(absDir); err != nil {
								p.log.Warn().Err(err).Str("dir", absDir).Msg("watch directory")
							} else {
								watched[absDir] = struct{}{}
							}
						}
						throttle.Enqueue(Event{Type: EventInvalidated}, send)
						continue
					}
				}

				throttle.Enqueue(p.eventForPath(basePath, evt.Name), send)
			}
		}
	}()

	return events, nil
}

func (ev Event) recordKind() recordKind {
	switch ev.Type {
	case EventMonthChanged:
		return kindMonth
	case EventPresetsChanged:
		return kindPresets
	case EventSettingsChanged:
		return kindSettings
	default:
		return kindOther
	}
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// eventForPath derives the record a diskv file belongs to.
func (p *persistence) eventForPath(basePath, path string) Event {
	rel, err := filepath.Rel(basePath, path)
	if err != nil || rel == "." {
		return Event{Type: EventInvalidated}
	}
	key := strings.Join(strings.Split(rel, string(os.PathSeparator)), "/")
	switch kind, ym := p.keys.parse(key); kind {
	case kindMonth:
		return Event{Type: EventMonthChanged, Key: ym}
	case kindPresets:
		return Event{Type: EventPresetsChanged}
	case kindSettings:
		return Event{Type: EventSettingsChanged}
	default:
		return Event{Type: EventInvalidated}
	}
}

// eventThrottle coalesces rapid change notifications so consumers refresh
// once per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[Event]struct{})
	t.timer = nil
	t.mu.Unlock()

	// An invalidation covers everything else in the burst.
	if _, ok := pending[Event{Type: EventInvalidated}]; ok {
		send(Event{Type: EventInvalidated})
		return
	}
	for ev := range pending {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
