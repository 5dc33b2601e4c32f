package profilestore

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultWatchDebounce = 250 * time.Millisecond

// ChangeKind classifies a profile document change.
type ChangeKind string

const (
	// ChangeWritten means the document was created or replaced.
	ChangeWritten ChangeKind = "written"
	// ChangeRemoved means the document no longer exists.
	ChangeRemoved ChangeKind = "removed"
)

// Change reports that a profile document changed on disk.
type Change struct {
	Name string     `json:"name"`
	Kind ChangeKind `json:"kind"`
}

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithWatchDebounce sets how long a document must be quiet before its change is reported.
func WithWatchDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the logger for watcher diagnostics.
func WithWatchLogger(logger zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger.With().Str("component", "profile_watcher").Logger()
	}
}

// WithWatchCache invalidates cached profiles as their documents change.
func WithWatchCache(cache *CachedStore) WatcherOption {
	return func(w *Watcher) {
		w.cache = cache
	}
}

// Watcher reports edits made to a FileStore directory by other processes.
type Watcher struct {
	store    *FileStore
	onChange func(Change)
	cache    *CachedStore
	logger   zerolog.Logger
	debounce time.Duration

	mu       sync.Mutex
	timers   map[string]*time.Timer
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher creates a watcher for store that calls onChange once per settled change.
func NewWatcher(store *FileStore, onChange func(Change), opts ...WatcherOption) (*Watcher, error) {
	if store == nil {
		return nil, errors.New("file store is required")
	}
	if onChange == nil {
		onChange = func(Change) {}
	}

	w := &Watcher{
		store:    store,
		onChange: onChange,
		logger:   zerolog.Nop(),
		debounce: defaultWatchDebounce,
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. The watcher stops when ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watcher != nil {
		w.mu.Unlock()
		return nil
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := fsWatcher.Add(w.store.Dir()); err != nil {
		_ = fsWatcher.Close()
		w.mu.Unlock()
		return err
	}
	w.watcher = fsWatcher
	w.mu.Unlock()

	go w.loop(fsWatcher)
	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-w.stopCh:
		}
	}()
	return nil
}

// Stop terminates the watcher and waits for its loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		for name, t := range w.timers {
			t.Stop()
			delete(w.timers, name)
		}
		started := w.watcher != nil
		if started {
			_ = w.watcher.Close()
		}
		w.mu.Unlock()
		if started {
			<-w.done
		}
	})
}

func (w *Watcher) loop(fsWatcher *fsnotify.Watcher) {
	defer close(w.done)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("profile watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	name, ok := NameFromPath(event.Name)
	if !ok {
		return
	}
	w.schedule(name)
}

func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.stopCh:
		return
	default:
	}

	if t, ok := w.timers[name]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() { w.fire(name, timer) })
	w.timers[name] = timer
}

// fire runs when timer settles. A timer replaced by a later schedule neither
// drops its successor from the map nor reports the change itself.
func (w *Watcher) fire(name string, timer *time.Timer) {
	w.mu.Lock()
	if w.timers[name] != timer {
		w.mu.Unlock()
		return
	}
	delete(w.timers, name)
	w.mu.Unlock()

	select {
	case <-w.stopCh:
		return
	default:
	}
	w.emit(name)
}

// emit reports the settled state of a document.
func (w *Watcher) emit(name string) {
	if w.cache != nil {
		w.cache.Invalidate(name)
	}

	kind := ChangeWritten
	if _, err := os.Stat(w.store.Path(name)); os.IsNotExist(err) {
		kind = ChangeRemoved
	}

	w.logger.Debug().Str("profile", name).Str("kind", string(kind)).Msg("profile changed on disk")
	w.onChange(Change{Name: name, Kind: kind})
}
