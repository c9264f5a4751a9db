package levels

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blockdude2/level-maker/src/internal/utils"
)

const defaultDebounce = 100 * time.Millisecond

// EventKind describes what happened to a level file.
type EventKind int

const (
	// LevelChanged means the file was created or rewritten and parsed fine.
	LevelChanged EventKind = iota
	// LevelRemoved means the file was deleted or moved away.
	LevelRemoved
	// LevelCorrupt means the file exists but could not be read or parsed.
	LevelCorrupt
)

func (k EventKind) String() string {
	switch k {
	case LevelChanged:
		return "changed"
	case LevelRemoved:
		return "removed"
	case LevelCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// WatchEvent is emitted once a burst of filesystem events on a level file settles.
type WatchEvent struct {
	Kind     EventKind
	Filename string
	Summary  Summary
	Err      error
}

// Watcher reports changes made to the levels directory, including edits made
// outside the HTTP API. If the directory does not exist yet its parent is
// watched until it is created.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	handler  func(WatchEvent)
	onError  func(error)
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching the store directory. handler is called from the
// watcher goroutine for every settled event; onError for watcher failures.
func NewWatcher(store *Store, handler func(WatchEvent), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store:    store,
		watcher:  fw,
		handler:  handler,
		onError:  onError,
		debounce: defaultDebounce,
		timers:   make(map[string]*time.Timer),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	if err := w.addDir(); err != nil {
		_ = fw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

func (w *Watcher) addDir() error {
	if utils.DirExists(w.store.Dir()) {
		return w.watcher.Add(w.store.Dir())
	}
	return w.watcher.Add(filepath.Dir(w.store.Dir()))
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done

		w.mu.Lock()
		for name, t := range w.timers {
			t.Stop()
			delete(w.timers, name)
		}
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	// the levels directory appeared while its parent was being watched
	if path == w.store.Dir() {
		if event.Has(fsnotify.Create) {
			if err := w.watcher.Add(path); err != nil && w.onError != nil {
				w.onError(err)
			}
		}
		return
	}

	if filepath.Dir(path) != w.store.Dir() || !IsLevelFile(path) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.schedule(filepath.Base(path))
}

// schedule delays inspection until no event arrived for the file during the
// debounce window, so half-written files are not reported as corrupt.
func (w *Watcher) schedule(filename string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[filename]; ok {
		t.Stop()
	}
	w.timers[filename] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, filename)
		w.mu.Unlock()

		select {
		case <-w.closeCh:
			return
		default:
		}
		w.emit(filename)
	})
}

func (w *Watcher) emit(filename string) {
	if w.handler == nil {
		return
	}

	if !utils.FileExists(filepath.Join(w.store.Dir(), filename)) {
		w.handler(WatchEvent{Kind: LevelRemoved, Filename: filename})
		return
	}

	summary, err := w.store.Inspect(filename)
	if err != nil {
		w.handler(WatchEvent{Kind: LevelCorrupt, Filename: filename, Err: err})
		return
	}
	w.handler(WatchEvent{Kind: LevelChanged, Filename: filename, Summary: summary})
}
