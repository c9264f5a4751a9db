package components

import (
	"fmt"
	"sync"

	"github.com/blockdude2/level-maker/src/internal/levels"
	"github.com/blockdude2/level-maker/src/internal/log"
)

// LevelWatcher logs changes made to the levels directory while the server runs
type LevelWatcher struct {
	store   *levels.Store
	watcher *levels.Watcher
	mu      sync.Mutex
}

// NewLevelWatcher creates a new level watcher component
func NewLevelWatcher(store *levels.Store) *LevelWatcher {
	return &LevelWatcher{store: store}
}

// Name returns the component name
func (l *LevelWatcher) Name() string {
	return "level watcher"
}

// Start starts watching the levels directory
func (l *LevelWatcher) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		return fmt.Errorf("level watcher is already running")
	}

	w, err := levels.NewWatcher(l.store, logWatchEvent, func(err error) {
		log.Warnf("Level watcher error: %v", err)
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", l.store.Dir(), err)
	}

	l.watcher = w
	log.Debugf("Watching %s for level changes", l.store.Dir())
	return nil
}

// Stop stops watching
func (l *LevelWatcher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher == nil {
		return fmt.Errorf("level watcher is not running")
	}

	err := l.watcher.Close()
	l.watcher = nil
	return err
}

func logWatchEvent(event levels.WatchEvent) {
	switch event.Kind {
	case levels.LevelCorrupt:
		log.Warnf("Level file %s is corrupt: %v", event.Filename, event.Err)
	default:
		log.Debugf("Level file %s %s", event.Filename, event.Kind)
	}
}
