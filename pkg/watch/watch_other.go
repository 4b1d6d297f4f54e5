//go:build !linux

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileState struct {
	modTime time.Time
	size    int64
}

// Watcher reports writes to a set of files by polling their metadata.
type Watcher struct {
	mu       sync.Mutex
	watchMap map[string]fileState
	debounce *debouncer
}

// New returns a watcher that calls onChange once writes to a watched file
// have been quiet for delay.
func New(delay time.Duration, onChange func(path string)) (*Watcher, error) {
	return &Watcher{
		watchMap: make(map[string]fileState),
		debounce: newDebouncer(delay, onChange),
	}, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.watchMap[absPath] = fileState{modTime: info.ModTime(), size: info.Size()}
	w.mu.Unlock()
	return nil
}

// Watch polls until ctx is done.
func (w *Watcher) Watch(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.debounce.stop()
			return nil
		case <-ticker.C:
			w.checkFiles()
		}
	}
}

func (w *Watcher) checkFiles() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, last := range w.watchMap {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		current := fileState{modTime: info.ModTime(), size: info.Size()}
		if !current.modTime.Equal(last.modTime) || current.size != last.size {
			w.watchMap[path] = current
			w.debounce.trigger(path)
		}
	}
}

func (w *Watcher) Close() error {
	w.debounce.stop()
	return nil
}
