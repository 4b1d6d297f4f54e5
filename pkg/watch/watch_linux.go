//go:build linux

package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Watcher reports writes to a set of files through inotify.
type Watcher struct {
	fd       int
	mu       sync.Mutex
	watchMap map[int]string
	debounce *debouncer
}

// New returns a watcher that calls onChange once writes to a watched file
// have been quiet for delay.
func New(delay time.Duration, onChange func(path string)) (*Watcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("watch: inotify_init: %w", err)
	}
	return &Watcher{
		fd:       fd,
		watchMap: make(map[int]string),
		debounce: newDebouncer(delay, onChange),
	}, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	wd, err := unix.InotifyAddWatch(w.fd, absPath, unix.IN_MODIFY|unix.IN_CLOSE_WRITE)
	if err != nil {
		return fmt.Errorf("watch: add %s: %w", absPath, err)
	}
	w.mu.Lock()
	w.watchMap[wd] = absPath
	w.mu.Unlock()
	return nil
}

// Watch dispatches events until ctx is done.
func (w *Watcher) Watch(ctx context.Context) error {
	buf := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			w.debounce.stop()
			return nil
		}
		n, err := unix.Read(w.fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				select {
				case <-ctx.Done():
				case <-time.After(pollInterval):
				}
				continue
			}
			return fmt.Errorf("watch: read events: %w", err)
		}

		for offset := 0; offset+unix.SizeofInotifyEvent <= n; {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			offset += unix.SizeofInotifyEvent + int(event.Len)
			if event.Mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) == 0 {
				continue
			}
			w.mu.Lock()
			path := w.watchMap[int(event.Wd)]
			w.mu.Unlock()
			if path != "" {
				w.debounce.trigger(path)
			}
		}
	}
}

// Close releases the inotify descriptor.
func (w *Watcher) Close() error {
	w.debounce.stop()
	return unix.Close(w.fd)
}
