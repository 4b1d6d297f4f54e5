package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan string, 4)
	d := newDebouncer(30*time.Millisecond, func(path string) {
		calls.Add(1)
		fired <- path
	})
	for i := 0; i < 5; i++ {
		d.trigger("a.mpl")
	}
	select {
	case path := <-fired:
		if path != "a.mpl" {
			t.Fatalf("unexpected path %q", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced callback never fired")
	}
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one callback, got %d", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(50*time.Millisecond, func(string) { calls.Add(1) })
	d.trigger("a.mpl")
	d.stop()
	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected no callbacks after stop, got %d", got)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.mpl")
	if err := os.WriteFile(path, []byte("print 1;"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	changed := make(chan string, 4)
	w, err := New(20*time.Millisecond, func(p string) { changed <- p })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Leave the polling fallback a tick so the change is visible.
	time.Sleep(2 * pollInterval)
	if err := os.WriteFile(path, []byte("print 22;"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-changed:
		if got != path {
			t.Fatalf("unexpected path %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Watch did not stop after cancel")
	}
}

func TestWatcherAddMissingFile(t *testing.T) {
	w, err := New(time.Millisecond, func(string) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Join(t.TempDir(), "missing.mpl")); err == nil {
		t.Fatalf("expected error watching a missing file")
	}
}
