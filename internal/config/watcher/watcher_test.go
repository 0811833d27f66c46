package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestOp_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpWrite, "write"},
		{OpCreate | OpWrite, "write|create"},
		{OpRemove | OpRename, "remove|rename"},
		{0, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if !w.IsWatching(path) {
		t.Error("IsWatching should be true after Watch")
	}
	if err := w.Watch(path); err != ErrAlreadyWatching {
		t.Errorf("second Watch err = %v, want ErrAlreadyWatching", err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch failed: %v", err)
	}
	if w.IsWatching(path) {
		t.Error("IsWatching should be false after Unwatch")
	}
}

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	other := filepath.Join(dir, "other.yaml")

	w, err := New(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	var mu sync.Mutex
	var events []Event
	w.OnChange(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("rules: {}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(events)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 coalesced event", len(events))
	}
	if events[0].Path != path {
		t.Errorf("Path = %q, want %q", events[0].Path, path)
	}
}

func TestWatcher_Closed(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close err = %v, want nil", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x.yaml")); err != ErrWatcherClosed {
		t.Errorf("Watch after Close err = %v, want ErrWatcherClosed", err)
	}
}
