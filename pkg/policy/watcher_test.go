package policy

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDefaultWatcherConfig(t *testing.T) {
	config := DefaultWatcherConfig()

	if config.DebounceInterval != 100*time.Millisecond {
		t.Errorf("DebounceInterval = %v, want 100ms", config.DebounceInterval)
	}
	if len(config.Extensions) != 2 {
		t.Errorf("Extensions count = %d, want 2", len(config.Extensions))
	}
	if !config.SkipHidden {
		t.Error("SkipHidden = false, want true")
	}
}

func TestNewWatcher(t *testing.T) {
	watcher, err := NewWatcher(nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if watcher.watcher == nil {
		t.Error("fsnotify watcher is nil")
	}
	if watcher.debounce == nil {
		t.Error("debouncer is nil")
	}
	_ = watcher.watcher.Close()
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "policies.yaml")
	if err := os.WriteFile(file, []byte("version: v1\npolicies: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config := DefaultWatcherConfig()
	config.Path = dir
	config.DebounceInterval = 20 * time.Millisecond

	watcher, err := NewWatcher(config, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Stop()

	var reloads atomic.Int32
	reloaded := make(chan struct{}, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = watcher.Watch(ctx, func() error {
			reloads.Add(1)
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(file, []byte("version: v2\npolicies: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload not triggered after file modification")
	}

	if reloads.Load() == 0 {
		t.Error("reload count = 0")
	}
}

func TestWatcher_AlreadyRunning(t *testing.T) {
	dir := t.TempDir()
	config := DefaultWatcherConfig()
	config.Path = dir

	watcher, err := NewWatcher(config, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = watcher.Watch(ctx, func() error { return nil }) }()
	time.Sleep(100 * time.Millisecond)

	if err := watcher.Watch(ctx, func() error { return nil }); err == nil {
		t.Error("second Watch should fail while running")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	watcher, err := NewWatcher(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Never started: Stop is a no-op.
	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestShouldProcessEvent(t *testing.T) {
	watcher, err := NewWatcher(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = watcher.watcher.Close() }()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "policies.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "extra.yml", Op: fsnotify.Create}, true},
		{"chmod ignored", fsnotify.Event{Name: "policies.yaml", Op: fsnotify.Chmod}, false},
		{"wrong extension", fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: ".hidden.yaml", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := watcher.shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestDebouncer_CollapsesBurst(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		d.trigger(func() { fired.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("callback fired %d times, want 1 for a burst", got)
	}
}
