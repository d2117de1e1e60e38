package main

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func writeBoard(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("height: 2\nwidth: 2\nmine_count: 1\nseed: 1\n"), 0644); err != nil {
		t.Fatalf("write board file: %v", err)
	}
}

func TestBoardWatcherFiresOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	writeBoard(t, path)

	var mu sync.Mutex
	fired := 0
	w, err := newBoardWatcher(path, zap.NewNop(), func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("newBoardWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	writeBoard(t, path)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := fired
		mu.Unlock()
		if n >= 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("watcher never fired for a changed board file")
}

func TestBoardWatcherDebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	writeBoard(t, path)

	var mu sync.Mutex
	fired := 0
	w, err := newBoardWatcher(path, zap.NewNop(), func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("newBoardWatcher: %v", err)
	}
	w.debounceDur = time.Second
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// A burst of writes well inside the debounce window.
	for i := 0; i < 5; i++ {
		writeBoard(t, path)
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	n := fired
	mu.Unlock()
	if n > 1 {
		t.Errorf("expected at most one callback for a write burst, got %d", n)
	}
}

func TestBoardWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.yaml")
	writeBoard(t, path)

	var mu sync.Mutex
	fired := 0
	w, err := newBoardWatcher(path, zap.NewNop(), func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("newBoardWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	n := fired
	mu.Unlock()
	if n != 0 {
		t.Errorf("watcher fired %d times for an unrelated file", n)
	}
}

func TestBoardWatcherFailedStartDoesNotBlockStop(t *testing.T) {
	// Watching a file in a directory that does not exist must fail cleanly:
	// Stop afterwards has nothing to wait for.
	path := filepath.Join(t.TempDir(), "missing", "board.yaml")
	w, err := newBoardWatcher(path, zap.NewNop(), func() {})
	if err != nil {
		t.Fatalf("newBoardWatcher: %v", err)
	}
	if err := w.Start(); err == nil {
		t.Fatal("expected Start to fail for a missing directory")
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
}

func TestBoardWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	writeBoard(t, path)

	w, err := newBoardWatcher(path, zap.NewNop(), func() {})
	if err != nil {
		t.Fatalf("newBoardWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()
}
