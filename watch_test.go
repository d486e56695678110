package launchd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRootsDeliversEvent(t *testing.T) {
	root := t.TempDir()

	events, cleanup, err := WatchRoots(context.Background(), []string{root}, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cleanup() }()

	path := filepath.Join(root, "com.test.new.plist")
	if err := os.WriteFile(path, []byte("<plist/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.Err != nil {
			t.Errorf("event carries error: %v", ev.Err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event after definition file was created")
	}
}

func TestWatchRootsIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()

	events, cleanup, err := WatchRoots(context.Background(), []string{root}, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cleanup() }()

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected event %+v for non-definition file", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchRootsCoalescesBursts(t *testing.T) {
	root := t.TempDir()

	events, cleanup, err := WatchRoots(context.Background(), []string{root}, 100*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cleanup() }()

	for i := 0; i < 5; i++ {
		name := filepath.Join(root, "com.test.burst.plist")
		if err := os.WriteFile(name, []byte("<plist/>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-events:
	case <-time.After(5 * time.Second):
		t.Fatal("no event after burst")
	}

	// The burst fits one debounce window, so one event covers it
	select {
	case ev := <-events:
		t.Errorf("second event %+v after a single burst", ev)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchRootsMissingRootSkipped(t *testing.T) {
	existing := t.TempDir()
	missing := filepath.Join(t.TempDir(), "absent")

	events, cleanup, err := WatchRoots(context.Background(), []string{missing, existing}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("missing root must be skipped, got %v", err)
	}
	defer func() { _ = cleanup() }()

	if err := os.WriteFile(filepath.Join(existing, "com.test.x.plist"), []byte("<plist/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-events:
	case <-time.After(5 * time.Second):
		t.Fatal("no event from the existing root")
	}
}

func TestWatchRootsCleanup(t *testing.T) {
	root := t.TempDir()

	events, cleanup, err := WatchRoots(context.Background(), []string{root}, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	// The event channel closes once the watcher goroutine is done
	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected closed channel after cleanup")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event channel not closed after cleanup")
	}
}
