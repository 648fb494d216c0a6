package seed

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/starford/tagfield/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewFileLoaded(t *testing.T) {
	l, reg, _ := testLoader(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var reloaded []string
	go Watch(ctx, l, testutil.Logger(), func(entity string) {
		mu.Lock()
		reloaded = append(reloaded, entity)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(l.Dir().Root(), "card.yaml"), []byte(workSeed), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := reg.Get("card")
		return err == nil
	}, "new seed file not loaded by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return slices.Contains(reloaded, "card")
	}, "reload callback not called")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	l, reg, _ := testLoader(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, l, testutil.Logger(), nil)

	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(l.Dir().Root(), "notes.txt"), []byte("hello"), 0o644)
	time.Sleep(3 * Debounce)

	if reg.Len() != 0 {
		t.Errorf("registry has %d fields, want 0", reg.Len())
	}
}

func TestWatcher_RemoveKeepsField(t *testing.T) {
	l, reg, _ := testLoader(t, map[string]string{"task-1.yaml": workSeed})
	if err := l.Sync(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, l, testutil.Logger(), nil)

	time.Sleep(100 * time.Millisecond)
	_ = os.Remove(filepath.Join(l.Dir().Root(), "task-1.yaml"))
	time.Sleep(3 * Debounce)

	f, err := reg.Get("task-1")
	if err != nil {
		t.Fatalf("field dropped after seed removal: %v", err)
	}
	if len(f.Snapshot().Tags) != 2 {
		t.Errorf("tags = %v", f.Snapshot().Tags)
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	l, _, _ := testLoader(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, l, testutil.Logger(), nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watcher did not stop")
	}
}
