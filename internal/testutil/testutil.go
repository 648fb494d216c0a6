// Package testutil provides shared test helpers for fields, registries and seed directories.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/palette"
	"github.com/starford/tagfield/internal/tagfield"
	"github.com/starford/tagfield/internal/tagstore"
)

// Entity is the field TestRegistry seeds.
const Entity = "task-1"

// Recorder is a tagfield.Sink that keeps every event.
type Recorder struct {
	mu     sync.Mutex
	events []tagfield.Event
}

// Emit implements tagfield.Sink.
func (r *Recorder) Emit(e tagfield.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []tagfield.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tagfield.Event(nil), r.events...)
}

// Logger returns a logger that only reports errors.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Options returns deterministic field options: first-pick colors and ids
// t3, t4, ...
func Options(sink tagfield.Sink) []tagfield.Option {
	opts := []tagfield.Option{
		tagfield.WithCatalog(palette.NewDefault(palette.First())),
		tagfield.WithIDs(tagstore.Sequence("t", 3)),
		tagfield.WithLogger(Logger()),
	}
	if sink != nil {
		opts = append(opts, tagfield.WithSink(sink))
	}
	return opts
}

// TestRegistry creates a registry holding Entity with tags Work (t1) and
// Home (t2), t1 selected.
func TestRegistry(t *testing.T, sink tagfield.Sink) *tagfield.Registry {
	t.Helper()
	reg := tagfield.NewRegistry(Options(sink)...)
	_, err := reg.Put(Entity, tagfield.Snapshot{
		Tags: []models.Tag{
			{ID: "t1", Name: "Work", Color: "#FF6B6B"},
			{ID: "t2", Name: "Home", Color: "#4ECDC4"},
		},
		Selection: []string{"t1"},
	}, tagfield.SourceAPI)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

// TestSeedDir writes files (file name to content) into a temporary directory.
func TestSeedDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
