// Package tagfield owns the committed tags and selection of an entity and
// hosts the editor session opened over them.
package tagfield

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/tagfield/internal/apperr"
	"github.com/starford/tagfield/internal/checksum"
	"github.com/starford/tagfield/internal/editor"
	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/palette"
	"github.com/starford/tagfield/internal/selection"
	"github.com/starford/tagfield/internal/tagstore"
)

// Event kinds emitted to the Sink.
const (
	EventSelectionChanged = "selection.changed"
	EventTagsReplaced     = "tags.replaced"
)

// Event sources.
const (
	SourceEditor  = "editor"
	SourceDiscard = "discard"
	SourceSeed    = "seed"
	SourceAPI     = "api"
)

// Event is a change to a field's committed state.
type Event struct {
	Kind      string       `json:"kind"`
	Entity    string       `json:"entity"`
	Source    string       `json:"source"`
	Tags      []models.Tag `json:"tags,omitempty"`
	Selection []string     `json:"selection"`
}

// Sink receives field events. Emit is called with the field locked and must
// not call back into the field.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit implements Sink.
func (f SinkFunc) Emit(e Event) { f(e) }

// Summary is the read-only view rendered as the inline pill list.
type Summary struct {
	Entity    string       `json:"entity"`
	Pills     []models.Tag `json:"pills"`
	Tags      []models.Tag `json:"tags"`
	Selection []string     `json:"selection"`
	Editing   bool         `json:"editing"`
	Checksum  string       `json:"checksum"`
}

// Field holds one entity's committed tags and selection. All access is
// serialised; editor operations run inside Edit.
type Field struct {
	entity  string
	catalog *palette.Catalog
	newID   tagstore.IDFunc
	logger  *slog.Logger
	sink    Sink

	mu      sync.Mutex
	tags    *tagstore.Store
	sel     *selection.Set
	session *editor.Session
}

// Option configures a Field.
type Option func(*Field)

// WithCatalog sets the color catalog for new tags and the color picker.
func WithCatalog(c *palette.Catalog) Option {
	return func(f *Field) {
		f.catalog = c
	}
}

// WithIDs sets the tag id generator.
func WithIDs(fn tagstore.IDFunc) Option {
	return func(f *Field) {
		f.newID = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Field) {
		f.logger = l
	}
}

// WithSink sets the event sink.
func WithSink(s Sink) Option {
	return func(f *Field) {
		f.sink = s
	}
}

// New creates a field for entity from snap.
func New(entity string, snap Snapshot, opts ...Option) (*Field, error) {
	f := &Field{entity: entity}
	for _, opt := range opts {
		opt(f)
	}
	if f.catalog == nil {
		f.catalog = palette.NewDefault(palette.Random(1))
	}
	if f.newID == nil {
		f.newID = tagstore.UUIDs()
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	f.logger = f.logger.With(slog.String("entity", entity))
	if f.sink == nil {
		f.sink = SinkFunc(func(Event) {})
	}
	tags, sel, err := f.build(snap)
	if err != nil {
		return nil, err
	}
	f.tags, f.sel = tags, sel
	return f, nil
}

func (f *Field) build(snap Snapshot) (*tagstore.Store, *selection.Set, error) {
	if err := snap.Validate(); err != nil {
		return nil, nil, fmt.Errorf("tagfield: %s: %w: %v", f.entity, apperr.ErrInvalidInput, err)
	}
	snap = snap.Normalized()
	tags, err := tagstore.New(snap.Tags, f.catalog, f.newID)
	if err != nil {
		return nil, nil, fmt.Errorf("tagfield: %s: %w", f.entity, err)
	}
	return tags, selection.New(snap.Selection), nil
}

// Entity returns the entity id.
func (f *Field) Entity() string { return f.entity }

// Catalog returns the field's color catalog.
func (f *Field) Catalog() *palette.Catalog { return f.catalog }

// Open starts an editor session over copies of the committed state. Only one
// session may be open at a time.
func (f *Field) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session != nil {
		return fmt.Errorf("tagfield: %s: editor already open: %w", f.entity, apperr.ErrConflict)
	}
	f.session = editor.Open(f.tags, f.sel, host{f},
		editor.WithLogger(f.logger),
		editor.WithCatalog(f.catalog))
	f.logger.Info("editor opened")
	return nil
}

// Edit runs fn against the open session.
func (f *Field) Edit(fn func(s *editor.Session) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return fmt.Errorf("tagfield: %s: %w", f.entity, apperr.ErrNoSession)
	}
	return fn(f.session)
}

// Dismiss reports an interaction outside the innermost open overlay.
func (f *Field) Dismiss() (editor.Layer, error) {
	var layer editor.Layer
	err := f.Edit(func(s *editor.Session) error {
		var err error
		layer, err = s.Dismiss()
		return err
	})
	return layer, err
}

// View renders the open session.
func (f *Field) View() (editor.View, error) {
	var v editor.View
	err := f.Edit(func(s *editor.Session) error {
		v = s.View()
		return nil
	})
	return v, err
}

// Editing reports whether a session is open.
func (f *Field) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session != nil
}

// Snapshot returns a copy of the committed state.
func (f *Field) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Field) snapshotLocked() Snapshot {
	return Snapshot{Tags: f.tags.Tags(), Selection: f.sel.IDs()}
}

// Pills returns the selected tags in tag order.
func (f *Field) Pills() []models.Tag {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pillsLocked()
}

func (f *Field) pillsLocked() []models.Tag {
	pills := []models.Tag{}
	for t := range f.tags.Filter(func(t models.Tag) bool { return f.sel.Contains(t.ID) }) {
		pills = append(pills, t)
	}
	return pills
}

// Checksum fingerprints the committed tags and selection.
func (f *Field) Checksum() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checksumLocked()
}

func (f *Field) checksumLocked() string {
	sum, err := checksum.Of(f.snapshotLocked())
	if err != nil {
		f.logger.Error("checksum failed", slog.String("error", err.Error()))
		return ""
	}
	return sum
}

// Summary returns the inline view of the field.
func (f *Field) Summary() Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.snapshotLocked()
	return Summary{
		Entity:    f.entity,
		Pills:     f.pillsLocked(),
		Tags:      snap.Tags,
		Selection: snap.Selection,
		Editing:   f.session != nil,
		Checksum:  f.checksumLocked(),
	}
}

// Replace swaps the committed state for snap. An open session keeps working
// on its own copy, and its save replaces snap in turn.
func (f *Field) Replace(snap Snapshot, source string) error {
	return f.ReplaceIf(snap, source, "")
}

// ReplaceIf is Replace guarded by a checksum of the current committed state.
// An empty ifMatch skips the check.
func (f *Field) ReplaceIf(snap Snapshot, source, ifMatch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ifMatch != "" && ifMatch != f.checksumLocked() {
		return fmt.Errorf("tagfield: %s: checksum mismatch: %w", f.entity, apperr.ErrConflict)
	}
	tags, sel, err := f.build(snap)
	if err != nil {
		return err
	}
	f.tags, f.sel = tags, sel
	f.logger.Info("committed state replaced",
		slog.String("source", source),
		slog.Int("tags", tags.Len()))
	f.sink.Emit(Event{
		Kind:      EventTagsReplaced,
		Entity:    f.entity,
		Source:    source,
		Tags:      tags.Tags(),
		Selection: sel.IDs(),
	})
	return nil
}

// host receives session callbacks. They run inside Edit, with f.mu held.
type host struct {
	f *Field
}

// SelectionChanged writes the live selection straight into the committed
// state. This is the only path by which an open session changes it before save.
func (h host) SelectionChanged(ids []string) {
	f := h.f
	f.sel = selection.New(ids)
	f.sink.Emit(Event{
		Kind:      EventSelectionChanged,
		Entity:    f.entity,
		Source:    SourceEditor,
		Selection: f.sel.IDs(),
	})
}

func (h host) Commit(c editor.Commit) {
	f := h.f
	f.session = nil
	tags, err := tagstore.New(c.Tags, f.catalog, f.newID)
	if err != nil {
		f.logger.Error("commit rejected", slog.String("error", err.Error()))
		return
	}
	f.tags = tags
	f.sel = selection.New(c.Selection)
	f.logger.Info("editor saved",
		slog.Int("tags", tags.Len()),
		slog.Int("selected", f.sel.Len()))
	f.sink.Emit(Event{
		Kind:      EventTagsReplaced,
		Entity:    f.entity,
		Source:    SourceEditor,
		Tags:      tags.Tags(),
		Selection: f.sel.IDs(),
	})
	if c.SelectionChanged {
		f.sink.Emit(Event{
			Kind:      EventSelectionChanged,
			Entity:    f.entity,
			Source:    SourceEditor,
			Selection: f.sel.IDs(),
		})
	}
}

// Discard closes the session. Live toggles already applied are kept, but ids
// of tags that only existed in the discarded draft are pruned.
func (h host) Discard() {
	f := h.f
	f.session = nil
	before := f.sel.Len()
	f.sel.Prune(f.tags.IDSet())
	f.logger.Info("editor cancelled")
	if f.sel.Len() != before {
		f.sink.Emit(Event{
			Kind:      EventSelectionChanged,
			Entity:    f.entity,
			Source:    SourceDiscard,
			Selection: f.sel.IDs(),
		})
	}
}
