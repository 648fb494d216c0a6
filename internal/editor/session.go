// Package editor implements the draft tag editor: a session that works on a
// copy of a field's tags and selection and publishes them back on save.
//
// Two publish channels coexist. Selection toggles reach the host immediately
// through Host.SelectionChanged; structural edits (create, rename, recolor,
// delete) stay in the draft until Save hands everything over in one Commit.
// A session is not safe for concurrent use; the host serialises events.
package editor

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/starford/tagfield/internal/apperr"
	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/palette"
	"github.com/starford/tagfield/internal/selection"
	"github.com/starford/tagfield/internal/tagstore"
)

// Host owns the committed tags and selection a session was opened over.
type Host interface {
	// SelectionChanged is the live channel, called on every toggle while the
	// session is open. It bypasses the draft.
	SelectionChanged(ids []string)
	// Commit is called once, on save, with the complete draft.
	Commit(c Commit)
	// Discard is called once when the session is cancelled.
	Discard()
}

// Commit is the single update a saved session publishes.
type Commit struct {
	Tags      []models.Tag
	Selection []string
	// SelectionChanged is false when Selection matches the last live
	// notification, so the host need not announce it again.
	SelectionChanged bool
}

// State is the lifecycle state of a session.
type State int

const (
	StateOpen State = iota
	StateSaved
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSaved:
		return "saved"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Mode is the nested edit mode of an open session.
type Mode int

const (
	ModeNone Mode = iota
	ModeRenaming
	ModeRecoloring
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeRenaming:
		return "renaming"
	case ModeRecoloring:
		return "recoloring"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// SubMode pairs a Mode with the tag it targets. Renaming and recoloring are
// exclusive because a session holds exactly one SubMode.
type SubMode struct {
	Mode  Mode
	TagID string
}

// Layer names the overlay closed by Dismiss.
type Layer int

const (
	LayerNone Layer = iota
	LayerColorPicker
	LayerEditor
)

func (l Layer) String() string {
	switch l {
	case LayerColorPicker:
		return "color_picker"
	case LayerEditor:
		return "editor"
	}
	return "none"
}

// Row is one visible line of the editor list.
type Row struct {
	Tag      models.Tag `json:"tag"`
	Selected bool       `json:"selected"`
	Renaming bool       `json:"renaming"`
}

// Session is a draft editor over a copy of a field's tags and selection.
type Session struct {
	host    Host
	logger  *slog.Logger
	catalog *palette.Catalog

	tags  *tagstore.Store
	sel   *selection.Set
	query string

	sub       SubMode
	renameBuf string
	picker    *ColorPicker

	state        State
	lastNotified []string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithCatalog sets the catalog the color picker enumerates.
func WithCatalog(c *palette.Catalog) Option {
	return func(s *Session) {
		s.catalog = c
	}
}

// Open starts a session over deep copies of tags and sel.
func Open(tags *tagstore.Store, sel *selection.Set, host Host, opts ...Option) *Session {
	s := &Session{
		host:         host,
		tags:         tags.Clone(),
		sel:          sel.Clone(),
		lastNotified: sel.IDs(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger.Debug("editor: opened",
		slog.Int("tags", s.tags.Len()),
		slog.Int("selected", s.sel.Len()))
	return s
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// SubMode returns the active nested edit mode.
func (s *Session) SubMode() SubMode { return s.sub }

// Query returns the filter text.
func (s *Session) Query() string { return s.query }

// RenameBuffer returns the in-progress rename text, if renaming.
func (s *Session) RenameBuffer() string { return s.renameBuf }

// Picker returns the open color picker, or nil.
func (s *Session) Picker() *ColorPicker { return s.picker }

// Tags returns the draft tags in order.
func (s *Session) Tags() []models.Tag { return s.tags.Tags() }

// Selection returns the draft selection.
func (s *Session) Selection() []string { return s.sel.IDs() }

// Find looks up a draft tag.
func (s *Session) Find(id string) (models.Tag, bool) { return s.tags.Find(id) }

func (s *Session) ensureOpen() error {
	if s.state != StateOpen {
		return fmt.Errorf("editor: session %s: %w", s.state, apperr.ErrSessionClosed)
	}
	return nil
}

// SetQuery updates the filter text.
func (s *Session) SetQuery(text string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.query = text
	return nil
}

// Visible yields the draft tags whose names contain the query,
// case-insensitively, in store order.
func (s *Session) Visible() iter.Seq[models.Tag] {
	q := strings.ToLower(s.query)
	return s.tags.Filter(func(t models.Tag) bool {
		return strings.Contains(strings.ToLower(t.Name), q)
	})
}

// Rows returns the visible tags annotated with selection and rename state.
func (s *Session) Rows() []Row {
	rows := []Row{}
	for t := range s.Visible() {
		rows = append(rows, Row{
			Tag:      t,
			Selected: s.sel.Contains(t.ID),
			Renaming: s.sub.Mode == ModeRenaming && s.sub.TagID == t.ID,
		})
	}
	return rows
}

// CanCreate reports whether CreateFromQuery would add a new tag that does not
// duplicate an existing name.
func (s *Session) CanCreate() bool {
	q := strings.TrimSpace(s.query)
	if q == "" {
		return false
	}
	for t := range s.tags.All() {
		if strings.EqualFold(t.Name, q) {
			return false
		}
	}
	return true
}

// ToggleSelection flips id in the draft selection and notifies the host with
// the new membership straight away.
func (s *Session) ToggleSelection(id string) ([]string, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	if _, ok := s.tags.Find(id); !ok {
		return nil, fmt.Errorf("editor: toggle %q: %w", id, apperr.ErrNotFound)
	}
	ids := s.sel.Toggle(id)
	s.lastNotified = append([]string{}, ids...)
	s.logger.Debug("editor: toggled",
		slog.String("tag_id", id),
		slog.Bool("selected", s.sel.Contains(id)))
	s.host.SelectionChanged(ids)
	return ids, nil
}

// CreateFromQuery creates a tag named after the trimmed query, selects it and
// clears the query. A blank query does nothing and reports false.
func (s *Session) CreateFromQuery() (models.Tag, bool, error) {
	if err := s.ensureOpen(); err != nil {
		return models.Tag{}, false, err
	}
	if strings.TrimSpace(s.query) == "" {
		return models.Tag{}, false, nil
	}
	tag, err := s.tags.Create(s.query)
	if err != nil {
		return models.Tag{}, false, err
	}
	s.logger.Debug("editor: created",
		slog.String("tag_id", tag.ID),
		slog.String("name", tag.Name),
		slog.String("color", tag.Color.String()))
	if _, err := s.ToggleSelection(tag.ID); err != nil {
		return tag, true, err
	}
	s.query = ""
	return tag, true, nil
}

// BeginRename enters rename mode for id, seeding the buffer with its name.
// An open color picker is closed without applying anything.
func (s *Session) BeginRename(id string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	tag, ok := s.tags.Find(id)
	if !ok {
		return fmt.Errorf("editor: rename %q: %w", id, apperr.ErrNotFound)
	}
	s.closePicker()
	s.sub = SubMode{Mode: ModeRenaming, TagID: id}
	s.renameBuf = tag.Name
	return nil
}

// EditRename replaces the in-progress rename text.
func (s *Session) EditRename(text string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if s.sub.Mode != ModeRenaming {
		return fmt.Errorf("editor: not renaming: %w", apperr.ErrConflict)
	}
	s.renameBuf = text
	return nil
}

// CommitRename renames id to text. A blank text or a missing tag leaves the
// draft unchanged. Either way a sub-mode on id is left; a sub-mode on another
// tag is kept.
func (s *Session) CommitRename(id, text string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	err := s.tags.Rename(id, text)
	if s.sub.TagID == id {
		s.closePicker()
		s.sub = SubMode{}
		s.renameBuf = ""
	}
	if err != nil {
		s.logger.Debug("editor: rename ignored",
			slog.String("tag_id", id),
			slog.String("error", err.Error()))
		return err
	}
	s.logger.Debug("editor: renamed", slog.String("tag_id", id))
	return nil
}

// CancelRename leaves rename mode and discards the buffer.
func (s *Session) CancelRename() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.cancelRename()
	return nil
}

func (s *Session) cancelRename() {
	if s.sub.Mode == ModeRenaming {
		s.sub = SubMode{}
		s.renameBuf = ""
	}
}

// DeleteTag removes id from the draft tags and prunes the draft selection.
// It reports whether the tag existed.
func (s *Session) DeleteTag(id string) (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}
	if !s.tags.Delete(id) {
		return false, nil
	}
	s.sel.Prune(s.tags.IDSet())
	if s.sub.TagID == id {
		s.closePicker()
		s.sub = SubMode{}
		s.renameBuf = ""
	}
	s.logger.Debug("editor: deleted", slog.String("tag_id", id))
	return true, nil
}

// BeginColorPick opens a color picker for id, seeded with its current color.
// Rename mode is cancelled without committing its buffer.
func (s *Session) BeginColorPick(id string) (*ColorPicker, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	tag, ok := s.tags.Find(id)
	if !ok {
		return nil, fmt.Errorf("editor: color pick %q: %w", id, apperr.ErrNotFound)
	}
	s.cancelRename()
	s.closePicker()
	seed := tag.Color
	if seed == "" {
		seed = palette.Fallback
	}
	s.picker = &ColorPicker{session: s, tagID: id, seed: seed, chosen: seed}
	s.sub = SubMode{Mode: ModeRecoloring, TagID: id}
	return s.picker, nil
}

// resolvePicker closes p, applying color when non-nil.
func (s *Session) resolvePicker(p *ColorPicker, color *models.Color) error {
	if s.state != StateOpen || s.picker != p || p.done {
		return fmt.Errorf("editor: picker for %q: %w", p.tagID, apperr.ErrPickerClosed)
	}
	if color != nil {
		if err := s.tags.Recolor(p.tagID, *color); err != nil {
			return err
		}
		p.chosen = *color
		s.logger.Debug("editor: recolored",
			slog.String("tag_id", p.tagID),
			slog.String("color", color.String()))
	}
	s.closePicker()
	s.sub = SubMode{}
	return nil
}

func (s *Session) closePicker() {
	if s.picker != nil {
		s.picker.done = true
		s.picker = nil
	}
	if s.sub.Mode == ModeRecoloring {
		s.sub = SubMode{}
	}
}

func (s *Session) resetModes() {
	s.closePicker()
	s.sub = SubMode{}
	s.renameBuf = ""
}

// Save publishes the draft to the host and closes the session. Any rename
// still in progress is discarded.
func (s *Session) Save() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.resetModes()
	ids := s.sel.IDs()
	c := Commit{
		Tags:             s.tags.Tags(),
		Selection:        ids,
		SelectionChanged: !selection.SameMembers(ids, s.lastNotified),
	}
	s.state = StateSaved
	s.logger.Debug("editor: saved",
		slog.Int("tags", len(c.Tags)),
		slog.Int("selected", len(c.Selection)))
	s.host.Commit(c)
	return nil
}

// Cancel discards the draft and closes the session. Selection changes already
// delivered through the live channel stay with the host.
func (s *Session) Cancel() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.resetModes()
	s.state = StateCancelled
	s.logger.Debug("editor: cancelled")
	s.host.Discard()
	return nil
}

// Dismiss handles an interaction outside the innermost open overlay: an open
// color picker closes without a change, otherwise the session is cancelled.
func (s *Session) Dismiss() (Layer, error) {
	if err := s.ensureOpen(); err != nil {
		return LayerNone, err
	}
	if s.picker != nil {
		if err := s.picker.Dismiss(); err != nil {
			return LayerNone, err
		}
		return LayerColorPicker, nil
	}
	if err := s.Cancel(); err != nil {
		return LayerNone, err
	}
	return LayerEditor, nil
}
