// Package tagstore implements the ordered, authoritative collection of tags.
package tagstore

import (
	"fmt"
	"iter"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/tagfield/internal/apperr"
	"github.com/starford/tagfield/internal/models"
)

// IDFunc generates a candidate tag id. Candidates that collide with an
// existing tag are discarded and a new one is drawn.
type IDFunc func() string

// ColorSource supplies colors for new tags and validates recolors.
// *palette.Catalog satisfies it.
type ColorSource interface {
	Default() models.Color
	Accepts(c models.Color) error
}

// UUIDs returns an IDFunc producing "tag-<uuid>" ids.
func UUIDs() IDFunc {
	return func() string {
		return "tag-" + uuid.NewString()
	}
}

// Sequence returns an IDFunc producing prefix1, prefix2, ... starting at start.
func Sequence(prefix string, start int) IDFunc {
	n := start
	return func() string {
		id := fmt.Sprintf("%s%d", prefix, n)
		n++
		return id
	}
}

// Store is an insertion-ordered collection of tags. It is not safe for
// concurrent use; its holder serialises access.
type Store struct {
	tags   []models.Tag
	index  map[string]int
	newID  IDFunc
	colors ColorSource
}

// New creates a store holding a copy of tags. Duplicate ids are rejected.
func New(tags []models.Tag, colors ColorSource, newID IDFunc) (*Store, error) {
	if newID == nil {
		newID = UUIDs()
	}
	s := &Store{
		tags:   make([]models.Tag, 0, len(tags)),
		index:  make(map[string]int, len(tags)),
		newID:  newID,
		colors: colors,
	}
	for _, t := range tags {
		if _, dup := s.index[t.ID]; dup {
			return nil, fmt.Errorf("tagstore: duplicate id %q: %w", t.ID, apperr.ErrAlreadyExists)
		}
		s.index[t.ID] = len(s.tags)
		s.tags = append(s.tags, t)
	}
	return s, nil
}

// ValidateName trims name and checks it is usable as a tag name.
func ValidateName(name string) (string, error) {
	trimmed := models.NormalizeName(name)
	if err := validation.Validate(trimmed, validation.Required); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrInvalidName, err)
	}
	return trimmed, nil
}

// Create appends a new tag named name with a fresh id and a default color.
func (s *Store) Create(name string) (models.Tag, error) {
	trimmed, err := ValidateName(name)
	if err != nil {
		return models.Tag{}, err
	}
	id := s.newID()
	for s.has(id) || id == "" {
		id = s.newID()
	}
	color := models.Color("")
	if s.colors != nil {
		color = s.colors.Default()
	}
	t := models.Tag{ID: id, Name: trimmed, Color: color}
	s.index[id] = len(s.tags)
	s.tags = append(s.tags, t)
	return t, nil
}

// Rename replaces the name of tag id in place.
func (s *Store) Rename(id, name string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("tagstore: rename %q: %w", id, apperr.ErrNotFound)
	}
	trimmed, err := ValidateName(name)
	if err != nil {
		return err
	}
	s.tags[i].Name = trimmed
	return nil
}

// Recolor replaces the color of tag id.
func (s *Store) Recolor(id string, color models.Color) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("tagstore: recolor %q: %w", id, apperr.ErrNotFound)
	}
	if s.colors != nil {
		if err := s.colors.Accepts(color); err != nil {
			return err
		}
	}
	s.tags[i].Color = color
	return nil
}

// Delete removes tag id and reports whether it was present. Selections that
// reference id are the caller's to prune.
func (s *Store) Delete(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.tags = append(s.tags[:i], s.tags[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.tags); j++ {
		s.index[s.tags[j].ID] = j
	}
	return true
}

// Find returns the tag with the given id.
func (s *Store) Find(id string) (models.Tag, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Tag{}, false
	}
	return s.tags[i], true
}

// Filter yields the tags matching pred in insertion order. The sequence is
// evaluated lazily and may be ranged over more than once.
func (s *Store) Filter(pred func(models.Tag) bool) iter.Seq[models.Tag] {
	return func(yield func(models.Tag) bool) {
		for _, t := range s.tags {
			if pred != nil && !pred(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// All yields every tag in insertion order.
func (s *Store) All() iter.Seq[models.Tag] {
	return s.Filter(nil)
}

// Tags returns a copy of the tags in insertion order.
func (s *Store) Tags() []models.Tag {
	return append([]models.Tag{}, s.tags...)
}

// IDSet returns the set of ids currently in the store.
func (s *Store) IDSet() map[string]struct{} {
	out := make(map[string]struct{}, len(s.tags))
	for _, t := range s.tags {
		out[t.ID] = struct{}{}
	}
	return out
}

// Len returns the number of tags.
func (s *Store) Len() int { return len(s.tags) }

// Clone returns a deep copy sharing the id generator and color source.
func (s *Store) Clone() *Store {
	c := &Store{
		tags:   append([]models.Tag{}, s.tags...),
		index:  make(map[string]int, len(s.index)),
		newID:  s.newID,
		colors: s.colors,
	}
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

func (s *Store) has(id string) bool {
	_, ok := s.index[id]
	return ok
}
