package tagfield

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/palette"
	"github.com/starford/tagfield/internal/tagstore"
)

// Snapshot is a copy of committed state.
type Snapshot struct {
	Tags      []models.Tag `json:"tags" yaml:"tags"`
	Selection []string     `json:"selection" yaml:"selected"`
}

// Validate checks tag ids are present and unique, names and colors are
// well-formed, and every selected id names a tag.
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Tags))
	for i, t := range s.Tags {
		if err := validation.Validate(t.ID, validation.Required); err != nil {
			return fmt.Errorf("tags[%d].id: %v", i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("tags[%d].id: duplicate %q", i, t.ID)
		}
		seen[t.ID] = struct{}{}
		if _, err := tagstore.ValidateName(t.Name); err != nil {
			return fmt.Errorf("tags[%d].name: %w", i, err)
		}
		if err := palette.ValidateColor(t.Color); err != nil {
			return fmt.Errorf("tags[%d].color: %w", i, err)
		}
	}
	return validation.ValidateStruct(&s,
		validation.Field(&s.Selection, validation.Each(validation.By(func(v interface{}) error {
			id, _ := v.(string)
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("unknown tag %q", id)
			}
			return nil
		}))),
	)
}

// Normalized returns a copy with tag names trimmed.
func (s Snapshot) Normalized() Snapshot {
	tags := make([]models.Tag, len(s.Tags))
	for i, t := range s.Tags {
		t.Name = models.NormalizeName(t.Name)
		tags[i] = t
	}
	return Snapshot{Tags: tags, Selection: append([]string(nil), s.Selection...)}
}
