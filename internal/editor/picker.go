package editor

import (
	"strings"

	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/palette"
)

// ColorPicker is a nested session scoped to one tag's color. It resolves on
// the first Pick or Dismiss; there is no separate save step.
type ColorPicker struct {
	session *Session
	tagID   string
	seed    models.Color
	chosen  models.Color
	done    bool
}

// Swatch is one color choice shown by the picker.
type Swatch struct {
	Color    models.Color `json:"color"`
	Selected bool         `json:"selected"`
}

// TagID returns the tag being recolored.
func (p *ColorPicker) TagID() string { return p.tagID }

// Seed returns the tag's color when the picker opened.
func (p *ColorPicker) Seed() models.Color { return p.seed }

// Chosen returns the picked color, or the seed if nothing was picked.
func (p *ColorPicker) Chosen() models.Color { return p.chosen }

// Open reports whether the picker is still waiting for a choice.
func (p *ColorPicker) Open() bool { return !p.done }

// Colors enumerates the catalog with the current color marked.
func (p *ColorPicker) Colors() []Swatch {
	cols := palette.Swatches
	if p.session.catalog != nil {
		cols = p.session.catalog.Colors()
	}
	out := make([]Swatch, len(cols))
	for i, c := range cols {
		out[i] = Swatch{Color: c, Selected: strings.EqualFold(string(c), string(p.chosen))}
	}
	return out
}

// Pick recolors the tag in the owning session's draft and closes the picker.
// A color the catalog rejects leaves the picker open.
func (p *ColorPicker) Pick(color models.Color) error {
	return p.session.resolvePicker(p, &color)
}

// Dismiss closes the picker, keeping the tag's current color.
func (p *ColorPicker) Dismiss() error {
	return p.session.resolvePicker(p, nil)
}
