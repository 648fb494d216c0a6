// Package palette provides the fixed, ordered color catalog tags draw from.
package palette

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/tagfield/internal/apperr"
	"github.com/starford/tagfield/internal/models"
)

// Fallback is used when a color cannot be resolved for a tag.
const Fallback models.Color = "#FF6B6B"

// Swatches is the grid offered by the color overlay, in display order.
var Swatches = []models.Color{
	"#FF6B6B", "#FF8E8E", "#FFB8B8",
	"#4ECDC4", "#83E4DF", "#B0F0EC",
	"#F9DC5C", "#FBE78A", "#FDF1B8",
	"#7158E2", "#9785EA", "#BDB5F1",
	"#3581B8", "#6AA3CB", "#9FC5DE",
	"#FF7A5A", "#FF9B83", "#FFBDAD",
	"#9BC53D", "#B5D56A", "#D0E59A",
	"#5F6CAF", "#858DCB", "#ACB1E1",
	"#444444", "#777777", "#AAAAAA",
	"#000000", "#333333", "#666666",
}

// DefaultPool is the set new tags get their initial color from.
var DefaultPool = []models.Color{
	"#FF6B6B", "#4ECDC4", "#F9DC5C", "#7158E2", "#3581B8",
	"#FFAE03", "#FB8B24", "#E36414", "#9BC53D", "#5BC0EB",
}

// Pick policies.
const (
	PolicyRandom = "random"
	PolicyFirst  = "first"
	PolicyCycle  = "cycle"
)

// Picker chooses one color out of a non-empty pool.
type Picker func(pool []models.Color) models.Color

// Random picks uniformly using a PCG source seeded with seed.
func Random(seed uint64) Picker {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(pool []models.Color) models.Color {
		return pool[r.IntN(len(pool))]
	}
}

// First always picks the first pool entry.
func First() Picker {
	return func(pool []models.Color) models.Color {
		return pool[0]
	}
}

// Cycle walks the pool round-robin.
func Cycle() Picker {
	next := 0
	return func(pool []models.Color) models.Color {
		c := pool[next%len(pool)]
		next++
		return c
	}
}

// PickerFor returns the picker registered under policy.
func PickerFor(policy string, seed uint64) (Picker, error) {
	switch policy {
	case PolicyRandom, "":
		return Random(seed), nil
	case PolicyFirst:
		return First(), nil
	case PolicyCycle:
		return Cycle(), nil
	default:
		return nil, fmt.Errorf("palette: unknown pick policy %q", policy)
	}
}

// ValidateColor reports whether c is a "#"-prefixed hex color.
func ValidateColor(c models.Color) error {
	s := string(c)
	if err := validation.Validate(s, validation.Required, is.HexColor); err != nil {
		return fmt.Errorf("%w: %q: %v", apperr.ErrInvalidColor, s, err)
	}
	if !strings.HasPrefix(s, "#") {
		return fmt.Errorf("%w: %q: missing '#'", apperr.ErrInvalidColor, s)
	}
	return nil
}

// Catalog is an immutable, ordered set of colors plus a default-pick policy.
// It is safe for concurrent use.
type Catalog struct {
	colors []models.Color
	pool   []models.Color
	strict bool

	mu   sync.Mutex
	pick Picker
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithPool sets the colors new tags are assigned from. Defaults to the catalog colors.
func WithPool(pool []models.Color) Option {
	return func(c *Catalog) {
		c.pool = append([]models.Color(nil), pool...)
	}
}

// WithPicker sets the default-pick policy.
func WithPicker(p Picker) Option {
	return func(c *Catalog) {
		c.pick = p
	}
}

// Strict makes Accepts reject colors outside the catalog.
func Strict(strict bool) Option {
	return func(c *Catalog) {
		c.strict = strict
	}
}

// New builds a catalog from colors. Every color must be a valid hex value.
func New(colors []models.Color, opts ...Option) (*Catalog, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("palette: no colors")
	}
	c := &Catalog{colors: append([]models.Color(nil), colors...)}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.pool) == 0 {
		c.pool = c.colors
	}
	if c.pick == nil {
		c.pick = First()
	}
	for _, col := range append(append([]models.Color(nil), c.colors...), c.pool...) {
		if err := ValidateColor(col); err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
	}
	return c, nil
}

// NewDefault returns the stock swatch catalog drawing new-tag colors from
// DefaultPool with p.
func NewDefault(p Picker) *Catalog {
	c, err := New(Swatches, WithPool(DefaultPool), WithPicker(p))
	if err != nil {
		panic(err)
	}
	return c
}

// Colors returns the catalog colors in display order.
func (c *Catalog) Colors() []models.Color {
	return append([]models.Color(nil), c.colors...)
}

// Contains reports whether col is one of the catalog colors (case-insensitive).
func (c *Catalog) Contains(col models.Color) bool {
	for _, x := range c.colors {
		if strings.EqualFold(string(x), string(col)) {
			return true
		}
	}
	return false
}

// IsStrict reports whether the catalog rejects colors it does not contain.
func (c *Catalog) IsStrict() bool { return c.strict }

// Accepts validates col against the membership policy. An advisory catalog
// accepts any well-formed hex color.
func (c *Catalog) Accepts(col models.Color) error {
	if err := ValidateColor(col); err != nil {
		return err
	}
	if c.strict && !c.Contains(col) {
		return fmt.Errorf("%w: %q is not in the catalog", apperr.ErrInvalidColor, col)
	}
	return nil
}

// Default returns a color for a newly created tag.
func (c *Catalog) Default() models.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pick(c.pool)
}
