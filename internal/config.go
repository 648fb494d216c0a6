package internal

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/palette"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Palette PaletteConfig     `yaml:"palette"`
	Seed    SeedConfig        `yaml:"seed"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Palette.Validate(); err != nil {
		return err
	}
	if err := c.Seed.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// PaletteConfig describes the color catalog.
//
// Colors is the swatch grid shown by the color picker and Pool the colors new
// tags draw from; both fall back to the stock palettes when empty. With Strict
// set, recoloring only accepts catalog colors.
type PaletteConfig struct {
	Colors      []string `yaml:"colors"`
	Pool        []string `yaml:"pool"`
	DefaultPick string   `yaml:"default_pick"`
	Strict      bool     `yaml:"strict"`
	Seed        uint64   `yaml:"seed"`
}

// Validate validates the palette configuration.
func (c *PaletteConfig) Validate() error {
	if c.DefaultPick == "" {
		c.DefaultPick = palette.PolicyRandom
	}
	hex := validation.By(func(v interface{}) error {
		s, _ := v.(string)
		return palette.ValidateColor(models.Color(s))
	})
	return validation.ValidateStruct(c,
		validation.Field(&c.Colors, validation.Each(hex)),
		validation.Field(&c.Pool, validation.Each(hex)),
		validation.Field(&c.DefaultPick, validation.In(palette.PolicyRandom, palette.PolicyFirst, palette.PolicyCycle)),
	)
}

// Catalog builds the configured catalog. A zero seed draws a random one.
func (c *PaletteConfig) Catalog() (*palette.Catalog, error) {
	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	pick, err := palette.PickerFor(c.DefaultPick, seed)
	if err != nil {
		return nil, err
	}
	colors := palette.Swatches
	if len(c.Colors) > 0 {
		colors = toColors(c.Colors)
	}
	pool := palette.DefaultPool
	if len(c.Pool) > 0 {
		pool = toColors(c.Pool)
	} else if len(c.Colors) > 0 {
		pool = colors
	}
	return palette.New(colors,
		palette.WithPool(pool),
		palette.WithPicker(pick),
		palette.Strict(c.Strict))
}

func toColors(in []string) []models.Color {
	out := make([]models.Color, len(in))
	for i, s := range in {
		out[i] = models.Color(s)
	}
	return out
}

// SeedConfig holds the directory of per-entity seed files.
type SeedConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the seed configuration.
func (c *SeedConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.When(c.Watch, validation.Required)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Palette: PaletteConfig{
			DefaultPick: palette.PolicyRandom,
		},
		Seed: SeedConfig{
			Dir:   "./seeds",
			Watch: true,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
