package internal

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/tagfield/internal/apperr"
	"github.com/starford/tagfield/internal/models"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestPaletteConfig_Defaults(t *testing.T) {
	cfg := PaletteConfig{Seed: 7}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultPick != "random" {
		t.Errorf("default_pick = %q", cfg.DefaultPick)
	}
	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Colors()) != 30 {
		t.Errorf("colors = %d, want the 30 stock swatches", len(cat.Colors()))
	}
	if cat.IsStrict() {
		t.Error("catalog should be advisory by default")
	}
}

func TestPaletteConfig_CustomStrict(t *testing.T) {
	cfg := PaletteConfig{
		Colors:      []string{"#111111", "#222222"},
		DefaultPick: "first",
		Strict:      true,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if got := cat.Default(); got != "#111111" {
		t.Errorf("default = %s", got)
	}
	if err := cat.Accepts(models.Color("#333333")); !errors.Is(err, apperr.ErrInvalidColor) {
		t.Errorf("strict catalog accepted a foreign color: %v", err)
	}
}

func TestPaletteConfig_Invalid(t *testing.T) {
	for name, cfg := range map[string]PaletteConfig{
		"policy": {DefaultPick: "loudest"},
		"color":  {Colors: []string{"red"}},
		"pool":   {Pool: []string{"#12"}},
	} {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestSeedConfig_WatchNeedsDir(t *testing.T) {
	cfg := SeedConfig{Watch: true}
	if err := cfg.Validate(); err == nil {
		t.Error("watch without dir should fail")
	}
	cfg = SeedConfig{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty seed config should pass: %v", err)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
}
