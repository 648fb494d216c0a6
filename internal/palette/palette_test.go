package palette

import (
	"errors"
	"testing"

	"github.com/starford/tagfield/internal/apperr"
	"github.com/starford/tagfield/internal/models"
)

func TestNewDefaultCatalog(t *testing.T) {
	c := NewDefault(First())
	if got := len(c.Colors()); got != 30 {
		t.Fatalf("colors = %d, want 30", got)
	}
	if got := c.Default(); got != "#FF6B6B" {
		t.Errorf("default = %q, want #FF6B6B", got)
	}
}

func TestColorsReturnsCopy(t *testing.T) {
	c := NewDefault(First())
	cols := c.Colors()
	cols[0] = "#000001"
	if c.Colors()[0] != "#FF6B6B" {
		t.Error("catalog mutated through Colors()")
	}
}

func TestCyclePicker(t *testing.T) {
	c, err := New([]models.Color{"#111111", "#222222"}, WithPicker(Cycle()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []models.Color{"#111111", "#222222", "#111111"}
	for i, w := range want {
		if got := c.Default(); got != w {
			t.Errorf("pick %d = %q, want %q", i, got, w)
		}
	}
}

func TestRandomPickerIsDeterministicPerSeed(t *testing.T) {
	a := NewDefault(Random(42))
	b := NewDefault(Random(42))
	for i := 0; i < 10; i++ {
		ca, cb := a.Default(), b.Default()
		if ca != cb {
			t.Fatalf("pick %d differs: %q vs %q", i, ca, cb)
		}
		found := false
		for _, p := range DefaultPool {
			if p == ca {
				found = true
			}
		}
		if !found {
			t.Errorf("pick %q not in default pool", ca)
		}
	}
}

func TestNewRejectsBadColors(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("empty catalog should fail")
	}
	if _, err := New([]models.Color{"red"}); err == nil {
		t.Error("non-hex color should fail")
	}
	if _, err := New([]models.Color{"123456"}); err == nil {
		t.Error("color without '#' should fail")
	}
}

func TestAcceptsAdvisoryAndStrict(t *testing.T) {
	advisory := NewDefault(First())
	if err := advisory.Accepts("#123456"); err != nil {
		t.Errorf("advisory catalog should accept any hex: %v", err)
	}
	if err := advisory.Accepts("blue"); !errors.Is(err, apperr.ErrInvalidColor) {
		t.Errorf("err = %v, want ErrInvalidColor", err)
	}

	strict, err := New(Swatches, Strict(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := strict.Accepts("#123456"); !errors.Is(err, apperr.ErrInvalidColor) {
		t.Errorf("strict catalog accepted foreign color: %v", err)
	}
	if err := strict.Accepts("#ff6b6b"); err != nil {
		t.Errorf("strict catalog should match case-insensitively: %v", err)
	}
}

func TestPickerFor(t *testing.T) {
	for _, p := range []string{"", PolicyRandom, PolicyFirst, PolicyCycle} {
		if _, err := PickerFor(p, 1); err != nil {
			t.Errorf("PickerFor(%q): %v", p, err)
		}
	}
	if _, err := PickerFor("rainbow", 1); err == nil {
		t.Error("unknown policy should fail")
	}
}
