package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/tagfield"
)

func init() {
	color.NoColor = true
}

func TestRGB(t *testing.T) {
	cases := []struct {
		in      models.Color
		r, g, b int
		ok      bool
	}{
		{"#FF6B6B", 255, 107, 107, true},
		{"#abc", 170, 187, 204, true},
		{"#12", 0, 0, 0, false},
		{"#GGGGGG", 0, 0, 0, false},
	}
	for _, tc := range cases {
		r, g, b, ok := rgb(tc.in)
		if r != tc.r || g != tc.g || b != tc.b || ok != tc.ok {
			t.Errorf("rgb(%s) = %d,%d,%d,%v", tc.in, r, g, b, ok)
		}
	}
}

func TestFormatPills(t *testing.T) {
	out := FormatPills([]models.Tag{
		{ID: "t1", Name: "Work", Color: "#FF6B6B"},
		{ID: "t2", Name: "Home", Color: "bad"},
	})
	if !strings.Contains(out, "Work") || !strings.Contains(out, "[Home]") {
		t.Errorf("pills = %q", out)
	}
	if FormatPills(nil) != "no tags" {
		t.Errorf("empty = %q", FormatPills(nil))
	}
}

func TestFormatField(t *testing.T) {
	s := tagfield.Summary{
		Entity:    "task-1",
		Pills:     []models.Tag{{ID: "t1", Name: "Work", Color: "#FF6B6B"}},
		Tags:      []models.Tag{{ID: "t1", Name: "Work", Color: "#FF6B6B"}, {ID: "t2", Name: "Home", Color: "#4ECDC4"}},
		Selection: []string{"t1"},
		Editing:   true,
	}
	line := FormatField(s)
	if !strings.HasPrefix(line, "task-1") || !strings.Contains(line, "(editing)") {
		t.Errorf("line = %q", line)
	}

	table := FormatTagTable(s)
	rows := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(rows) != 2 {
		t.Fatalf("rows = %q", rows)
	}
	if !strings.Contains(rows[0], "✓") || strings.Contains(rows[1], "✓") {
		t.Errorf("selection marks wrong: %q", rows)
	}
}
