package seed

import (
	"errors"
	"slices"
	"testing"

	"github.com/starford/tagfield/internal/apperr"
	"github.com/starford/tagfield/internal/models"
)

func TestParse(t *testing.T) {
	data := []byte(`tags:
  - id: t1
    name: "  Work  "
    color: "#FF6B6B"
  - id: t2
    name: Home
    color: "#4ecdc4"
selected: [t2]
`)
	snap, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := models.IDs(snap.Tags); !slices.Equal(got, []string{"t1", "t2"}) {
		t.Errorf("ids = %v", got)
	}
	if snap.Tags[0].Name != "Work" {
		t.Errorf("name = %q, want trimmed", snap.Tags[0].Name)
	}
	if !slices.Equal(snap.Selection, []string{"t2"}) {
		t.Errorf("selection = %v", snap.Selection)
	}
}

func TestParseEmpty(t *testing.T) {
	snap, err := Parse([]byte("tags: []\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Tags) != 0 || len(snap.Selection) != 0 {
		t.Errorf("snap = %+v", snap)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"syntax":         "tags: [",
		"missing id":     "tags:\n  - name: Work\n    color: \"#FF6B6B\"\n",
		"duplicate id":   "tags:\n  - {id: a, name: A, color: \"#FF6B6B\"}\n  - {id: a, name: B, color: \"#FF6B6B\"}\n",
		"blank name":     "tags:\n  - {id: a, name: \"  \", color: \"#FF6B6B\"}\n",
		"bad color":      "tags:\n  - {id: a, name: A, color: red}\n",
		"unknown select": "tags:\n  - {id: a, name: A, color: \"#FF6B6B\"}\nselected: [b]\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			if !errors.Is(err, apperr.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}
