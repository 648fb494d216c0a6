package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/tagfield/internal/testutil"
)

func TestEntityOf(t *testing.T) {
	cases := []struct {
		name   string
		entity string
		ok     bool
	}{
		{"task-1.yaml", "task-1", true},
		{"/abs/path/card.yaml", "card", true},
		{".hidden.yaml", "", false},
		{"notes.md", "", false},
		{".yaml", "", false},
		{"task.yaml.swp", "", false},
	}
	for _, tc := range cases {
		got, ok := EntityOf(tc.name)
		if got != tc.entity || ok != tc.ok {
			t.Errorf("EntityOf(%q) = %q, %v; want %q, %v", tc.name, got, ok, tc.entity, tc.ok)
		}
	}
}

func TestNewDirRejectsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDir(f); err == nil {
		t.Error("expected error for a regular file")
	}
	if _, err := NewDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestDirList(t *testing.T) {
	root := testutil.TestSeedDir(t, map[string]string{
		"a.yaml":      "tags: []\n",
		"b.yaml":      "tags: []\nselected: []\n",
		"readme.md":   "# not a seed\n",
		".draft.yaml": "tags: []\n",
	})
	if err := os.Mkdir(filepath.Join(root, "sub.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}
	d, err := NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	metas, err := d.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(metas), metas)
	}
	for _, m := range metas {
		if m.Checksum == "" || m.UpdatedAt.IsZero() {
			t.Errorf("incomplete meta: %+v", m)
		}
	}
	if metas[0].Checksum == metas[1].Checksum {
		t.Error("different content should have different checksums")
	}
}

func TestDirReadRejectsTraversal(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, entity := range []string{"", "..", "../etc/passwd", `a\b`, "a/b"} {
		if _, err := d.Read(entity); err == nil {
			t.Errorf("Read(%q) should fail", entity)
		}
	}
}
