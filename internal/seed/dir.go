// Package seed loads the initial committed state of tag fields from a
// directory of YAML files, one per entity, and reloads them on change.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/tagfield/internal/checksum"
)

// Ext is the extension of seed files.
const Ext = ".yaml"

// FileMeta describes one seed file.
type FileMeta struct {
	Entity    string
	Path      string
	Checksum  string
	UpdatedAt time.Time
}

// Dir is a read-only view of a seed directory.
type Dir struct {
	root string // absolute path to the seed directory
}

// NewDir creates a Dir rooted at root. The directory must already exist.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("seed: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("seed: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("seed: root is not a directory: %s", abs)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory path.
func (d *Dir) Root() string { return d.root }

// EntityOf maps a seed file name to its entity id, reporting false for files
// that are not seed files.
func EntityOf(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, Ext) {
		return "", false
	}
	entity := strings.TrimSuffix(base, Ext)
	return entity, entity != ""
}

// path resolves an entity to its file and rejects ids that would escape the
// directory.
func (d *Dir) path(entity string) (string, error) {
	if entity == "" || strings.ContainsAny(entity, `/\`) || entity == "." || entity == ".." {
		return "", fmt.Errorf("seed: invalid entity id %q", entity)
	}
	return filepath.Join(d.root, entity+Ext), nil
}

// List returns metadata for every seed file directly under the root.
func (d *Dir) List() ([]FileMeta, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("seed: list: %w", err)
	}
	var out []FileMeta
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		entity, ok := EntityOf(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("seed: stat %s: %w", e.Name(), err)
		}
		p := filepath.Join(d.root, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("seed: read %s: %w", e.Name(), err)
		}
		out = append(out, FileMeta{
			Entity:    entity,
			Path:      p,
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of the seed file for entity.
func (d *Dir) Read(entity string) ([]byte, error) {
	p, err := d.path(entity)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", entity, err)
	}
	return data, nil
}
