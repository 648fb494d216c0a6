package seed

import (
	"log/slog"
	"sync"

	"github.com/starford/tagfield/internal/checksum"
	"github.com/starford/tagfield/internal/tagfield"
)

// Loader applies seed files to a registry, skipping files whose content has
// not changed since they were last applied.
type Loader struct {
	dir    *Dir
	reg    *tagfield.Registry
	logger *slog.Logger

	mu      sync.Mutex
	applied map[string]string // entity -> checksum
}

// NewLoader creates a loader for dir feeding reg.
func NewLoader(dir *Dir, reg *tagfield.Registry, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, reg: reg, logger: logger, applied: make(map[string]string)}
}

// Dir returns the seed directory.
func (l *Loader) Dir() *Dir { return l.dir }

// Sync applies every seed file. Invalid files are logged and skipped; an
// error is returned only if the directory cannot be listed.
func (l *Loader) Sync() error {
	metas, err := l.dir.List()
	if err != nil {
		return err
	}
	for _, m := range metas {
		if _, err := l.Load(m.Entity); err != nil {
			l.logger.Warn("seed: load failed",
				slog.String("entity", m.Entity),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// Load applies the seed file of entity and reports whether the field changed.
func (l *Loader) Load(entity string) (bool, error) {
	data, err := l.dir.Read(entity)
	if err != nil {
		return false, err
	}
	sum := checksum.Sum(data)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.applied[entity] == sum {
		return false, nil
	}
	snap, err := Parse(data)
	if err != nil {
		return false, err
	}
	if _, err := l.reg.Put(entity, snap, tagfield.SourceSeed); err != nil {
		return false, err
	}
	l.applied[entity] = sum
	l.logger.Debug("seed: applied",
		slog.String("entity", entity),
		slog.Int("tags", len(snap.Tags)))
	return true, nil
}
