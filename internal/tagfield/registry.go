package tagfield

import (
	"fmt"
	"slices"
	"sync"

	"github.com/starford/tagfield/internal/apperr"
)

// Registry indexes fields by entity id. Fields created through it share the
// registry's options.
type Registry struct {
	opts []Option

	mu     sync.RWMutex
	fields map[string]*Field
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{opts: opts, fields: make(map[string]*Field)}
}

// Get returns the field for entity.
func (r *Registry) Get(entity string) (*Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fields[entity]
	if !ok {
		return nil, fmt.Errorf("tagfield: entity %q: %w", entity, apperr.ErrNotFound)
	}
	return f, nil
}

// Put creates the field for entity, or replaces its committed state if it
// already exists.
func (r *Registry) Put(entity string, snap Snapshot, source string) (*Field, error) {
	if entity == "" {
		return nil, fmt.Errorf("tagfield: empty entity id: %w", apperr.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.fields[entity]; ok {
		return f, f.Replace(snap, source)
	}
	f, err := New(entity, snap, r.opts...)
	if err != nil {
		return nil, err
	}
	r.fields[entity] = f
	f.sink.Emit(Event{
		Kind:      EventTagsReplaced,
		Entity:    entity,
		Source:    source,
		Tags:      f.tags.Tags(),
		Selection: f.sel.IDs(),
	})
	return f, nil
}

// Entities returns the registered entity ids, sorted.
func (r *Registry) Entities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.fields))
	for id := range r.fields {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of fields.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fields)
}
