package theme

import (
	"fmt"
	"sort"
	"sync"

	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

// Registry maps theme ids to themes. Get is total: unknown ids resolve to
// the fallback theme the registry was built with.
type Registry struct {
	mu       sync.RWMutex
	themes   map[string]*Theme
	fallback *Theme
}

// NewRegistry returns a registry holding fallback.
func NewRegistry(fallback *Theme) (*Registry, error) {
	if fallback == nil {
		return nil, carouselerrors.NewThemeError("", "fallback theme is nil", nil)
	}

	r := &Registry{themes: make(map[string]*Theme)}
	if err := r.Register(fallback); err != nil {
		return nil, err
	}
	r.fallback = fallback
	return r, nil
}

// Register validates and adds a theme. Duplicate ids are rejected.
func (r *Registry) Register(t *Theme) error {
	if t == nil {
		return carouselerrors.NewThemeError("", "theme is nil", nil)
	}
	if err := t.Validate(); err != nil {
		return carouselerrors.NewThemeError(t.ID, "invalid theme", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.themes[t.ID]; exists {
		return carouselerrors.NewThemeError(t.ID, "theme already registered", nil)
	}

	r.themes[t.ID] = t
	return nil
}

// Get returns the theme for id, or the fallback theme.
func (r *Registry) Get(id string) *Theme {
	if t, ok := r.Lookup(id); ok {
		return t
	}
	return r.fallback
}

// Lookup returns the theme for id without falling back.
func (r *Registry) Lookup(id string) (*Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.themes[id]
	return t, ok
}

// Fallback returns the theme used for unknown ids.
func (r *Registry) Fallback() *Theme {
	return r.fallback
}

// List returns every theme sorted by id.
func (r *Registry) List() []*Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Theme, 0, len(r.themes))
	for _, t := range r.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns the registered theme ids, sorted.
func (r *Registry) IDs() []string {
	themes := r.List()
	ids := make([]string, len(themes))
	for i, t := range themes {
		ids[i] = t.ID
	}
	return ids
}

// String implements fmt.Stringer for log fields.
func (r *Registry) String() string {
	return fmt.Sprintf("themes%v", r.IDs())
}
