package inventory

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTemplate is returned when an item references a template ID that is not registered.
var ErrUnknownTemplate = errors.New("inventory: unknown template")

// Registry holds all loaded equipment templates indexed by ID.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry returns an empty Registry.
//
// Postcondition: the internal map is initialised.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register adds t to the registry.
//
// Precondition:  t must not be nil.
// Postcondition: Template(t.ID) returns (t, true); returns error if t.ID already registered.
func (r *Registry) Register(t *Template) error {
	if _, exists := r.templates[t.ID]; exists {
		return fmt.Errorf("inventory: Registry.Register: template ID %q already registered", t.ID)
	}
	r.templates[t.ID] = t
	return nil
}

// Template returns the Template for id and true, or nil and false if not found.
func (r *Registry) Template(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// All returns every registered template sorted by ID.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.templates) }

// LoadRegistry loads every template in dir into a new Registry.
//
// Precondition: dir is a readable directory of template YAML files.
// Postcondition: returns a Registry holding every template, or an error on
// the first invalid file or duplicate ID.
func LoadRegistry(dir string) (*Registry, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, t := range templates {
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
