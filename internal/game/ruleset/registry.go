package ruleset

import "fmt"

// Registry provides lookup of races and archetypes by ID.
type Registry struct {
	races      map[string]*Race
	archetypes map[string]*Archetype
}

// NewRegistry returns an empty Registry.
//
// Postcondition: Returns a non-nil *Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{
		races:      make(map[string]*Race),
		archetypes: make(map[string]*Archetype),
	}
}

// RegisterRace adds r to the registry.
//
// Precondition: r must be non-nil with a non-empty ID.
// Postcondition: Race(r.ID) returns r; returns error if r.ID already registered.
func (reg *Registry) RegisterRace(r *Race) error {
	if r == nil || r.ID == "" {
		panic("Registry.RegisterRace: precondition violated: race must be non-nil with an ID")
	}
	if _, exists := reg.races[r.ID]; exists {
		return fmt.Errorf("ruleset: race ID %q already registered", r.ID)
	}
	reg.races[r.ID] = r
	return nil
}

// RegisterArchetype adds a to the registry.
//
// Precondition: a must be non-nil with a non-empty ID.
// Postcondition: Archetype(a.ID) returns a; returns error if a.ID already registered.
func (reg *Registry) RegisterArchetype(a *Archetype) error {
	if a == nil || a.ID == "" {
		panic("Registry.RegisterArchetype: precondition violated: archetype must be non-nil with an ID")
	}
	if _, exists := reg.archetypes[a.ID]; exists {
		return fmt.Errorf("ruleset: archetype ID %q already registered", a.ID)
	}
	reg.archetypes[a.ID] = a
	return nil
}

// Race returns the Race for id, if registered.
func (reg *Registry) Race(id string) (*Race, bool) {
	r, ok := reg.races[id]
	return r, ok
}

// Archetype returns the Archetype for id, if registered.
func (reg *Registry) Archetype(id string) (*Archetype, bool) {
	a, ok := reg.archetypes[id]
	return a, ok
}

// LoadRegistry loads races and archetypes from their content directories.
//
// Postcondition: Returns a populated Registry or the first load/registration error.
func LoadRegistry(racesDir, archetypesDir string) (*Registry, error) {
	reg := NewRegistry()
	races, err := LoadRaces(racesDir)
	if err != nil {
		return nil, err
	}
	for _, r := range races {
		if err := reg.RegisterRace(r); err != nil {
			return nil, err
		}
	}
	archetypes, err := LoadArchetypes(archetypesDir)
	if err != nil {
		return nil, err
	}
	for _, a := range archetypes {
		if err := reg.RegisterArchetype(a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
