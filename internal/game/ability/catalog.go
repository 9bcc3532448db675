// Package ability tracks which catalog abilities a character has learned.
// Abilities carry no numeric effect; the ledger is a membership and
// validation structure only.
package ability

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type groups abilities into independent catalogs.
type Type string

const (
	TypeRacial    Type = "racial"
	TypeFeat      Type = "feat"
	TypeSpell     Type = "spell"
	TypeTechnique Type = "technique"
)

// Types returns every ability type in display order.
func Types() []Type {
	return []Type{TypeRacial, TypeFeat, TypeSpell, TypeTechnique}
}

// Valid reports whether t is a known ability type.
func (t Type) Valid() bool {
	switch t {
	case TypeRacial, TypeFeat, TypeSpell, TypeTechnique:
		return true
	}
	return false
}

// Template is the static definition of an ability, loaded from YAML.
type Template struct {
	Name          string   `yaml:"name"` // unique within its type
	Type          Type     `yaml:"type"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Prerequisites []string `yaml:"prerequisites"` // descriptive only
}

// ID returns the ledger identifier for the template.
func (t *Template) ID() string { return EntryID(t.Type, t.Name) }

// Validate checks that the Template satisfies its invariants.
func (t *Template) Validate() error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !t.Type.Valid() {
		errs = append(errs, fmt.Errorf("type %q is not a valid ability type", t.Type))
	}
	if len(errs) > 0 {
		return fmt.Errorf("ability %q: %v", t.Name, errs)
	}
	return nil
}

// EntryID derives the ledger identifier from type and name.
func EntryID(t Type, name string) string {
	return string(t) + ":" + name
}

// Catalog holds all known ability templates keyed by type, then name.
type Catalog struct {
	byType map[Type]map[string]*Template
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{byType: make(map[Type]map[string]*Template)}
}

// Register adds t to the catalog.
//
// Precondition: t must not be nil.
// Postcondition: Get(t.Type, t.Name) returns t; returns an error if t is
// invalid or already registered.
func (c *Catalog) Register(t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	names, ok := c.byType[t.Type]
	if !ok {
		names = make(map[string]*Template)
		c.byType[t.Type] = names
	}
	if _, exists := names[t.Name]; exists {
		return fmt.Errorf("ability: Catalog.Register: %q already registered", t.ID())
	}
	names[t.Name] = t
	return nil
}

// Get returns the template for (typ, name), or (nil, false) if not found.
func (c *Catalog) Get(typ Type, name string) (*Template, bool) {
	t, ok := c.byType[typ][name]
	return t, ok
}

// ByType returns the templates of typ sorted by name.
func (c *Catalog) ByType(typ Type) []*Template {
	out := make([]*Template, 0, len(c.byType[typ]))
	for _, t := range c.byType[typ] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of templates across all types.
func (c *Catalog) Len() int {
	n := 0
	for _, names := range c.byType {
		n += len(names)
	}
	return n
}

type catalogFile struct {
	Abilities []*Template `yaml:"abilities"`
}

// LoadDirectory reads every *.yaml file in dir, each holding an `abilities`
// list, and returns a populated Catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a non-nil Catalog, or an error if any file fails to
// parse or any template is invalid or duplicated.
func LoadDirectory(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading ability dir %q: %w", dir, err)
	}
	cat := NewCatalog()
	for _, e := range entries {
		if e.IsDir() || !(strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var file catalogFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, t := range file.Abilities {
			if err := cat.Register(t); err != nil {
				return nil, fmt.Errorf("loading %q: %w", path, err)
			}
		}
	}
	return cat, nil
}
