package ruleset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/dice"
)

// DefaultHitDie is used when an archetype does not name one.
const DefaultHitDie = "1d8"

// Archetype is a class/weapon archetype; it decides the hit-point roll made on
// every finalized level-up.
type Archetype struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	HitDie      string `yaml:"hit_die"`
}

// HitDieExpression returns the parsed hit die, falling back to DefaultHitDie.
//
// Precondition: a passed Validate, or a is nil.
func (a *Archetype) HitDieExpression() dice.Expression {
	if a == nil || a.HitDie == "" {
		return dice.MustParse(DefaultHitDie)
	}
	return dice.MustParse(a.HitDie)
}

// Validate checks that the Archetype satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (a *Archetype) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.HitDie != "" {
		if _, err := dice.Parse(a.HitDie); err != nil {
			errs = append(errs, fmt.Errorf("hit_die: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("archetype validation failed: %v", errs)
	}
	return nil
}

// LoadArchetypes reads all .yaml files in dir and parses each as an Archetype.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed, valid archetypes (may be empty slice) or a non-nil error.
func LoadArchetypes(dir string) ([]*Archetype, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	archetypes := make([]*Archetype, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var a Archetype
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("parsing archetype file %s: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("invalid archetype in %s: %w", path, err)
		}
		archetypes = append(archetypes, &a)
	}
	return archetypes, nil
}
