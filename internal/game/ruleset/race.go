package ruleset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Race is a playable race: fixed ability adjustments applied once at creation,
// plus an optional racial ability granted to every member.
//
// Precondition: ID and Name must be non-empty after loading.
type Race struct {
	ID            string          `yaml:"id"`
	Name          string          `yaml:"name"`
	Article       string          `yaml:"article"`
	Description   string          `yaml:"description"`
	Modifiers     map[Ability]int `yaml:"modifiers"`
	RacialAbility string          `yaml:"racial_ability"`
	Traits        []string        `yaml:"traits"`
}

// DisplayName returns the human-readable race name with its grammatical article.
// If Article is empty, returns Name alone.
func (r *Race) DisplayName() string {
	if r.Article == "" {
		return r.Name
	}
	return r.Article + " " + r.Name
}

// Bonus returns the racial adjustment for a, zero when none is defined.
func (r *Race) Bonus(a Ability) int {
	if r == nil {
		return 0
	}
	return r.Modifiers[a]
}

// Validate checks that the Race satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (r *Race) Validate() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	for a := range r.Modifiers {
		if !a.Valid() {
			errs = append(errs, fmt.Errorf("modifier for unknown ability %q", a))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("race validation failed: %v", errs)
	}
	return nil
}

// LoadRaces reads all .yaml files in dir and parses each as a Race.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed, valid races (may be empty slice) or a non-nil error.
func LoadRaces(dir string) ([]*Race, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	races := make([]*Race, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var r Race
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parsing race file %s: %w", path, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid race in %s: %w", path, err)
		}
		races = append(races, &r)
	}
	return races, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
