// Package ruleset defines the ability and resource vocabulary shared by the
// rules engine and the read-only reference catalogs (races, archetypes)
// loaded from YAML content.
package ruleset

import (
	"errors"
	"fmt"
	"strings"
)

// Ability names one of the three character ability scores.
type Ability string

const (
	// Strength qualifies combat-maneuver points.
	Strength Ability = "strength"
	// Dexterity qualifies finesse points.
	Dexterity Ability = "dexterity"
	// Intelligence qualifies sorcery points.
	Intelligence Ability = "intelligence"
)

// ErrUnknownAbility is wrapped by ParseAbility failures.
var ErrUnknownAbility = errors.New("unknown ability")

// Abilities returns the three abilities in canonical display order.
func Abilities() []Ability {
	return []Ability{Strength, Dexterity, Intelligence}
}

// Valid reports whether a is one of the three known abilities.
func (a Ability) Valid() bool {
	switch a {
	case Strength, Dexterity, Intelligence:
		return true
	}
	return false
}

// Short returns the three-letter display label.
func (a Ability) Short() string {
	switch a {
	case Strength:
		return "STR"
	case Dexterity:
		return "DEX"
	case Intelligence:
		return "INT"
	}
	return fmt.Sprintf("<%s>", string(a))
}

// ParseAbility accepts a full name or the three-letter abbreviation, case-insensitively.
//
// Postcondition: Returns a valid Ability or an error wrapping ErrUnknownAbility.
func ParseAbility(s string) (Ability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strength", "str":
		return Strength, nil
	case "dexterity", "dex":
		return Dexterity, nil
	case "intelligence", "int":
		return Intelligence, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAbility, s)
}

// Resource names one of the tracked resource pools.
type Resource string

const (
	// SorceryPoints is the intelligence-qualified, non-retroactive pool.
	SorceryPoints Resource = "sorcery_points"
	// FinessePoints is the dexterity-qualified, non-retroactive pool.
	FinessePoints Resource = "finesse_points"
	// ManeuverPoints is the strength-qualified, retroactive pool.
	ManeuverPoints Resource = "maneuver_points"
)

// Resources returns the tracked pools in display order.
func Resources() []Resource {
	return []Resource{SorceryPoints, FinessePoints, ManeuverPoints}
}

// Valid reports whether r is a tracked resource.
func (r Resource) Valid() bool {
	switch r {
	case SorceryPoints, FinessePoints, ManeuverPoints:
		return true
	}
	return false
}

// Modifier returns the ability modifier for score: floor((score - 10) / 2).
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}
