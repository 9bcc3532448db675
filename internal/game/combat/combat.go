// Package combat derives attack, damage, and armor-class numbers from a
// character's effective stats and synced equipment. Every result carries an
// ordered breakdown of named terms whose values sum to its total.
package combat

import (
	"errors"
	"fmt"
)

// ErrNoWeapon is returned when a roll is requested for an empty hand.
var ErrNoWeapon = errors.New("combat: no weapon equipped in hand")

// Hand selects which equipped weapon a roll uses.
type Hand int

const (
	MainHand Hand = iota
	OffHand
)

// String returns a human-readable hand label.
func (h Hand) String() string {
	switch h {
	case MainHand:
		return "main hand"
	case OffHand:
		return "off hand"
	default:
		return "unknown"
	}
}

// Term names one additive component of a roll or derived value.
type Term struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Breakdown is an ordered list of additive terms.
type Breakdown []Term

// Sum returns the sum of all term values.
func (b Breakdown) Sum() int {
	total := 0
	for _, t := range b {
		total += t.Value
	}
	return total
}

// Has reports whether a term with the given name is present.
func (b Breakdown) Has(name string) bool {
	for _, t := range b {
		if t.Name == name {
			return true
		}
	}
	return false
}

// String renders the breakdown as "a (+1) + b (+2)".
func (b Breakdown) String() string {
	s := ""
	for i, t := range b {
		if i > 0 {
			s += " + "
		}
		s += fmt.Sprintf("%s (%+d)", t.Name, t.Value)
	}
	return s
}

// Outcome is the 4-tier attack result.
type Outcome int

const (
	CritSuccess Outcome = iota
	Success
	Failure
	CritFailure
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case CritSuccess:
		return "critical success"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case CritFailure:
		return "critical failure"
	default:
		return "unknown"
	}
}

// OutcomeFor determines the 4-tier attack outcome for a given roll vs AC.
// Precondition: roll >= 1; ac >= 10.
// Postcondition: Returns one of CritSuccess, Success, Failure, CritFailure.
func OutcomeFor(roll, ac int) Outcome {
	switch {
	case roll >= ac+10:
		return CritSuccess
	case roll >= ac:
		return Success
	case roll >= ac-10:
		return Failure
	default:
		return CritFailure
	}
}

// LevelBonus returns the main-hand attack bonus for the given level.
// Formula: 2 + (level-1)/4.
// Precondition: level >= 1.
// Postcondition: Returns >= 2.
func LevelBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return 2 + (level-1)/4
}
