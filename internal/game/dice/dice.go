// Package dice provides the randomness abstraction, notation parser, and
// roll-result types consumed by the progression engine and combat calculator.
package dice

import (
	"fmt"
	"sync/atomic"
)

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
	Averaged   bool   // true when produced in ModeAverage
}

// Sum returns the sum of the die results without the modifier.
func (r RollResult) Sum() int {
	sum := 0
	for _, d := range r.Dice {
		sum += d
	}
	return sum
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	return r.Sum() + r.Modifier
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Averaged results carry an "(avg)" suffix.
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	s := fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
	if r.Averaged {
		s += " (avg)"
	}
	return s
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Mode selects how every roll in the process is resolved.
type Mode int32

const (
	// ModeRandom draws each die uniformly from the configured Source.
	ModeRandom Mode = iota
	// ModeAverage replaces every roll with floor(count*(sides+1)/2).
	ModeAverage
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeRandom:
		return "random"
	case ModeAverage:
		return "average"
	default:
		return "unknown"
	}
}

// ParseMode converts a configuration string into a Mode.
//
// Postcondition: Returns ModeRandom or ModeAverage, or an error for any other input.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "random", "":
		return ModeRandom, nil
	case "average":
		return ModeAverage, nil
	default:
		return ModeRandom, fmt.Errorf("dice: unknown mode %q: must be random or average", s)
	}
}

var mode atomic.Int32

// SetMode switches the process-wide roll mode. Setting the same mode twice is a no-op.
func SetMode(m Mode) {
	mode.Store(int32(m))
}

// CurrentMode reports the process-wide roll mode.
func CurrentMode() Mode {
	return Mode(mode.Load())
}

// Average returns floor(count*(sides+1)/2), the deterministic value of countDsides.
//
// Precondition: count >= 0; sides >= 1.
func Average(count, sides int) int {
	return count * (sides + 1) / 2
}
