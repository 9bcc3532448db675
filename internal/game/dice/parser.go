package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNotation is wrapped by every Parse failure.
var ErrInvalidNotation = errors.New("dice: invalid notation")

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1, Sides >= 2 after successful Parse.
type Expression struct {
	Raw         string // original input string
	Count       int    // number of dice
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
}

// kept returns the number of dice that contribute to the total.
func (e Expression) kept() int {
	if e.KeepHighest > 0 {
		return e.KeepHighest
	}
	return e.Count
}

func invalid(raw, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidNotation, raw, fmt.Sprintf(format, args...))
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "2d6", "2d6+3", "4d8-2", "4d6kh3", "4d6kh3+1".
// Whitespace is ignored. The count is mandatory.
//
// Postcondition: Returns a valid Expression, or an error wrapping ErrInvalidNotation.
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.Join(strings.Fields(expr), ""))
	if s == "" {
		return Expression{}, invalid(raw, "empty expression")
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, invalid(raw, "missing 'd'")
	}
	if dIdx == 0 {
		return Expression{}, invalid(raw, "missing die count")
	}
	count, err := strconv.Atoi(s[:dIdx])
	if err != nil {
		return Expression{}, invalid(raw, "die count is not a number")
	}
	if count <= 0 {
		return Expression{}, invalid(raw, "die count must be >= 1")
	}

	rest := s[dIdx+1:]

	// Split off the modifier: the first sign after the sides.
	modStr := ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		modStr = rest[i:]
		rest = rest[:i]
	}

	keepHighest := 0
	if khIdx := strings.Index(rest, "kh"); khIdx >= 0 {
		kh, err := strconv.Atoi(rest[khIdx+2:])
		if err != nil {
			return Expression{}, invalid(raw, "kh value is not a number")
		}
		if kh <= 0 || kh >= count {
			return Expression{}, invalid(raw, "kh value %d must be > 0 and < count %d", kh, count)
		}
		keepHighest = kh
		rest = rest[:khIdx]
	}

	if rest == "" {
		return Expression{}, invalid(raw, "missing die sides")
	}
	sides, err := strconv.Atoi(rest)
	if err != nil {
		return Expression{}, invalid(raw, "die sides is not a number")
	}
	if sides < 2 {
		return Expression{}, invalid(raw, "die sides must be >= 2")
	}

	modifier := 0
	if modStr != "" {
		if len(modStr) == 1 {
			return Expression{}, invalid(raw, "missing modifier after sign")
		}
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, invalid(raw, "modifier is not a number")
		}
	}

	return Expression{
		Raw:         raw,
		Count:       count,
		Sides:       sides,
		Modifier:    modifier,
		KeepHighest: keepHighest,
	}, nil
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
