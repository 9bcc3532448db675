package dice

import "sort"

// Roll evaluates an Expression using the given Source and returns a RollResult.
// In ModeAverage the Source is not consulted; the kept dice are filled so that
// their sum is Average(kept, Sides).
//
// Precondition: expr must come from Parse (Count >= 1, Sides >= 2); src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count when KeepHighest == 0, or
//
//	len(result.Dice) == expr.KeepHighest when KeepHighest > 0.
//	result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) (RollResult, error) {
	if CurrentMode() == ModeAverage {
		return RollResult{
			Expression: expr.Raw,
			Dice:       averageDice(expr.kept(), expr.Sides),
			Modifier:   expr.Modifier,
			Averaged:   true,
		}, nil
	}

	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}

	kept := rolled
	if expr.KeepHighest > 0 {
		sorted := make([]int, len(rolled))
		copy(sorted, rolled)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		kept = sorted[:expr.KeepHighest]
	}

	return RollResult{
		Expression: expr.Raw,
		Dice:       kept,
		Modifier:   expr.Modifier,
	}, nil
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a RollResult or an error wrapping ErrInvalidNotation.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}

// averageDice spreads Average(count, sides) across count dice, each within [1, sides].
func averageDice(count, sides int) []int {
	total := Average(count, sides)
	out := make([]int, count)
	for i := range out {
		out[i] = total / count
		if i < total%count {
			out[i]++
		}
	}
	return out
}
