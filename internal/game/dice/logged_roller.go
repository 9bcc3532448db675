package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// Roller wraps a Source and logger to provide logged dice rolling.
// Every roll honours the process-wide Mode and is logged at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
// A nil logger is replaced with a no-op logger.
//
// Precondition: src must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// RollDie returns a single die value in [1, sides], or floor((sides+1)/2) in ModeAverage.
//
// Precondition: sides >= 1.
func (r *Roller) RollDie(sides int) int {
	if sides < 1 {
		panic(fmt.Sprintf("dice: RollDie called with sides=%d", sides))
	}
	if CurrentMode() == ModeAverage {
		return Average(1, sides)
	}
	return r.src.Intn(sides) + 1
}

// RollDice returns count independent die values.
//
// Precondition: count >= 0; sides >= 1.
// Postcondition: len(result) == count.
func (r *Roller) RollDice(count, sides int) []int {
	if CurrentMode() == ModeAverage && count > 0 {
		return averageDice(count, sides)
	}
	out := make([]int, count)
	for i := range out {
		out[i] = r.RollDie(sides)
	}
	return out
}

// RollWithModifier rolls countDsides and attaches modifier.
// In ModeAverage, Total() == floor(count*(sides+1)/2) + modifier.
//
// Precondition: count >= 1; sides >= 1.
// Postcondition: result.Total() == sum(result.Dice) + modifier.
func (r *Roller) RollWithModifier(count, sides, modifier int) RollResult {
	result := RollResult{
		Expression: fmt.Sprintf("%dd%d%+d", count, sides, modifier),
		Dice:       r.RollDice(count, sides),
		Modifier:   modifier,
		Averaged:   CurrentMode() == ModeAverage,
	}
	r.log(result)
	return result
}

// Roll evaluates expr and logs the result at debug level.
//
// Precondition: expr must come from Parse.
// Postcondition: result logged; returns RollResult or error.
func (r *Roller) Roll(expr Expression) (RollResult, error) {
	result, err := Roll(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.log(result)
	return result, nil
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or an error wrapping ErrInvalidNotation.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		r.logger.Debug("rejected dice notation", zap.String("expression", expr), zap.Error(err))
		return RollResult{}, err
	}
	return r.Roll(e)
}

func (r *Roller) log(result RollResult) {
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
		zap.Stringer("mode", CurrentMode()),
	)
}
