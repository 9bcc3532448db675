package dice_test

import (
	"errors"
	"testing"

	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		in    string
		count int
		sides int
		mod   int
		kh    int
	}{
		{"2d6", 2, 6, 0, 0},
		{"2d6+3", 2, 6, 3, 0},
		{"4d8-2", 4, 8, -2, 0},
		{"1D20", 1, 20, 0, 0},
		{" 2d6 + 3 ", 2, 6, 3, 0},
		{"4d6kh3", 4, 6, 0, 3},
		{"4d6kh3+1", 4, 6, 1, 3},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.mod, e.Modifier)
			assert.Equal(t, tc.kh, e.KeepHighest)
			assert.Equal(t, tc.in, e.Raw)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"20",
		"d20",    // missing count
		"2d",     // missing sides
		"2d+3",   // missing sides
		"2d6+x",  // non-numeric modifier
		"2d6+",   // dangling sign
		"xd6",    // non-numeric count
		"0d6",    // zero count
		"2d1",    // degenerate die
		"2d6kh2", // kh must be < count
		"4d6khx",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := dice.Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, dice.ErrInvalidNotation), "error %v must wrap ErrInvalidNotation", err)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("bogus") })
	assert.NotPanics(t, func() { dice.MustParse("1d8") })
}

func TestParse_RoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 50).Draw(rt, "count")
		sides := rapid.IntRange(2, 100).Draw(rt, "sides")
		mod := rapid.IntRange(-50, 50).Draw(rt, "mod")

		e, err := dice.Parse(fmtExpr(count, sides, mod))
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if e.Count != count || e.Sides != sides || e.Modifier != mod {
			rt.Fatalf("parsed %+v from count=%d sides=%d mod=%d", e, count, sides, mod)
		}
	})
}
