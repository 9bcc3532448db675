package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/charsheet/internal/game/dice"
)

var rollAverage bool

var rollCmd = &cobra.Command{
	Use:   "roll [notation]",
	Short: "Roll dice using dice notation",
	Long: `Roll dice and print the audit line. Examples:

  charsheet roll 1d20
  charsheet roll 2d6+3
  charsheet roll 4d6kh3 --average`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if rollAverage {
			dice.SetMode(dice.ModeAverage)
		}
		res, err := newRoller().RollExpr(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.String())
		return nil
	},
}

func init() {
	rollCmd.Flags().BoolVar(&rollAverage, "average", false, "use average results instead of random rolls")
}
