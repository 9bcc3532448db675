package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/observability"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored characters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		list, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tRACE\tARCHETYPE\tLEVEL\tSAVED")
		for _, s := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", s.Name, s.Race, s.Archetype, s.Level, s.SavedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Load a stored character and print its sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalogs(env.cfg.Content)
		if err != nil {
			return err
		}
		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		rec, err := repo.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		c := character.FromRecord(rec, character.Config{
			Rules:     cat.rules,
			Items:     cat.items,
			Abilities: cat.abilities,
			Roller:    newRoller(),
			Logger:    observability.Component(env.logger, "character"),
		})
		out := cmd.OutOrStdout()
		if !c.VerifyIntegrity() {
			fmt.Fprintln(out, "WARNING: stored record failed its integrity check")
		}
		for _, w := range c.LoadWarnings() {
			fmt.Fprintf(out, "WARNING: %s\n", w)
		}
		return printSheet(out, c)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a stored character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		return repo.Delete(cmd.Context(), args[0])
	},
}
