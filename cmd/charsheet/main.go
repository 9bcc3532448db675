// Package main is the charsheet command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/inventory"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/observability"
)

var configPath string

// env is the state shared by every subcommand once PersistentPreRunE has run.
var env struct {
	cfg    config.Config
	logger *zap.Logger
}

var rootCmd = &cobra.Command{
	Use:           "charsheet",
	Short:         "Tabletop character sheet rules engine",
	Long:          `charsheet rolls dice, builds characters, and derives their scores, resources, and combat numbers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err := observability.NewLogger(cfg.Logging)
		if err != nil {
			return err
		}
		dice.SetMode(cfg.Rules.Mode())
		env.cfg = cfg
		env.logger = logger
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if env.logger != nil {
			_ = env.logger.Sync()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.AddCommand(rollCmd, sheetCmd, listCmd, showCmd, deleteCmd)
}

// catalogs holds the reference data loaded from the content directories.
type catalogs struct {
	rules     *ruleset.Registry
	items     *inventory.Registry
	abilities *ability.Catalog
}

func loadCatalogs(c config.ContentConfig) (catalogs, error) {
	rules, err := ruleset.LoadRegistry(c.Races, c.Archetypes)
	if err != nil {
		return catalogs{}, fmt.Errorf("loading races and archetypes: %w", err)
	}
	items, err := inventory.LoadRegistry(c.Items)
	if err != nil {
		return catalogs{}, fmt.Errorf("loading item templates: %w", err)
	}
	abilities, err := ability.LoadDirectory(c.Abilities)
	if err != nil {
		return catalogs{}, fmt.Errorf("loading abilities: %w", err)
	}
	env.logger.Debug("catalogs loaded",
		zap.Int("item_templates", items.Len()),
		zap.Int("abilities", abilities.Len()),
	)
	return catalogs{rules: rules, items: items, abilities: abilities}, nil
}

func newRoller() *dice.Roller {
	return dice.NewLoggedRoller(env.cfg.Rules.Source(), observability.Component(env.logger, "dice"))
}
