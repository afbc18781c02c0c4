package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/henryjosephson/clauden-handcuffs/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View or initialize handcuffs configuration.

Without arguments, displays the current effective configuration,
including values picked up from the environment.

Configuration is stored at ~/.config/handcuffs/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		out, err := cfg.Render()
		if err != nil {
			return fmt.Errorf("rendering config: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.UserConfigPath()
		if err := config.WriteDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		color.Green("Wrote default config to %s", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
