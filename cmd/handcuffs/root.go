package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "handcuffs",
	Short: "Screen-watching focus enforcer",
	Long: `Handcuffs keeps you on task. It periodically captures your screen,
asks a vision model whether what it sees is consistent with the task
you declared, and if not, covers every monitor with a blocking overlay
until you transcribe a model-generated apology exactly.

Start a session with:
  handcuffs watch --task "write the quarterly report"

The only way out of the overlay is typing the apology. Choose your
task honestly.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
