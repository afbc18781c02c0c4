package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/henryjosephson/clauden-handcuffs/internal/capture"
	"github.com/henryjosephson/clauden-handcuffs/internal/config"
	"github.com/henryjosephson/clauden-handcuffs/internal/vision"
)

var (
	checkTask  string
	checkModel string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single capture-and-judge cycle",
	Long: `Check captures the primary display once, asks the vision model
whether it is consistent with --task, and prints the verdict. Useful
for trying out a task description or a provider before committing to
a watch session.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkTask, "task", "", "Description of the task you should be working on (required)")
	checkCmd.Flags().StringVar(&checkModel, "model", "", "Vision model provider: claude or gemini")
	checkCmd.MarkFlagRequired("task")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Task = checkTask
	if checkModel != "" {
		cfg.Provider = checkModel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}
	judge := vision.NewJudge(analyzer)

	pngData, err := capture.NewPNGCapturer(capture.NewScreen()).CapturePNG()
	if err != nil {
		return fmt.Errorf("capture screen: %w", err)
	}

	onTask, err := judge.OnTask(cmd.Context(), pngData, cfg.Task)
	if err != nil {
		return err
	}

	if onTask {
		color.Green("on task: screen is consistent with %q", cfg.Task)
	} else {
		color.Red("off task: screen is not consistent with %q", cfg.Task)
	}
	return nil
}
