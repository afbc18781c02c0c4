package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/henryjosephson/clauden-handcuffs/internal/config"
	"github.com/henryjosephson/clauden-handcuffs/internal/history"
)

var historyLimit int

var (
	historyHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	historyDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	historyPassStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	historyFailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent checks and overlay episodes",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show per section")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := cfg.History.Path
	if path == "" {
		path = history.DefaultPath()
	}

	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	checks, err := store.RecentChecks(historyLimit)
	if err != nil {
		return err
	}
	episodes, err := store.RecentEpisodes(historyLimit)
	if err != nil {
		return err
	}

	fmt.Println(historyHeaderStyle.Render("Recent checks"))
	if len(checks) == 0 {
		fmt.Println(historyDimStyle.Render("  (none recorded)"))
	}
	for _, c := range checks {
		ts := historyDimStyle.Render(c.At.Local().Format("2006-01-02 15:04:05"))
		switch {
		case c.Error != "":
			fmt.Printf("  %s  %s  %s\n", ts, historyDimStyle.Render("skip"), c.Error)
		case c.Verdict:
			fmt.Printf("  %s  %s\n", ts, historyPassStyle.Render("on task"))
		default:
			fmt.Printf("  %s  %s\n", ts, historyFailStyle.Render("off task"))
		}
	}

	fmt.Println()
	fmt.Println(historyHeaderStyle.Render("Overlay episodes"))
	if len(episodes) == 0 {
		fmt.Println(historyDimStyle.Render("  (none recorded)"))
	}
	for _, e := range episodes {
		opened := historyDimStyle.Render(e.OpenedAt.Local().Format("2006-01-02 15:04:05"))
		state := historyFailStyle.Render("still locked")
		if e.ClosedAt.Valid {
			state = fmt.Sprintf("unlocked after %s, %d attempt(s)",
				e.ClosedAt.Time.Sub(e.OpenedAt).Round(time.Second), e.Attempts)
		}
		fmt.Printf("  %s  %s\n", opened, state)
		fmt.Printf("    %s\n", historyDimStyle.Render(fmt.Sprintf("challenge: %s", e.Challenge)))
	}

	return nil
}
