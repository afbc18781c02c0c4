package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/henryjosephson/clauden-handcuffs/internal/capture"
	"github.com/henryjosephson/clauden-handcuffs/internal/config"
	"github.com/henryjosephson/clauden-handcuffs/internal/debuglog"
	"github.com/henryjosephson/clauden-handcuffs/internal/headless"
	"github.com/henryjosephson/clauden-handcuffs/internal/history"
	"github.com/henryjosephson/clauden-handcuffs/internal/monitor"
	"github.com/henryjosephson/clauden-handcuffs/internal/overlay"
	"github.com/henryjosephson/clauden-handcuffs/internal/vision"
)

var (
	watchTask     string
	watchInterval int
	watchModel    string
	watchVerbose  bool
	watchHeadless bool
	watchNoLog    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor the screen and enforce the task",
	Long: `Watch captures the screen at a fixed interval and asks the configured
vision model whether what it sees is consistent with --task. A failed
check covers every monitor with a blocking overlay; the overlay only
closes once the generated apology is transcribed exactly.

With --headless no overlay is raised; failed checks ring the terminal
instead. Use it where no display can be locked (e.g. over SSH).

Runs until interrupted with Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchTask, "task", "", "Description of the task you should be working on (required)")
	watchCmd.Flags().IntVar(&watchInterval, "interval", 60, "Check interval in seconds")
	watchCmd.Flags().StringVar(&watchModel, "model", "", "Vision model provider: claude or gemini")
	watchCmd.Flags().BoolVar(&watchVerbose, "verbose", false, "Enable verbose logging")
	watchCmd.Flags().BoolVar(&watchHeadless, "headless", false, "Advisory mode: terminal alerts instead of the overlay")
	watchCmd.Flags().BoolVar(&watchNoLog, "no-history", false, "Do not record checks and episodes to the activity log")
}

// loadWatchConfig merges the config file with watch's flags. Flags win
// when set.
func loadWatchConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if watchTask != "" {
		cfg.Task = watchTask
	}
	if cmd.Flags().Changed("interval") {
		cfg.Interval = time.Duration(watchInterval) * time.Second
	}
	if watchModel != "" {
		cfg.Provider = watchModel
	}
	if watchVerbose {
		cfg.Verbose = true
	}
	if watchNoLog {
		cfg.History.Enabled = false
	}

	if cfg.Task == "" {
		return nil, fmt.Errorf("--task is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// multiRecorder fans a tick outcome out to several recorders.
type multiRecorder []monitor.Recorder

func (m multiRecorder) RecordCheck(verdict bool, checkErr error) {
	for _, r := range m {
		r.RecordCheck(verdict, checkErr)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadWatchConfig(cmd)
	if err != nil {
		return err
	}

	logger := debuglog.New(os.Stdout, cfg.Verbose)

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}
	judge := vision.NewJudge(analyzer)
	screen := capture.NewScreen()

	var store *history.Store
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			path = history.DefaultPath()
		}
		store, err = history.Open(path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Single-producer/single-consumer: the poll loop signals, the gate
	// (or the advisory view) consumes. Capacity 1 is enough; extra
	// requests while one is pending carry no information.
	signals := make(chan struct{}, 1)

	fmt.Printf("Monitoring work for task: %s\n", cfg.Task)
	fmt.Printf("Checking every %s\n", cfg.Interval)
	if cfg.Verbose {
		fmt.Println("Verbose logging enabled")
	}
	fmt.Println("Press Ctrl+C to stop monitoring")

	if watchHeadless {
		err = runAdvisory(ctx, cfg, judge, screen, store, signals, logger)
	} else {
		err = runOverlay(ctx, cfg, judge, screen, store, signals, logger)
	}
	if err != nil {
		return err
	}

	fmt.Println("\nStopping work monitoring...")
	return nil
}

// runOverlay wires the poll loop to the fyne overlay gate and blocks
// in the GUI event loop.
func runOverlay(ctx context.Context, cfg *config.Config, judge *vision.Judge, screen *capture.Screen, store *history.Store, signals chan struct{}, logger *debuglog.Logger) error {
	guiApp := fyneapp.New()

	var episodes overlay.EpisodeRecorder
	var checks monitor.Recorder
	if store != nil {
		episodes = store
		checks = store
	}

	gate := overlay.New(overlay.Config{
		Task:      cfg.Task,
		Challenge: judge,
		Displays:  screen,
		Factory:   overlay.NewFyneFactory(guiApp),
		Recorder:  episodes,
		Logger:    logger,
		Dispatch:  fyne.Do,
	})

	loop := monitor.New(monitor.Config{
		Task:     cfg.Task,
		Interval: cfg.Interval,
		Capturer: capture.NewPNGCapturer(screen),
		Judge:    judge,
		Lock:     gate,
		Signals:  signals,
		Recorder: checks,
		Logger:   logger,
	})
	defer watchConfigFile(loop, logger)()

	go loop.Run(ctx)
	go gate.Run(ctx, signals)
	go func() {
		<-ctx.Done()
		fyne.Do(guiApp.Quit)
	}()

	guiApp.Run()
	return nil
}

// runAdvisory wires the poll loop to the terminal view and blocks in
// the bubbletea event loop.
func runAdvisory(ctx context.Context, cfg *config.Config, judge *vision.Judge, screen *capture.Screen, store *history.Store, signals chan struct{}, logger *debuglog.Logger) error {
	app := headless.New(cfg.Task, cfg.Interval)

	recorders := multiRecorder{app}
	if store != nil {
		recorders = append(recorders, store)
	}

	loop := monitor.New(monitor.Config{
		Task:     cfg.Task,
		Interval: cfg.Interval,
		Capturer: capture.NewPNGCapturer(screen),
		Judge:    judge,
		Signals:  signals,
		Recorder: recorders,
		Logger:   logger,
	})
	defer watchConfigFile(loop, logger)()

	go loop.Run(ctx)
	go app.Watch(ctx, signals)

	return app.Run()
}

// watchConfigFile applies config file edits to a running loop. Returns
// a cleanup func; a missing or unwatchable file just disables reload.
func watchConfigFile(loop *monitor.Loop, logger *debuglog.Logger) func() {
	path := config.UserConfigPath()
	if _, err := os.Stat(path); err != nil {
		return func() {}
	}

	w, err := config.NewWatcher(path, func(cfg *config.Config) {
		if err := cfg.Validate(); err != nil {
			logger.Logf("ignoring config reload: %v", err)
			return
		}
		logger.Logf("config reloaded: interval %s", cfg.Interval)
		loop.SetInterval(cfg.Interval)
		if cfg.Task != "" {
			loop.SetTask(cfg.Task)
		}
	})
	if err != nil {
		logger.Logf("config watch disabled: %v", err)
		return func() {}
	}
	return func() { w.Close() }
}
