// Package overlay owns the lock/unlock state machine and the blocking
// full-screen windows it raises. All window mutation happens on the UI
// thread via the gate's dispatch function; the poll loop only ever
// reads the lock flag.
package overlay

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/henryjosephson/clauden-handcuffs/internal/capture"
	"github.com/henryjosephson/clauden-handcuffs/internal/debuglog"
)

// feedbackMismatch is shown on the primary screen after a failed attempt.
const feedbackMismatch = "Incorrect! Try again!"

// Screen is one full-screen blocking window.
type Screen interface {
	Close()
}

// PromptScreen is the screen on the primary display that carries the
// text entry and feedback label.
type PromptScreen interface {
	Screen
	SetFeedback(msg string)
	ClearEntry()
}

// Factory opens overlay screens. The fyne implementation is production;
// tests substitute fakes to assert window counts.
type Factory interface {
	// OpenBlocker opens a non-interactive blocking screen on a display.
	OpenBlocker(r capture.Region) Screen
	// OpenPrompt opens the blocking screen carrying the entry field.
	// submit is invoked with the text the user enters.
	OpenPrompt(r capture.Region, challenge string, submit func(string)) PromptScreen
}

// ChallengeSource generates the apology text for a new episode.
type ChallengeSource interface {
	Apology(ctx context.Context, task string) (string, error)
}

// DisplaySource enumerates displays at overlay time. capture.Source
// satisfies it.
type DisplaySource interface {
	Displays() []capture.Region
}

// EpisodeRecorder receives episode lifecycle events.
type EpisodeRecorder interface {
	EpisodeOpened(id, challenge string)
	EpisodeClosed(id string, attempts int)
}

// NopEpisodeRecorder discards episode events.
type NopEpisodeRecorder struct{}

// EpisodeOpened does nothing.
func (NopEpisodeRecorder) EpisodeOpened(string, string) {}

// EpisodeClosed does nothing.
func (NopEpisodeRecorder) EpisodeClosed(string, int) {}

// Config wires a Gate's collaborators.
type Config struct {
	Task      string
	Challenge ChallengeSource
	Displays  DisplaySource
	Factory   Factory
	Recorder  EpisodeRecorder
	Logger    *debuglog.Logger
	// Dispatch schedules a function onto the UI thread. Production
	// passes fyne.Do; tests pass a direct call.
	Dispatch func(func())
}

// Gate is the overlay state machine. Apart from the atomic lock flag,
// all fields are touched only from dispatched (UI thread) code.
type Gate struct {
	task      string
	challenge ChallengeSource
	displays  DisplaySource
	factory   Factory
	recorder  EpisodeRecorder
	log       *debuglog.Logger
	dispatch  func(func())

	locked atomic.Bool

	episodeID string
	required  string
	attempts  int
	screens   []Screen
	prompt    PromptScreen
}

// New creates an overlay gate.
func New(cfg Config) *Gate {
	if cfg.Recorder == nil {
		cfg.Recorder = NopEpisodeRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = debuglog.Nop()
	}
	if cfg.Dispatch == nil {
		cfg.Dispatch = func(f func()) { f() }
	}
	return &Gate{
		task:      cfg.Task,
		challenge: cfg.Challenge,
		displays:  cfg.Displays,
		factory:   cfg.Factory,
		recorder:  cfg.Recorder,
		log:       cfg.Logger,
		dispatch:  cfg.Dispatch,
	}
}

// Locked reports whether an overlay episode is active. Safe to call
// from any goroutine.
func (g *Gate) Locked() bool {
	return g.locked.Load()
}

// Run consumes lock requests until ctx is cancelled, forwarding each
// to the UI thread.
func (g *Gate) Run(ctx context.Context, signals <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			g.dispatch(func() { g.HandleSignal(ctx) })
		}
	}
}

// HandleSignal processes one lock request. Must run on the UI thread.
// Requests arriving while an episode is already open are ignored.
func (g *Gate) HandleSignal(ctx context.Context) {
	if g.locked.Load() {
		g.log.Logf("lock request ignored, overlay already visible")
		return
	}

	challenge, err := g.challenge.Apology(ctx, g.task)
	if err != nil {
		// Treated like any other model failure: skip, the next failed
		// verdict will signal again.
		g.log.Logf("challenge generation failed: %v", err)
		return
	}
	g.log.Logf("generated challenge: %s", challenge)

	displays := g.displays.Displays()
	if len(displays) == 0 {
		g.log.Logf("no displays found, cannot open overlay")
		return
	}

	g.open(displays, challenge)
}

// open raises one screen per display; the first (primary) display
// carries the prompt. Must run on the UI thread.
func (g *Gate) open(displays []capture.Region, challenge string) {
	g.required = challenge
	g.attempts = 0
	g.episodeID = uuid.NewString()
	g.locked.Store(true)

	for i, r := range displays {
		if i == 0 {
			g.prompt = g.factory.OpenPrompt(r, challenge, g.submit)
			g.screens = append(g.screens, g.prompt)
			continue
		}
		g.screens = append(g.screens, g.factory.OpenBlocker(r))
	}

	g.log.Logf("showing %d overlay screens", len(g.screens))
	g.recorder.EpisodeOpened(g.episodeID, challenge)
}

// submit checks one unlock attempt. Must run on the UI thread (it is
// only ever called from the prompt screen's entry callback).
func (g *Gate) submit(input string) {
	if !g.locked.Load() {
		return
	}
	g.attempts++

	if !Matches(input, g.required) {
		g.log.Logf("incorrect message entered: %q vs required: %q", input, g.required)
		g.prompt.SetFeedback(feedbackMismatch)
		g.prompt.ClearEntry()
		return
	}

	g.log.Logf("correct message entered, closing overlays")
	g.release()
}

// release destroys every screen of the episode and clears the lock.
// Must run on the UI thread.
func (g *Gate) release() {
	for _, s := range g.screens {
		s.Close()
	}
	g.screens = nil
	g.prompt = nil
	g.required = ""

	g.recorder.EpisodeClosed(g.episodeID, g.attempts)
	g.episodeID = ""

	// Cleared last: the poll loop may capture again the moment this
	// flips false.
	g.locked.Store(false)
}
