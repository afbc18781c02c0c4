// Package monitor runs the background poll loop: capture the screen,
// judge it against the task, and signal the overlay gate on a failed
// verdict. The loop never touches GUI state; its only outputs are the
// lock-request channel and the recorder.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/henryjosephson/clauden-handcuffs/internal/debuglog"
)

// Capturer produces a PNG of the primary display.
type Capturer interface {
	CapturePNG() ([]byte, error)
}

// Judge decides whether a screenshot is consistent with the task.
type Judge interface {
	OnTask(ctx context.Context, pngData []byte, task string) (bool, error)
}

// LockState reports whether an overlay episode is active. The loop
// only reads it; the overlay gate is the single writer.
type LockState interface {
	Locked() bool
}

// Recorder receives the outcome of each completed tick.
type Recorder interface {
	RecordCheck(verdict bool, checkErr error)
}

// NoLock is the LockState used when no overlay gate is running.
type NoLock struct{}

// Locked always reports false.
func (NoLock) Locked() bool { return false }

// NopRecorder discards tick outcomes.
type NopRecorder struct{}

// RecordCheck does nothing.
func (NopRecorder) RecordCheck(bool, error) {}

// Config wires a Loop's collaborators.
type Config struct {
	Task     string
	Interval time.Duration
	Capturer Capturer
	Judge    Judge
	Lock     LockState
	// Signals receives one value per off-task verdict while unlocked.
	// Sends are non-blocking; a full channel means a request is already
	// pending and the extra signal is dropped.
	Signals  chan<- struct{}
	Recorder Recorder
	Logger   *debuglog.Logger
}

// Loop is the background poll loop.
type Loop struct {
	capturer Capturer
	judge    Judge
	lock     LockState
	signals  chan<- struct{}
	recorder Recorder
	log      *debuglog.Logger

	mu       sync.RWMutex
	task     string
	interval time.Duration
}

// New creates a poll loop. Zero-value collaborators are replaced with
// no-ops so callers only wire what they need.
func New(cfg Config) *Loop {
	if cfg.Lock == nil {
		cfg.Lock = NoLock{}
	}
	if cfg.Recorder == nil {
		cfg.Recorder = NopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = debuglog.Nop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	return &Loop{
		capturer: cfg.Capturer,
		judge:    cfg.Judge,
		lock:     cfg.Lock,
		signals:  cfg.Signals,
		recorder: cfg.Recorder,
		log:      cfg.Logger,
		task:     cfg.Task,
		interval: cfg.Interval,
	}
}

// Task returns the current task description.
func (l *Loop) Task() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.task
}

// Interval returns the current check interval.
func (l *Loop) Interval() time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.interval
}

// SetInterval updates the check interval. The new value takes effect
// after the current sleep.
func (l *Loop) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	l.mu.Lock()
	l.interval = d
	l.mu.Unlock()
}

// SetTask updates the task description for subsequent checks.
func (l *Loop) SetTask(task string) {
	if task == "" {
		return
	}
	l.mu.Lock()
	l.task = task
	l.mu.Unlock()
}

// Run polls until ctx is cancelled. Failures inside a tick are logged
// and recorded; the loop always resumes after the normal interval.
func (l *Loop) Run(ctx context.Context) {
	for {
		l.Tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.Interval()):
		}
	}
}

// Tick performs one capture/judge cycle. While the overlay is locked,
// the tick is skipped entirely: no new episode may open and the model
// would only see the overlay itself.
func (l *Loop) Tick(ctx context.Context) {
	if l.lock.Locked() {
		l.log.Logf("overlay is visible, skipping screenshot")
		return
	}

	l.log.Logf("taking screenshot")
	pngData, err := l.capturer.CapturePNG()
	if err != nil {
		l.log.Logf("capture failed: %v", err)
		l.recorder.RecordCheck(false, err)
		return
	}

	onTask, err := l.judge.OnTask(ctx, pngData, l.Task())
	if err != nil {
		l.log.Logf("judge failed: %v", err)
		l.recorder.RecordCheck(false, err)
		return
	}

	l.log.Logf("vision model on-task verdict: %v", onTask)
	l.recorder.RecordCheck(onTask, nil)

	if !onTask && !l.lock.Locked() {
		select {
		case l.signals <- struct{}{}:
		default:
			// A lock request is already pending.
		}
	}
}
