package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type fakeCapturer struct {
	calls int
	err   error
}

func (f *fakeCapturer) CapturePNG() ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte{0x89}, nil
}

type fakeJudge struct {
	calls    int
	verdicts []bool
	err      error
}

func (f *fakeJudge) OnTask(context.Context, []byte, string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if len(f.verdicts) == 0 {
		return true, nil
	}
	v := f.verdicts[0]
	if len(f.verdicts) > 1 {
		f.verdicts = f.verdicts[1:]
	}
	return v, nil
}

type fakeLock struct{ locked bool }

func (f *fakeLock) Locked() bool { return f.locked }

type recordingRecorder struct {
	verdicts []bool
	errs     []error
}

func (r *recordingRecorder) RecordCheck(verdict bool, err error) {
	r.verdicts = append(r.verdicts, verdict)
	r.errs = append(r.errs, err)
}

func TestTickSkipsCaptureWhileLocked(t *testing.T) {
	capturer := &fakeCapturer{}
	judge := &fakeJudge{}
	loop := New(Config{
		Task:     "write report",
		Capturer: capturer,
		Judge:    judge,
		Lock:     &fakeLock{locked: true},
		Signals:  make(chan struct{}, 1),
	})

	for i := 0; i < 3; i++ {
		loop.Tick(context.Background())
	}

	if capturer.calls != 0 {
		t.Errorf("expected no captures while locked, got %d", capturer.calls)
	}
	if judge.calls != 0 {
		t.Errorf("expected no judge calls while locked, got %d", judge.calls)
	}
}

func TestTickSignalsOnceOnFail(t *testing.T) {
	signals := make(chan struct{}, 1)
	loop := New(Config{
		Task:     "write report",
		Capturer: &fakeCapturer{},
		Judge:    &fakeJudge{verdicts: []bool{false}},
		Signals:  signals,
	})

	loop.Tick(context.Background())

	select {
	case <-signals:
	default:
		t.Fatal("expected a lock request after a failed verdict")
	}
	select {
	case <-signals:
		t.Fatal("expected exactly one lock request")
	default:
	}
}

func TestTickNoSignalOnPass(t *testing.T) {
	signals := make(chan struct{}, 1)
	loop := New(Config{
		Task:     "write report",
		Capturer: &fakeCapturer{},
		Judge:    &fakeJudge{verdicts: []bool{true}},
		Signals:  signals,
	})

	loop.Tick(context.Background())

	select {
	case <-signals:
		t.Fatal("expected no lock request after a passing verdict")
	default:
	}
}

func TestRepeatedFailsDropExtraSignals(t *testing.T) {
	signals := make(chan struct{}, 1)
	loop := New(Config{
		Task:     "write report",
		Capturer: &fakeCapturer{},
		Judge:    &fakeJudge{verdicts: []bool{false, false, false}},
		Signals:  signals,
	})

	// Nobody drains the channel between ticks; the extra sends must be
	// dropped rather than blocking the loop.
	for i := 0; i < 3; i++ {
		loop.Tick(context.Background())
	}

	if len(signals) != 1 {
		t.Errorf("expected exactly one pending lock request, got %d", len(signals))
	}
}

func TestTickRecordsErrorsAndContinues(t *testing.T) {
	rec := &recordingRecorder{}
	capturer := &fakeCapturer{err: fmt.Errorf("no display")}
	loop := New(Config{
		Task:     "write report",
		Capturer: capturer,
		Judge:    &fakeJudge{},
		Signals:  make(chan struct{}, 1),
		Recorder: rec,
	})

	loop.Tick(context.Background())
	capturer.err = nil
	loop.Tick(context.Background())

	if len(rec.verdicts) != 2 {
		t.Fatalf("expected 2 recorded checks, got %d", len(rec.verdicts))
	}
	if rec.errs[0] == nil {
		t.Error("expected first check to record the capture error")
	}
	if rec.errs[1] != nil || !rec.verdicts[1] {
		t.Error("expected second check to record a clean pass")
	}
}

func TestTickRecordsJudgeError(t *testing.T) {
	rec := &recordingRecorder{}
	loop := New(Config{
		Task:     "write report",
		Capturer: &fakeCapturer{},
		Judge:    &fakeJudge{err: fmt.Errorf("api unreachable")},
		Signals:  make(chan struct{}, 1),
		Recorder: rec,
	})

	loop.Tick(context.Background())

	if len(rec.errs) != 1 || rec.errs[0] == nil {
		t.Fatalf("expected judge error to be recorded, got %v", rec.errs)
	}
	if len(loop.signals) != 0 {
		t.Error("expected no lock request on a judge error")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := New(Config{
		Task:     "write report",
		Interval: time.Millisecond,
		Capturer: &fakeCapturer{},
		Judge:    &fakeJudge{},
		Signals:  make(chan struct{}, 1),
	})

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after context cancellation")
	}
}

func TestSetIntervalAndTask(t *testing.T) {
	loop := New(Config{Task: "write report", Interval: time.Minute})

	loop.SetInterval(5 * time.Second)
	if loop.Interval() != 5*time.Second {
		t.Errorf("expected interval 5s, got %v", loop.Interval())
	}
	loop.SetInterval(0)
	if loop.Interval() != 5*time.Second {
		t.Error("expected non-positive interval to be ignored")
	}

	loop.SetTask("review slides")
	if loop.Task() != "review slides" {
		t.Errorf("expected updated task, got %q", loop.Task())
	}
	loop.SetTask("")
	if loop.Task() != "review slides" {
		t.Error("expected empty task update to be ignored")
	}
}
