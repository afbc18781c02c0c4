package overlay

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"github.com/henryjosephson/clauden-handcuffs/internal/capture"
)

func TestFyneFactoryPromptWiring(t *testing.T) {
	app := test.NewApp()
	defer test.NewApp()

	f := NewFyneFactory(app)

	var submitted string
	screen := f.OpenPrompt(capture.Region{Width: 800, Height: 600}, "Sorry, I was distracted.", func(s string) {
		submitted = s
	})
	defer screen.Close()

	prompt, ok := screen.(*fynePrompt)
	if !ok {
		t.Fatalf("OpenPrompt returned %T, want *fynePrompt", screen)
	}

	if prompt.entry.OnSubmitted == nil {
		t.Fatal("entry has no submit handler")
	}
	prompt.entry.SetText("sorry, i was distracted.")
	prompt.entry.OnSubmitted(prompt.entry.Text)
	if submitted != "sorry, i was distracted." {
		t.Errorf("submit received %q, want the entered text", submitted)
	}

	prompt.SetFeedback("Incorrect! Try again!")
	if prompt.feedback.Text != "Incorrect! Try again!" {
		t.Errorf("feedback text = %q", prompt.feedback.Text)
	}

	prompt.ClearEntry()
	if prompt.entry.Text != "" {
		t.Errorf("entry not cleared, still %q", prompt.entry.Text)
	}
}

func TestFyneFactoryBlockerHasNoEntry(t *testing.T) {
	app := test.NewApp()
	defer test.NewApp()

	f := NewFyneFactory(app)

	screen := f.OpenBlocker(capture.Region{Width: 1920, Height: 1080})
	defer screen.Close()

	if _, ok := screen.(PromptScreen); ok {
		t.Error("blocker screens must not accept input")
	}
}

func TestWindowsEnterFullScreenOnTheirDisplay(t *testing.T) {
	app := test.NewApp()
	defer test.NewApp()

	f := NewFyneFactory(app)

	blocker := f.OpenBlocker(capture.Region{X: 1920, Y: 0, Width: 1920, Height: 1080})
	defer blocker.Close()
	prompt := f.OpenPrompt(capture.Region{Width: 1920, Height: 1080}, "Sorry.", func(string) {})
	defer prompt.Close()

	if !blocker.(*fyneScreen).win.FullScreen() {
		t.Error("blocker window is not full screen")
	}
	if !prompt.(*fynePrompt).win.FullScreen() {
		t.Error("prompt window is not full screen")
	}
}

func TestMoveNativeIgnoresUnknownContext(t *testing.T) {
	// Wayland and the test driver hand over contexts that carry no
	// usable window handle; placement must degrade to a no-op.
	moveNative(struct{}{}, capture.Region{X: 1920, Width: 1920, Height: 1080})
}

func TestBlockingWindowsSwallowEscapes(t *testing.T) {
	app := test.NewApp()
	defer test.NewApp()

	f := NewFyneFactory(app)

	blocker := f.OpenBlocker(capture.Region{Width: 800, Height: 600})
	defer blocker.Close()
	prompt := f.OpenPrompt(capture.Region{Width: 800, Height: 600}, "Sorry.", func(string) {})
	defer prompt.Close()

	for name, win := range map[string]fyne.Window{
		"blocker": blocker.(*fyneScreen).win,
		"prompt":  prompt.(*fynePrompt).win,
	} {
		handler := win.Canvas().OnTypedKey()
		if handler == nil {
			t.Fatalf("%s window has no key absorber", name)
		}
		handler(&fyne.KeyEvent{Name: fyne.KeyEscape})
		if win.Content() == nil {
			t.Errorf("%s window did not survive escape", name)
		}
	}
}

func TestEscapeShortcutsCoverEveryChord(t *testing.T) {
	keys := []fyne.KeyName{fyne.KeyW, fyne.KeyQ, fyne.KeyC, fyne.KeyF4, fyne.KeyEscape}
	mods := []fyne.KeyModifier{
		fyne.KeyModifierControl,
		fyne.KeyModifierAlt,
		fyne.KeyModifierSuper,
	}

	registered := make(map[desktop.CustomShortcut]bool)
	for _, sc := range escapeShortcuts() {
		registered[*sc] = true
	}

	if len(registered) != len(keys)*len(mods) {
		t.Fatalf("expected %d distinct chords, got %d", len(keys)*len(mods), len(registered))
	}
	for _, key := range keys {
		for _, mod := range mods {
			if !registered[desktop.CustomShortcut{KeyName: key, Modifier: mod}] {
				t.Errorf("chord %v+%v is not swallowed", mod, key)
			}
		}
	}
}
