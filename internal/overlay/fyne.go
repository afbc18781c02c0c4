package overlay

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/henryjosephson/clauden-handcuffs/internal/capture"
)

var (
	overlayRed = color.NRGBA{R: 0xc0, G: 0x00, B: 0x00, A: 0xf2}
	overlayFg  = color.White
)

// FyneFactory opens overlay windows with fyne. Splash windows are used
// where the driver supports them: they are undecorated and float above
// normal windows, matching the decoration-less always-on-top overlay.
type FyneFactory struct {
	app fyne.App
}

// NewFyneFactory creates the production screen factory.
func NewFyneFactory(app fyne.App) *FyneFactory {
	return &FyneFactory{app: app}
}

// OpenBlocker opens a non-interactive blocking window on a display.
func (f *FyneFactory) OpenBlocker(r capture.Region) Screen {
	w := f.newBlockingWindow(r)
	w.SetContent(blockerContent())
	// Blocker windows have no entry; absorb every key press.
	w.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) {})
	w.Show()
	placeOnDisplay(w, r)
	return &fyneScreen{win: w}
}

// OpenPrompt opens the blocking window carrying the entry field.
func (f *FyneFactory) OpenPrompt(r capture.Region, challenge string, submit func(string)) PromptScreen {
	w := f.newBlockingWindow(r)

	entry := widget.NewEntry()
	entry.OnSubmitted = submit

	feedback := canvas.NewText("", overlayFg)
	feedback.TextSize = 18
	feedback.Alignment = fyne.TextAlignCenter

	instruction := widget.NewLabel("Type this message to continue:\n\n" + challenge)
	instruction.Wrapping = fyne.TextWrapWord
	instruction.Alignment = fyne.TextAlignCenter

	w.SetContent(container.NewStack(
		canvas.NewRectangle(overlayRed),
		container.NewCenter(container.NewVBox(
			titleText(),
			instruction,
			entry,
			feedback,
		)),
	))

	// Escape and friends land here once the entry gives them up.
	w.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) {})
	w.Show()
	placeOnDisplay(w, r)
	w.RequestFocus()
	w.Canvas().Focus(entry)

	return &fynePrompt{
		fyneScreen: fyneScreen{win: w},
		entry:      entry,
		feedback:   feedback,
	}
}

// newBlockingWindow creates a full-screen undecorated window that
// swallows the window-manager close and every known escape shortcut.
func (f *FyneFactory) newBlockingWindow(r capture.Region) fyne.Window {
	var w fyne.Window
	if drv, ok := f.app.Driver().(desktop.Driver); ok {
		w = drv.CreateSplashWindow()
	} else {
		w = f.app.NewWindow("handcuffs")
	}

	w.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
	w.SetCloseIntercept(func() {})
	swallowShortcuts(w.Canvas())
	return w
}

// placeOnDisplay moves a shown window onto its display, then makes it
// full screen. Full screen binds to whichever monitor currently holds
// the window, so the move must come first. fyne has no positioning
// API; the move goes through the driver's native window handle, with
// a no-op fallback on platforms (and Wayland) that refuse client-side
// placement.
func placeOnDisplay(w fyne.Window, r capture.Region) {
	if nw, ok := w.(driver.NativeWindow); ok {
		nw.RunNative(func(ctx any) {
			moveNative(ctx, r)
		})
	}
	w.SetFullScreen(true)
}

// escapeShortcuts lists every key chord a user might reach for to
// dismiss the overlay.
func escapeShortcuts() []*desktop.CustomShortcut {
	keys := []fyne.KeyName{fyne.KeyW, fyne.KeyQ, fyne.KeyC, fyne.KeyF4, fyne.KeyEscape}
	mods := []fyne.KeyModifier{
		fyne.KeyModifierControl,
		fyne.KeyModifierAlt,
		fyne.KeyModifierSuper,
	}
	shortcuts := make([]*desktop.CustomShortcut, 0, len(keys)*len(mods))
	for _, key := range keys {
		for _, mod := range mods {
			shortcuts = append(shortcuts, &desktop.CustomShortcut{KeyName: key, Modifier: mod})
		}
	}
	return shortcuts
}

// swallowShortcuts registers a no-op handler for every escape chord.
func swallowShortcuts(c fyne.Canvas) {
	for _, sc := range escapeShortcuts() {
		c.AddShortcut(sc, func(fyne.Shortcut) {})
	}
}

func titleText() *canvas.Text {
	title := canvas.NewText("GET BACK TO WORK", overlayFg)
	title.TextSize = 72
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter
	return title
}

func blockerContent() fyne.CanvasObject {
	return container.NewStack(
		canvas.NewRectangle(overlayRed),
		container.NewCenter(titleText()),
	)
}

type fyneScreen struct {
	win fyne.Window
}

func (s *fyneScreen) Close() {
	s.win.Close()
}

type fynePrompt struct {
	fyneScreen
	entry    *widget.Entry
	feedback *canvas.Text
}

func (p *fynePrompt) SetFeedback(msg string) {
	p.feedback.Text = msg
	p.feedback.Refresh()
}

func (p *fynePrompt) ClearEntry() {
	p.entry.SetText("")
}
