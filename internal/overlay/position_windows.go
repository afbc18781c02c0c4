//go:build windows

package overlay

import (
	"fyne.io/fyne/v2/driver"
	"github.com/lxn/win"

	"github.com/henryjosephson/clauden-handcuffs/internal/capture"
)

// moveNative repositions a Win32 window onto its display's origin.
func moveNative(ctx any, r capture.Region) {
	wctx, ok := ctx.(driver.WindowsWindowContext)
	if !ok {
		return
	}

	win.SetWindowPos(win.HWND(wctx.HWND), 0,
		int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height),
		win.SWP_NOZORDER|win.SWP_NOACTIVATE)
}
