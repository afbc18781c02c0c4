//go:build linux

package overlay

import (
	"fyne.io/fyne/v2/driver"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/henryjosephson/clauden-handcuffs/internal/capture"
)

// moveNative repositions an X11 window onto its display's origin.
// Wayland compositors do not allow client-side positioning; those
// sessions hand over a non-X11 context and the window stays where the
// compositor put it.
func moveNative(ctx any, r capture.Region) {
	x11, ok := ctx.(driver.X11WindowContext)
	if !ok {
		return
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return
	}
	defer conn.Close()

	xproto.ConfigureWindowChecked(conn, xproto.Window(x11.WindowHandle),
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(r.X), uint32(r.Y)}).Check()
}
