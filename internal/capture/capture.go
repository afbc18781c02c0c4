// Package capture grabs per-monitor screenshots for analysis.
// It wraps kbinani/screenshot behind a Source interface so the poll
// loop and overlay can be tested against fake display layouts.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"
)

// Region describes the bounds of one physical display.
// Regions are enumerated fresh on every use, never cached: monitor
// layouts change when displays are plugged or unplugged.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds returns the region as an image.Rectangle.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Source enumerates displays and captures their contents.
// Screen is the production implementation; tests substitute fakes.
type Source interface {
	// Displays returns one Region per active display, primary first.
	Displays() []Region
	// Capture grabs the raw pixels of one display region.
	Capture(Region) (*image.RGBA, error)
}

// Screen is the Source backed by the operating system.
type Screen struct{}

// NewScreen creates the OS-backed capture source.
func NewScreen() *Screen {
	return &Screen{}
}

// Displays returns one Region per active display, primary first.
func (s *Screen) Displays() []Region {
	n := screenshot.NumActiveDisplays()
	regions := make([]Region, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		regions = append(regions, Region{
			X:      b.Min.X,
			Y:      b.Min.Y,
			Width:  b.Dx(),
			Height: b.Dy(),
		})
	}
	return regions
}

// Capture grabs the raw pixels of one display region.
func (s *Screen) Capture(r Region) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(r.Bounds())
	if err != nil {
		return nil, fmt.Errorf("capture display at %d,%d: %w", r.X, r.Y, err)
	}
	return img, nil
}

// Primary captures the primary display of the given source.
func Primary(src Source) (*image.RGBA, error) {
	displays := src.Displays()
	if len(displays) == 0 {
		return nil, fmt.Errorf("no active displays")
	}
	return src.Capture(displays[0])
}

// EncodePNG renders an image to an in-memory PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// PNGCapturer captures the primary display as an in-memory PNG.
// It satisfies the poll loop's Capturer interface.
type PNGCapturer struct {
	src Source
}

// NewPNGCapturer wraps a Source for use by the poll loop.
func NewPNGCapturer(src Source) *PNGCapturer {
	return &PNGCapturer{src: src}
}

// CapturePNG grabs the primary display and encodes it as PNG.
func (c *PNGCapturer) CapturePNG() ([]byte, error) {
	img, err := Primary(c.src)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}
