// Package capture grabs screen rasters for the host.
package capture

import (
	"image"
	"time"
)

// Capturer reads pixels from a screen.
type Capturer interface {
	// Bounds returns the region this capturer was configured for, in the
	// coordinate space Capture and input injection use.
	Bounds() image.Rectangle
	// Capture returns the pixels of region, sized region.Dx() x region.Dy().
	Capture(region image.Rectangle) (*image.RGBA, error)
}

// Frame is one captured raster.
type Frame struct {
	Image     *image.RGBA
	Timestamp time.Time
}

// Width returns the raster width in pixels.
func (f *Frame) Width() int { return f.Image.Bounds().Dx() }

// Height returns the raster height in pixels.
func (f *Frame) Height() int { return f.Image.Bounds().Dy() }

// Grab captures c's full region.
func Grab(c Capturer) (*Frame, error) {
	now := time.Now()
	img, err := c.Capture(c.Bounds())
	if err != nil {
		return nil, err
	}
	return &Frame{Image: img, Timestamp: now}, nil
}
