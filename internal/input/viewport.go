package input

import "math"

// Viewport is the rectangle, in local window pixels, where the last frame
// was drawn.
type Viewport struct {
	X, Y, W, H float64
}

// FitViewport letterboxes a frameW x frameH raster into a viewW x viewH
// window, preserving aspect ratio and centring it.
func FitViewport(viewW, viewH, frameW, frameH float64) Viewport {
	if viewW <= 0 || viewH <= 0 || frameW <= 0 || frameH <= 0 {
		return Viewport{}
	}
	scale := math.Min(viewW/frameW, viewH/frameH)
	w, h := frameW*scale, frameH*scale
	return Viewport{X: (viewW - w) / 2, Y: (viewH - h) / 2, W: w, H: h}
}

// Scale returns the factor from frame pixels to window pixels.
func (v Viewport) Scale(frameW float64) float64 {
	if frameW <= 0 {
		return 0
	}
	return v.W / frameW
}

// Empty reports whether no frame has been laid out yet.
func (v Viewport) Empty() bool {
	return v.W <= 0 || v.H <= 0
}

// Normalize converts a local point to ratios of the viewport. ok is false
// when the point lies outside it.
func (v Viewport) Normalize(x, y float64) (xr, yr float64, ok bool) {
	if v.Empty() {
		return 0, 0, false
	}
	xr = (x - v.X) / v.W
	yr = (y - v.Y) / v.H
	if xr < 0 || xr > 1 || yr < 0 || yr > 1 {
		return 0, 0, false
	}
	return xr, yr, true
}
