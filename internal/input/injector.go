package input

import (
	"fmt"
	"image"
	"math"

	"github.com/junsooki/airdesk/internal/protocol"
)

// Injector drives the host's input stack. Coordinates are absolute screen
// pixels.
type Injector interface {
	MoveCursor(x, y int) error
	Click(x, y int, button protocol.Button, count int) error
	KeyDown(name string) error
	KeyUp(name string) error
}

// Mapper applies received input envelopes to an Injector, mapping ratios
// onto the capture region.
type Mapper struct {
	region   image.Rectangle
	injector Injector
}

func NewMapper(region image.Rectangle, injector Injector) *Mapper {
	return &Mapper{region: region, injector: injector}
}

// ToPixel maps ratios to an absolute pixel inside the region.
func (m *Mapper) ToPixel(xr, yr float64) (image.Point, bool) {
	if !validRatio(xr) || !validRatio(yr) || m.region.Empty() {
		return image.Point{}, false
	}
	x := m.region.Min.X + int(xr*float64(m.region.Dx()))
	y := m.region.Min.Y + int(yr*float64(m.region.Dy()))
	return image.Point{
		X: min(x, m.region.Max.X-1),
		Y: min(y, m.region.Max.Y-1),
	}, true
}

// Apply injects one input envelope. Events that cannot be mapped return
// ErrDropped; other message kinds are rejected.
func (m *Mapper) Apply(msg protocol.Message) error {
	switch v := msg.(type) {
	case protocol.PointerMove:
		p, ok := m.ToPixel(v.X, v.Y)
		if !ok {
			return fmt.Errorf("%w: pointer (%g, %g)", ErrDropped, v.X, v.Y)
		}
		return m.injector.MoveCursor(p.X, p.Y)

	case protocol.PointerClick:
		p, ok := m.ToPixel(v.X, v.Y)
		if !ok || v.Button > protocol.ButtonMiddle || v.Count < 1 {
			return fmt.Errorf("%w: click %s x%d at (%g, %g)", ErrDropped, v.Button, v.Count, v.X, v.Y)
		}
		return m.injector.Click(p.X, p.Y, v.Button, v.Count)

	case protocol.Key:
		if !IsKnownKey(v.Name) {
			return fmt.Errorf("%w: key %q", ErrDropped, v.Name)
		}
		if v.Pressed {
			return m.injector.KeyDown(v.Name)
		}
		return m.injector.KeyUp(v.Name)

	default:
		return fmt.Errorf("not an input message: %s", msg.Kind())
	}
}

func validRatio(r float64) bool {
	return !math.IsNaN(r) && r >= 0 && r <= 1
}
