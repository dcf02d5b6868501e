package capture

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplay is returned when no active display is available.
var ErrNoDisplay = errors.New("no active display")

// ScreenCapturer captures one physical display.
type ScreenCapturer struct {
	display int
	bounds  image.Rectangle
}

// NewScreenCapturer selects the display at index (0 is the primary).
func NewScreenCapturer(index int) (*ScreenCapturer, error) {
	bounds, err := selectDisplay(Displays(), index)
	if err != nil {
		return nil, err
	}
	return &ScreenCapturer{display: index, bounds: bounds}, nil
}

// selectDisplay picks displays[index]. An out-of-range index is reported
// with the valid choices.
func selectDisplay(displays []image.Rectangle, index int) (image.Rectangle, error) {
	if len(displays) == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	if index < 0 || index >= len(displays) {
		choices := make([]string, len(displays))
		for i, b := range displays {
			choices[i] = fmt.Sprintf("%d: %dx%d at %v", i, b.Dx(), b.Dy(), b.Min)
		}
		return image.Rectangle{}, fmt.Errorf("display index %d out of range (%s)", index, strings.Join(choices, ", "))
	}
	return displays[index], nil
}

func (c *ScreenCapturer) Bounds() image.Rectangle { return c.bounds }

func (c *ScreenCapturer) Capture(region image.Rectangle) (*image.RGBA, error) {
	if region.Empty() {
		return nil, fmt.Errorf("empty capture region %v", region)
	}
	img, err := screenshot.CaptureRect(region)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", c.display, err)
	}
	return img, nil
}

// Displays lists the bounds of every active display.
func Displays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}
