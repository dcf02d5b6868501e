package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawBorder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	DrawBorder(img, DefaultBorderWidth, BorderColor)

	tests := []struct {
		name   string
		x, y   int
		border bool
	}{
		{"top left", 0, 0, true},
		{"top edge inner row", 20, 4, true},
		{"below top border", 20, 5, false},
		{"right edge", 39, 15, true},
		{"left inner column", 4, 15, true},
		{"bottom edge", 10, 29, true},
		{"center", 20, 15, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := img.RGBAAt(tt.x, tt.y)
			if tt.border {
				assert.Equal(t, BorderColor, got)
			} else {
				assert.Equal(t, color.RGBA{}, got)
			}
		})
	}
}

func TestDrawBorderDisabled(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	DrawBorder(img, 0, BorderColor)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))
}

func TestDrawBorderOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(100, 50, 110, 60))
	DrawBorder(img, 2, BorderColor)
	assert.Equal(t, BorderColor, img.RGBAAt(100, 50))
	assert.Equal(t, BorderColor, img.RGBAAt(109, 59))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(105, 55))
}

func TestDrawBorderWiderThanImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	assert.NotPanics(t, func() { DrawBorder(img, 50, BorderColor) })
	assert.Equal(t, BorderColor, img.RGBAAt(1, 1))
}

type fixedCapturer struct {
	bounds image.Rectangle
	got    image.Rectangle
}

func (f *fixedCapturer) Bounds() image.Rectangle { return f.bounds }

func (f *fixedCapturer) Capture(region image.Rectangle) (*image.RGBA, error) {
	f.got = region
	return image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy())), nil
}

func TestGrabUsesCapturerBounds(t *testing.T) {
	c := &fixedCapturer{bounds: image.Rect(1920, 0, 3840, 1080)}
	f, err := Grab(c)
	require.NoError(t, err)
	assert.Equal(t, c.bounds, c.got)
	assert.Equal(t, 1920, f.Width())
	assert.Equal(t, 1080, f.Height())
	assert.False(t, f.Timestamp.IsZero())
}

func TestSelectDisplay(t *testing.T) {
	displays := []image.Rectangle{
		image.Rect(0, 0, 2560, 1440),
		image.Rect(2560, 0, 4480, 1080),
	}

	b, err := selectDisplay(displays, 1)
	require.NoError(t, err)
	assert.Equal(t, displays[1], b)

	_, err = selectDisplay(displays, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1: 1920x1080 at (2560,0)")

	_, err = selectDisplay(nil, 0)
	assert.ErrorIs(t, err, ErrNoDisplay)
}
