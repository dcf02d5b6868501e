package capture

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultBorderWidth is the session indicator width in pixels.
const DefaultBorderWidth = 5

// BorderColor marks a screen that is being shared.
var BorderColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// DrawBorder paints a solid frame of the given width just inside img's
// edges. A width of zero or less leaves img untouched.
func DrawBorder(img *image.RGBA, width int, c color.Color) {
	if img == nil || width <= 0 {
		return
	}
	b := img.Bounds()
	width = min(width, (b.Dx()+1)/2, (b.Dy()+1)/2)
	src := image.NewUniform(c)

	strips := []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+width),
		image.Rect(b.Min.X, b.Max.Y-width, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Max.Y),
		image.Rect(b.Max.X-width, b.Min.Y, b.Max.X, b.Max.Y),
	}
	for _, r := range strips {
		draw.Draw(img, r, src, image.Point{}, draw.Src)
	}
}
