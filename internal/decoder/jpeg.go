package decoder

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
)

// MaxDimension bounds either side of a decoded raster.
const MaxDimension = 16384

// JPEGDecoder turns a JPEG stream into an RGBA raster. The header is checked
// before any pixels are allocated.
type JPEGDecoder struct{}

func NewJPEGDecoder() *JPEGDecoder {
	return &JPEGDecoder{}
}

func (d *JPEGDecoder) Decode(data []byte) (*image.RGBA, error) {
	r := bytes.NewReader(data)
	hdr, err := jpeg.DecodeConfig(r)
	if err != nil {
		return nil, err
	}
	if hdr.Width > MaxDimension || hdr.Height > MaxDimension {
		return nil, fmt.Errorf("raster %dx%d exceeds %d", hdr.Width, hdr.Height, MaxDimension)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, err
	}
	return toRGBA(img), nil
}

// toRGBA returns a zero-origin RGBA copy of img. The JPEG decoder yields
// YCbCr or Gray, never RGBA.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
