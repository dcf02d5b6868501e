package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
	"sync/atomic"
)

// JPEGEncoder encodes frames as JPEG.
type JPEGEncoder struct {
	quality atomic.Int32
}

// NewJPEGEncoder creates a JPEG encoder with the given quality (1-100).
func NewJPEGEncoder(quality int) *JPEGEncoder {
	e := &JPEGEncoder{}
	e.SetQuality(quality)
	return e
}

// SetQuality clamps quality to 1-100. Safe to call while encoding.
func (e *JPEGEncoder) SetQuality(quality int) {
	e.quality.Store(int32(clampQuality(quality)))
}

// Quality returns the current quality.
func (e *JPEGEncoder) Quality() int {
	return int(e.quality.Load())
}

func (e *JPEGEncoder) Encode(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(256 * 1024)
	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.Quality()})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clampQuality(q int) int {
	return min(max(q, 1), 100)
}
