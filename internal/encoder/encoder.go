// Package encoder turns captured rasters into frame payloads.
package encoder

import (
	"errors"
	"fmt"
	"image"
)

// ErrEmptyImage is returned for rasters with no pixels.
var ErrEmptyImage = errors.New("encoder: empty image")

// Encoder encodes an image into bytes.
type Encoder interface {
	Encode(img *image.RGBA) ([]byte, error)
	SetQuality(quality int)
}

// Pipeline is the fixed two-stage frame encoder: lossy JPEG, then an
// optional lossless LZ4 pass. The decoder must be built with the same
// compression setting.
type Pipeline struct {
	image    Encoder
	compress *LZ4Compressor
}

var _ Encoder = (*Pipeline)(nil)

// NewPipeline creates a pipeline at the given JPEG quality (clamped to 1-100).
func NewPipeline(quality int, compression bool) *Pipeline {
	p := &Pipeline{image: NewJPEGEncoder(quality)}
	if compression {
		p.compress = NewLZ4Compressor()
	}
	return p
}

func (p *Pipeline) SetQuality(quality int) {
	p.image.SetQuality(quality)
}

func (p *Pipeline) Encode(img *image.RGBA) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	data, err := p.image.Encode(img)
	if err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}
	if p.compress == nil {
		return data, nil
	}
	data, err = p.compress.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return data, nil
}
