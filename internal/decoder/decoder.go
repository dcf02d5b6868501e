// Package decoder reverses the frame encoding pipeline.
package decoder

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidFrame is returned for any payload that does not decode to a
// usable raster.
var ErrInvalidFrame = errors.New("invalid frame")

// Decoder decodes bytes into an image.
type Decoder interface {
	Decode(data []byte) (*image.RGBA, error)
}

// Pipeline undoes LZ4 (when enabled) and then JPEG.
type Pipeline struct {
	image      Decoder
	decompress *LZ4Decompressor
}

var _ Decoder = (*Pipeline)(nil)

// NewPipeline creates a decoder matching encoder.NewPipeline's compression
// setting.
func NewPipeline(compression bool) *Pipeline {
	p := &Pipeline{image: NewJPEGDecoder()}
	if compression {
		p.decompress = NewLZ4Decompressor(MaxPayloadSize)
	}
	return p
}

// Decode returns ErrInvalidFrame if either stage fails or the raster is
// empty.
func (p *Pipeline) Decode(data []byte) (*image.RGBA, error) {
	if p.decompress != nil {
		var err error
		data, err = p.decompress.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrInvalidFrame, err)
		}
	}

	img, err := p.image.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: jpeg: %w", ErrInvalidFrame, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: zero-sized raster", ErrInvalidFrame)
	}
	return img, nil
}

// DecodeFrame decodes a payload and checks it against the announced size.
func (p *Pipeline) DecodeFrame(width, height int, data []byte) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: announced size %dx%d", ErrInvalidFrame, width, height)
	}
	img, err := p.Decode(data)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		return nil, fmt.Errorf("%w: decoded %dx%d, announced %dx%d",
			ErrInvalidFrame, b.Dx(), b.Dy(), width, height)
	}
	return img, nil
}
