package encoder

import (
	"bytes"

	"github.com/pierrec/lz4/v4"
)

// LZ4Compressor wraps payloads in an LZ4 frame.
type LZ4Compressor struct {
	level lz4.CompressionLevel
}

func NewLZ4Compressor() *LZ4Compressor {
	return &LZ4Compressor{level: lz4.Fast}
}

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data))
	zw := lz4.NewWriter(&buf)
	if err := zw.Apply(lz4.CompressionLevelOption(c.level)); err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
