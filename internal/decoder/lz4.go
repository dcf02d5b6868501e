package decoder

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// MaxPayloadSize bounds the decompressed size of one frame.
const MaxPayloadSize = 64 << 20

// LZ4Decompressor reads one LZ4 frame.
type LZ4Decompressor struct {
	limit int64
}

func NewLZ4Decompressor(limit int64) *LZ4Decompressor {
	return &LZ4Decompressor{limit: limit}
}

func (d *LZ4Decompressor) Decompress(data []byte) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(io.LimitReader(zr, d.limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > d.limit {
		return nil, fmt.Errorf("decompressed size exceeds %d bytes", d.limit)
	}
	return out, nil
}
