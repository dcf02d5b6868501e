package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrShortMessage is returned when a buffer ends before its fields do.
	ErrShortMessage = errors.New("protocol: message too short")
	// ErrUnknownKind is returned for a discriminant outside the known set.
	ErrUnknownKind = errors.New("protocol: unknown message kind")
)

// Field size limits.
const (
	MaxCredentialLen = math.MaxUint16
	MaxKeyNameLen    = math.MaxUint8
	MaxClickCount    = math.MaxUint8
)

// Marshal serializes a message as [kind][fields...], big-endian.
func Marshal(m Message) ([]byte, error) {
	switch v := m.(type) {
	case Auth:
		if len(v.Credential) > MaxCredentialLen {
			return nil, fmt.Errorf("credential too long: %d bytes", len(v.Credential))
		}
		buf := make([]byte, 1+2+len(v.Credential))
		buf[0] = byte(KindAuth)
		binary.BigEndian.PutUint16(buf[1:3], uint16(len(v.Credential)))
		copy(buf[3:], v.Credential)
		return buf, nil

	case Frame:
		if v.Width < 0 || v.Height < 0 || int64(v.Width) > math.MaxUint32 || int64(v.Height) > math.MaxUint32 {
			return nil, fmt.Errorf("frame dimensions out of range: %dx%d", v.Width, v.Height)
		}
		buf := make([]byte, 1+8+len(v.Payload))
		buf[0] = byte(KindFrame)
		binary.BigEndian.PutUint32(buf[1:5], uint32(v.Width))
		binary.BigEndian.PutUint32(buf[5:9], uint32(v.Height))
		copy(buf[9:], v.Payload)
		return buf, nil

	case PointerMove:
		buf := make([]byte, 1+16)
		buf[0] = byte(KindPointerMove)
		putPoint(buf[1:], v.X, v.Y)
		return buf, nil

	case PointerClick:
		if v.Count < 1 || v.Count > MaxClickCount {
			return nil, fmt.Errorf("click count out of range: %d", v.Count)
		}
		buf := make([]byte, 1+16+2)
		buf[0] = byte(KindPointerClick)
		putPoint(buf[1:], v.X, v.Y)
		buf[17] = byte(v.Button)
		buf[18] = byte(v.Count)
		return buf, nil

	case Key:
		if v.Name == "" || len(v.Name) > MaxKeyNameLen {
			return nil, fmt.Errorf("invalid key name length: %d", len(v.Name))
		}
		buf := make([]byte, 1+1+len(v.Name))
		buf[0] = byte(v.Kind())
		buf[1] = byte(len(v.Name))
		copy(buf[2:], v.Name)
		return buf, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, m)
	}
}

// Unmarshal decodes a buffer produced by Marshal. The returned Frame payload
// does not alias data.
func Unmarshal(data []byte) (Message, error) {
	if len(data) < 1 {
		return nil, ErrShortMessage
	}
	kind, body := Kind(data[0]), data[1:]

	switch kind {
	case KindAuth:
		if len(body) < 2 {
			return nil, ErrShortMessage
		}
		n := int(binary.BigEndian.Uint16(body[:2]))
		if len(body[2:]) != n {
			return nil, fmt.Errorf("%w: auth credential length %d, have %d", ErrShortMessage, n, len(body[2:]))
		}
		return Auth{Credential: string(body[2:])}, nil

	case KindFrame:
		if len(body) < 8 {
			return nil, ErrShortMessage
		}
		f := Frame{
			Width:  int(binary.BigEndian.Uint32(body[0:4])),
			Height: int(binary.BigEndian.Uint32(body[4:8])),
		}
		f.Payload = make([]byte, len(body)-8)
		copy(f.Payload, body[8:])
		return f, nil

	case KindPointerMove:
		if len(body) != 16 {
			return nil, ErrShortMessage
		}
		x, y := point(body)
		return PointerMove{X: x, Y: y}, nil

	case KindPointerClick:
		if len(body) != 18 {
			return nil, ErrShortMessage
		}
		x, y := point(body)
		return PointerClick{X: x, Y: y, Button: Button(body[16]), Count: int(body[17])}, nil

	case KindKeyDown, KindKeyUp:
		if len(body) < 1 {
			return nil, ErrShortMessage
		}
		n := int(body[0])
		if n == 0 || len(body[1:]) != n {
			return nil, fmt.Errorf("%w: key name length %d, have %d", ErrShortMessage, n, len(body[1:]))
		}
		return Key{Name: string(body[1:]), Pressed: kind == KindKeyDown}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(kind))
	}
}

func putPoint(buf []byte, x, y float64) {
	binary.BigEndian.PutUint64(buf[0:8], math.Float64bits(x))
	binary.BigEndian.PutUint64(buf[8:16], math.Float64bits(y))
}

func point(buf []byte) (x, y float64) {
	x = math.Float64frombits(binary.BigEndian.Uint64(buf[0:8]))
	y = math.Float64frombits(binary.BigEndian.Uint64(buf[8:16]))
	return x, y
}
