// Package protocol defines the session envelope exchanged between host and viewer.
package protocol

import "fmt"

// Kind is the envelope discriminant. Values match the wire byte.
type Kind uint8

const (
	KindAuth         Kind = 0
	KindFrame        Kind = 1
	KindPointerMove  Kind = 2
	KindPointerClick Kind = 3
	KindKeyDown      Kind = 4
	KindKeyUp        Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindFrame:
		return "frame"
	case KindPointerMove:
		return "pointer-move"
	case KindPointerClick:
		return "pointer-click"
	case KindKeyDown:
		return "key-down"
	case KindKeyUp:
		return "key-up"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsInput reports whether messages of this kind are injected on the host.
func (k Kind) IsInput() bool {
	switch k {
	case KindPointerMove, KindPointerClick, KindKeyDown, KindKeyUp:
		return true
	}
	return false
}

// Message is one decrypted envelope. The concrete types below are the only
// implementations.
type Message interface {
	Kind() Kind
}

// Auth carries the shared credential. It must be the viewer's first message.
type Auth struct {
	Credential string
}

// Frame is one compressed raster captured at a single instant.
type Frame struct {
	Width   int
	Height  int
	Payload []byte
}

// PointerMove positions the cursor. X and Y are ratios in [0,1] of the
// host's capture region.
type PointerMove struct {
	X, Y float64
}

// Button identifies a pointer button.
type Button uint8

const (
	ButtonLeft   Button = 0
	ButtonRight  Button = 1
	ButtonMiddle Button = 2
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "center"
	default:
		return fmt.Sprintf("button(%d)", uint8(b))
	}
}

// PointerClick clicks Button Count times at the given ratio position.
type PointerClick struct {
	X, Y   float64
	Button Button
	Count  int
}

// Key presses or releases a logical key.
type Key struct {
	Name    string
	Pressed bool
}

func (Auth) Kind() Kind         { return KindAuth }
func (Frame) Kind() Kind        { return KindFrame }
func (PointerMove) Kind() Kind  { return KindPointerMove }
func (PointerClick) Kind() Kind { return KindPointerClick }

func (k Key) Kind() Kind {
	if k.Pressed {
		return KindKeyDown
	}
	return KindKeyUp
}
