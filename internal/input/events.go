// Package input relays viewer pointer and keyboard events to the host and
// injects them there.
package input

import "github.com/junsooki/airdesk/internal/protocol"

// PointerEvent is a pointer action in screen-independent coordinates. X and
// Y are ratios in [0,1] of the host's capture region. Clicks of zero means a
// plain move.
type PointerEvent struct {
	X, Y   float64
	Button protocol.Button
	Clicks int
}

// Message converts the event to its envelope.
func (e PointerEvent) Message() protocol.Message {
	if e.Clicks > 0 {
		return protocol.PointerClick{X: e.X, Y: e.Y, Button: e.Button, Count: e.Clicks}
	}
	return protocol.PointerMove{X: e.X, Y: e.Y}
}

// KeyEvent presses or releases a key from the shared vocabulary.
type KeyEvent struct {
	Name    string
	Pressed bool
}

func (e KeyEvent) Message() protocol.Message {
	return protocol.Key{Name: e.Name, Pressed: e.Pressed}
}
