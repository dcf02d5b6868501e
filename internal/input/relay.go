package input

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/junsooki/airdesk/internal/protocol"
	"github.com/junsooki/airdesk/internal/transport"
)

// ErrDropped marks an event that was discarded because it has no mapping:
// an unknown key or a point outside the viewport. It is never fatal.
var ErrDropped = errors.New("input event dropped")

// Relay turns local viewer interaction into envelopes and sends them
// synchronously. It is meant to be driven from the UI goroutine, the only
// sender in the viewer-to-host direction.
type Relay struct {
	sender transport.MessageSender

	mu       sync.Mutex
	viewport Viewport

	sent    atomic.Uint64
	dropped atomic.Uint64
}

func NewRelay(sender transport.MessageSender) *Relay {
	return &Relay{sender: sender}
}

// SetViewport records where the last received frame is drawn.
func (r *Relay) SetViewport(v Viewport) {
	r.mu.Lock()
	r.viewport = v
	r.mu.Unlock()
}

// Viewport returns the current viewport.
func (r *Relay) Viewport() Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

// PointerMove sends the cursor position given in local window pixels.
func (r *Relay) PointerMove(x, y float64) error {
	xr, yr, ok := r.Viewport().Normalize(x, y)
	if !ok {
		return r.drop()
	}
	return r.send(PointerEvent{X: xr, Y: yr}.Message())
}

// Click sends count clicks of button at a local window position.
func (r *Relay) Click(x, y float64, button protocol.Button, count int) error {
	xr, yr, ok := r.Viewport().Normalize(x, y)
	if !ok || count < 1 {
		return r.drop()
	}
	return r.send(PointerEvent{X: xr, Y: yr, Button: button, Clicks: count}.Message())
}

// Key sends a key transition. Names outside the vocabulary are dropped.
func (r *Relay) Key(name string, pressed bool) error {
	key, ok := NormalizeKey(name)
	if !ok {
		return r.drop()
	}
	return r.send(KeyEvent{Name: key, Pressed: pressed}.Message())
}

// Sent returns the number of events delivered to the channel.
func (r *Relay) Sent() uint64 { return r.sent.Load() }

// Dropped returns the number of events discarded before sending.
func (r *Relay) Dropped() uint64 { return r.dropped.Load() }

func (r *Relay) send(msg protocol.Message) error {
	if err := r.sender.Send(msg); err != nil {
		return err
	}
	r.sent.Add(1)
	return nil
}

func (r *Relay) drop() error {
	r.dropped.Add(1)
	return ErrDropped
}
