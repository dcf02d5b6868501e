package peer

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/junsooki/airdesk/internal/input"
	"github.com/junsooki/airdesk/internal/protocol"
	"github.com/junsooki/airdesk/internal/stats"
	"github.com/junsooki/airdesk/internal/transport"
	"github.com/junsooki/airdesk/internal/util"
)

// ErrProtocolViolation marks a message the receiving role never expects.
// The message is ignored.
var ErrProtocolViolation = errors.New("protocol violation")

// Role is the side of the session a dispatcher serves.
type Role int

const (
	RoleHost Role = iota
	RoleViewer
)

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "viewer"
}

// FrameDecoder turns a received frame into a raster.
type FrameDecoder interface {
	DecodeFrame(width, height int, data []byte) (*image.RGBA, error)
}

// InputApplier injects a received input message.
type InputApplier interface {
	Apply(msg protocol.Message) error
}

// DispatchConfig wires a Dispatcher. Role decides which message kinds are
// accepted; handlers for the other role may be nil.
type DispatchConfig struct {
	Role Role

	// Viewer side.
	Decoder FrameDecoder
	OnFrame func(*image.RGBA)

	// Host side.
	Input InputApplier

	// OnError reports recoverable per-message problems.
	OnError func(error)
	// OnDisconnect is called exactly once when the session ends.
	OnDisconnect func(reason error)

	LogPrefix string
}

// Dispatcher is the single receive loop of a session. It blocks only on the
// channel read; callbacks must return promptly.
type Dispatcher struct {
	recv  transport.MessageReceiver
	cfg   DispatchConfig
	stats *stats.Stats

	disconnectOnce sync.Once
}

func NewDispatcher(recv transport.MessageReceiver, cfg DispatchConfig, st *stats.Stats) *Dispatcher {
	if st == nil {
		st = stats.New()
	}
	return &Dispatcher{recv: recv, cfg: cfg, stats: st}
}

// Run receives until the channel fails and returns the terminal error,
// which wraps transport.ErrClosed for an orderly close.
func (d *Dispatcher) Run() error {
	for {
		msg, err := d.recv.Receive()
		if transport.IsTerminal(err) {
			d.Disconnect(err)
			return err
		}
		if err != nil {
			d.stats.CorruptMsgs.Add(1)
			d.report(err)
			continue
		}
		d.dispatch(msg)
	}
}

// Disconnect fires OnDisconnect if it has not fired yet.
func (d *Dispatcher) Disconnect(reason error) {
	d.disconnectOnce.Do(func() {
		util.LogInfo("[%s] session ended: %v", d.cfg.LogPrefix, reason)
		if d.cfg.OnDisconnect != nil {
			d.cfg.OnDisconnect(reason)
		}
	})
}

func (d *Dispatcher) dispatch(msg protocol.Message) {
	kind := msg.Kind()
	switch {
	case kind == protocol.KindFrame && d.cfg.Role == RoleViewer && d.cfg.Decoder != nil:
		d.handleFrame(msg.(protocol.Frame))

	case kind.IsInput() && d.cfg.Role == RoleHost:
		d.handleInput(msg)

	default:
		d.report(fmt.Errorf("%w: %s sent to %s", ErrProtocolViolation, kind, d.cfg.Role))
	}
}

func (d *Dispatcher) handleFrame(f protocol.Frame) {
	img, err := d.cfg.Decoder.DecodeFrame(f.Width, f.Height, f.Payload)
	if err != nil {
		d.stats.FramesDropped.Add(1)
		d.report(err)
		return
	}
	d.stats.FrameReceived(len(f.Payload))
	if d.cfg.OnFrame != nil {
		d.cfg.OnFrame(img)
	}
}

func (d *Dispatcher) handleInput(msg protocol.Message) {
	if d.cfg.Input == nil {
		return
	}
	err := d.cfg.Input.Apply(msg)
	switch {
	case err == nil:
		d.stats.InputApplied.Add(1)
	case errors.Is(err, input.ErrDropped):
		d.stats.InputDropped.Add(1)
		util.LogDebug("[%s] %v", d.cfg.LogPrefix, err)
	default:
		d.report(fmt.Errorf("inject %s: %w", msg.Kind(), err))
	}
}

func (d *Dispatcher) report(err error) {
	util.LogWarning("[%s] %v", d.cfg.LogPrefix, err)
	if d.cfg.OnError != nil {
		d.cfg.OnError(err)
	}
}
