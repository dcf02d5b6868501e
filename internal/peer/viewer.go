package peer

import (
	"context"
	"errors"
	"image"
	"sync/atomic"

	"github.com/junsooki/airdesk/internal/input"
	"github.com/junsooki/airdesk/internal/stats"
	"github.com/junsooki/airdesk/internal/transport"
	"github.com/junsooki/airdesk/internal/util"
)

// Presenter is the viewer's presentation collaborator. Calls arrive on the
// dispatch goroutine and must not block.
type Presenter interface {
	OnFrame(img *image.RGBA)
	OnDisconnect(reason error)
	OnError(err error)
}

// Viewer is the client end of one session: a Dispatcher delivering frames
// to a Presenter and a Relay sending local input.
type Viewer struct {
	ch        *transport.Channel
	relay     *input.Relay
	disp      *Dispatcher
	stats     *stats.Stats
	streaming atomic.Bool
}

func NewViewer(ch *transport.Channel, dec FrameDecoder, p Presenter, st *stats.Stats) *Viewer {
	if st == nil {
		st = stats.New()
	}
	v := &Viewer{
		ch:    ch,
		stats: st,
		relay: input.NewRelay(ch),
	}
	prefix := util.ShortID(ch.ID())
	v.disp = NewDispatcher(ch, DispatchConfig{
		Role:    RoleViewer,
		Decoder: dec,
		OnFrame: func(img *image.RGBA) {
			// The host streams only after accepting the credential.
			if v.streaming.CompareAndSwap(false, true) {
				util.LogSuccess("[%s] streaming from %s", prefix, ch.RemoteAddr())
			}
			p.OnFrame(img)
		},
		OnError:      p.OnError,
		OnDisconnect: p.OnDisconnect,
		LogPrefix:    prefix,
	}, st)
	return v
}

// Streaming reports whether a frame has been delivered, which also means the
// host accepted the credential.
func (v *Viewer) Streaming() bool { return v.streaming.Load() }

// Relay returns the input relay bound to this session.
func (v *Viewer) Relay() *input.Relay { return v.relay }

// Run dispatches until the host disconnects or ctx is done. An orderly
// close is not an error.
func (v *Viewer) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { v.ch.Close() })
	defer stop()

	err := v.disp.Run()
	v.ch.Close()
	v.stats.AddWire(v.ch.BytesSent(), v.ch.BytesReceived())
	if ctx.Err() != nil || errors.Is(err, transport.ErrClosed) {
		return nil
	}
	return err
}

// Close ends the session; Run returns shortly after.
func (v *Viewer) Close() error {
	return v.ch.Close()
}
