package peer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/junsooki/airdesk/internal/capture"
	"github.com/junsooki/airdesk/internal/encoder"
	"github.com/junsooki/airdesk/internal/input"
	"github.com/junsooki/airdesk/internal/stats"
	"github.com/junsooki/airdesk/internal/transport"
	"github.com/junsooki/airdesk/internal/util"
)

// Acceptor yields authenticated sessions one at a time.
type Acceptor interface {
	Accept(ctx context.Context) (*transport.Channel, error)
}

// HostConfig tunes the host.
type HostConfig struct {
	FPS         int
	BorderWidth int
	// Once stops serving after the first session or failed attempt.
	Once bool
	// OnDisconnect, when set, is called once per session as it ends.
	OnDisconnect func(reason error)
}

// Host serves viewers sequentially: one session at a time, each running a
// CaptureLoop and a Dispatcher.
type Host struct {
	acceptor Acceptor
	capturer capture.Capturer
	encoder  encoder.Encoder
	injector input.Injector
	cfg      HostConfig
	stats    *stats.Stats
}

func NewHost(a Acceptor, c capture.Capturer, enc encoder.Encoder, inj input.Injector, cfg HostConfig, st *stats.Stats) *Host {
	if st == nil {
		st = stats.New()
	}
	return &Host{
		acceptor: a,
		capturer: c,
		encoder:  enc,
		injector: inj,
		cfg:      cfg,
		stats:    st,
	}
}

// Serve accepts and runs sessions until ctx is done or the listener fails.
func (h *Host) Serve(ctx context.Context) error {
	for {
		ch, err := h.acceptor.Accept(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, transport.ErrConnectFailed):
			return err
		case errors.Is(err, transport.ErrAuthFailed):
			h.stats.AuthFailures.Add(1)
			util.LogWarning("rejected viewer: %v", err)
		case err != nil:
			util.LogWarning("handshake: %v", err)
		default:
			if err := h.RunSession(ctx, ch); err != nil {
				util.LogError("[%s] %v", util.ShortID(ch.ID()), err)
			}
		}

		if h.cfg.Once {
			return err
		}
	}
}

// RunSession streams to and injects from one authenticated viewer until
// either side ends the session. The channel is closed on return. A viewer
// disconnect or ctx cancellation is not an error.
func (h *Host) RunSession(ctx context.Context, ch *transport.Channel) error {
	prefix := util.ShortID(ch.ID())
	util.LogSuccess("[%s] viewer %s authenticated", prefix, ch.RemoteAddr())

	h.stats.SessionStarted()
	defer h.stats.SessionEnded()
	defer func() {
		ch.Close()
		h.stats.AddWire(ch.BytesSent(), ch.BytesReceived())
	}()

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() { ch.Close() })
	defer stop()

	loop := NewCaptureLoop(h.capturer, h.encoder, ch, CaptureConfig{
		FPS:         h.cfg.FPS,
		BorderWidth: h.cfg.BorderWidth,
		LogPrefix:   prefix,
	}, h.stats)

	disp := NewDispatcher(ch, DispatchConfig{
		Role:         RoleHost,
		Input:        input.NewMapper(h.capturer.Bounds(), h.injector),
		OnDisconnect: h.cfg.OnDisconnect,
		LogPrefix:    prefix,
	}, h.stats)

	g.Go(func() error { return loop.Run(gctx) })
	g.Go(disp.Run)

	err := g.Wait()
	disp.Disconnect(err)

	if ctx.Err() != nil || errors.Is(err, transport.ErrClosed) {
		return nil
	}
	return fmt.Errorf("session: %w", err)
}
