// Package peer runs the host and viewer ends of a session: the capture
// loop, the receive dispatch loop, and their supervision.
package peer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/junsooki/airdesk/internal/capture"
	"github.com/junsooki/airdesk/internal/encoder"
	"github.com/junsooki/airdesk/internal/protocol"
	"github.com/junsooki/airdesk/internal/stats"
	"github.com/junsooki/airdesk/internal/transport"
	"github.com/junsooki/airdesk/internal/util"
)

// State is the capture loop lifecycle: Idle, Capturing, then Stopped or
// Error.
type State int32

const (
	StateIdle State = iota
	StateCapturing
	StateStopped
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// CaptureConfig tunes the capture loop.
type CaptureConfig struct {
	// FPS is the target rate. The loop never exceeds it.
	FPS int
	// BorderWidth is the session indicator width; zero disables it.
	BorderWidth int
	// LogPrefix tags log lines, usually the session short id.
	LogPrefix string
}

// CaptureLoop grabs, marks, encodes and sends frames at a bounded rate.
// It is the only sender on its channel.
type CaptureLoop struct {
	capturer capture.Capturer
	encoder  encoder.Encoder
	sender   transport.MessageSender
	stats    *stats.Stats

	interval time.Duration
	border   int
	prefix   string

	state atomic.Int32
}

func NewCaptureLoop(c capture.Capturer, enc encoder.Encoder, sender transport.MessageSender, cfg CaptureConfig, st *stats.Stats) *CaptureLoop {
	fps := max(cfg.FPS, 1)
	if st == nil {
		st = stats.New()
	}
	return &CaptureLoop{
		capturer: c,
		encoder:  enc,
		sender:   sender,
		stats:    st,
		interval: time.Second / time.Duration(fps),
		border:   cfg.BorderWidth,
		prefix:   cfg.LogPrefix,
	}
}

// State reports the current lifecycle state.
func (l *CaptureLoop) State() State {
	return State(l.state.Load())
}

// Run streams frames until ctx is done (returns nil) or a send fails
// (returns the error). Capture and encode failures skip the frame.
func (l *CaptureLoop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(StateIdle), int32(StateCapturing)) {
		return fmt.Errorf("capture loop already %s", l.State())
	}

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	var last time.Time
	for {
		if ctx.Err() != nil {
			l.state.Store(int32(StateStopped))
			return nil
		}

		if !last.IsZero() {
			if wait := l.interval - time.Since(last); wait > 0 {
				timer.Reset(wait)
				select {
				case <-ctx.Done():
					l.state.Store(int32(StateStopped))
					return nil
				case <-timer.C:
				}
			}
		}
		last = time.Now()

		if err := l.captureAndSend(); err != nil {
			l.state.Store(int32(StateError))
			return err
		}
	}
}

func (l *CaptureLoop) captureAndSend() error {
	frame, err := capture.Grab(l.capturer)
	if err != nil {
		l.stats.FramesDropped.Add(1)
		util.LogWarning("[%s] capture: %v", l.prefix, err)
		return nil
	}

	capture.DrawBorder(frame.Image, l.border, capture.BorderColor)

	data, err := l.encoder.Encode(frame.Image)
	if err != nil {
		l.stats.FramesDropped.Add(1)
		util.LogWarning("[%s] encode frame: %v", l.prefix, err)
		return nil
	}

	msg := protocol.Frame{Width: frame.Width(), Height: frame.Height(), Payload: data}
	if err := l.sender.Send(msg); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	l.stats.FrameSent(len(data))
	util.LogDebug("[%s] frame %dx%d, %d bytes, captured %s ago",
		l.prefix, msg.Width, msg.Height, len(data), time.Since(frame.Timestamp).Round(time.Millisecond))
	return nil
}
