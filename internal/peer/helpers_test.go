package peer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/junsooki/airdesk/internal/protocol"
	"github.com/junsooki/airdesk/internal/transport"
)

// fakeCapturer returns solid gray rasters. With grow set, each frame is one
// pixel wider than the last so receivers can check ordering.
type fakeCapturer struct {
	mu     sync.Mutex
	bounds image.Rectangle
	fail   int
	grow   bool
	calls  int
}

func (c *fakeCapturer) Bounds() image.Rectangle { return c.bounds }

func (c *fakeCapturer) Capture(region image.Rectangle) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.calls <= c.fail {
		return nil, errors.New("display asleep")
	}
	w := region.Dx()
	if c.grow {
		w = 16 + c.calls
	}
	img := image.NewRGBA(image.Rect(0, 0, w, region.Dy()))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 90, 90, 90, 255
	}
	return img, nil
}

func (c *fakeCapturer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// recordingSender keeps every frame and fails once failAt sends succeeded.
type recordingSender struct {
	mu     sync.Mutex
	frames []protocol.Frame
	failAt int
}

func (s *recordingSender) Send(msg protocol.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.frames) >= s.failAt {
		return errors.New("broken pipe")
	}
	s.frames = append(s.frames, msg.(protocol.Frame))
	return nil
}

func (s *recordingSender) Frames() []protocol.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Frame(nil), s.frames...)
}

type injectedCall struct {
	op   string
	pt   image.Point
	btn  protocol.Button
	n    int
	name string
}

type recordingInjector struct {
	mu    sync.Mutex
	calls []injectedCall
}

func (r *recordingInjector) record(c injectedCall) error {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
	return nil
}

func (r *recordingInjector) MoveCursor(x, y int) error {
	return r.record(injectedCall{op: "move", pt: image.Pt(x, y)})
}

func (r *recordingInjector) Click(x, y int, b protocol.Button, n int) error {
	return r.record(injectedCall{op: "click", pt: image.Pt(x, y), btn: b, n: n})
}

func (r *recordingInjector) KeyDown(name string) error {
	return r.record(injectedCall{op: "down", name: name})
}

func (r *recordingInjector) KeyUp(name string) error {
	return r.record(injectedCall{op: "up", name: name})
}

func (r *recordingInjector) Calls() []injectedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]injectedCall(nil), r.calls...)
}

type recordingPresenter struct {
	mu          sync.Mutex
	widths      []int
	errs        []error
	disconnects []error
	corner      color.RGBA
}

func (p *recordingPresenter) OnFrame(img *image.RGBA) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.widths = append(p.widths, img.Bounds().Dx())
	p.corner = img.RGBAAt(img.Bounds().Min.X, img.Bounds().Min.Y)
}

func (p *recordingPresenter) OnDisconnect(reason error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnects = append(p.disconnects, reason)
}

func (p *recordingPresenter) OnError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, err)
}

func (p *recordingPresenter) snapshot() (widths []int, errs, disconnects []error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.widths...),
		append([]error(nil), p.errs...),
		append([]error(nil), p.disconnects...)
}

// scriptedReceiver replays steps, then reports a closed channel.
type scriptedReceiver struct {
	steps []step
	i     int
}

type step struct {
	msg protocol.Message
	err error
}

func (r *scriptedReceiver) Receive() (protocol.Message, error) {
	if r.i >= len(r.steps) {
		return nil, fmt.Errorf("eof: %w", transport.ErrClosed)
	}
	s := r.steps[r.i]
	r.i++
	return s.msg, s.err
}
