package input

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/airdesk/internal/protocol"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Enter", "enter", true},
		{"Return", "enter", true},
		{"ArrowUp", "up", true},
		{"Escape", "esc", true},
		{"Control", "ctrl", true},
		{"Meta", "cmd", true},
		{" ", "space", true},
		{"F12", "f12", true},
		{"PageDown", "pagedown", true},
		{"a", "a", true},
		{"A", "a", true},
		{"7", "7", true},
		{"/", "/", true},
		{"é", "é", true},
		{"", "", false},
		{"CapsLock", "", false},
		{"F13", "", false},
		{"\t", "", false},
		{"\x00", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeKey(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsKnownKey(t *testing.T) {
	assert.True(t, IsKnownKey("enter"))
	assert.True(t, IsKnownKey("x"))
	assert.False(t, IsKnownKey("Enter"))
	assert.False(t, IsKnownKey("return"))
	assert.False(t, IsKnownKey("hyper"))
}

func TestFitViewport(t *testing.T) {
	tests := []struct {
		name                 string
		viewW, viewH, fw, fh float64
		want                 Viewport
	}{
		{"exact", 1920, 1080, 1920, 1080, Viewport{0, 0, 1920, 1080}},
		{"pillarbox", 1000, 500, 800, 800, Viewport{250, 0, 500, 500}},
		{"letterbox", 800, 800, 1600, 900, Viewport{0, 175, 800, 450}},
		{"no frame", 800, 600, 0, 0, Viewport{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitViewport(tt.viewW, tt.viewH, tt.fw, tt.fh)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.W, got.W, 1e-9)
			assert.InDelta(t, tt.want.H, got.H, 1e-9)
		})
	}
}

func TestViewportNormalize(t *testing.T) {
	v := Viewport{X: 250, Y: 0, W: 500, H: 500}

	xr, yr, ok := v.Normalize(500, 250)
	require.True(t, ok)
	assert.InDelta(t, 0.5, xr, 1e-9)
	assert.InDelta(t, 0.5, yr, 1e-9)

	_, _, ok = v.Normalize(100, 250)
	assert.False(t, ok, "point in the letterbox bar")

	_, _, ok = Viewport{}.Normalize(1, 1)
	assert.False(t, ok)
}

type recordingSender struct {
	msgs []protocol.Message
	err  error
}

func (s *recordingSender) Send(msg protocol.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func TestRelayNormalizesAgainstViewport(t *testing.T) {
	s := &recordingSender{}
	r := NewRelay(s)

	// A 1000x1000 window showing the frame at half size in its centre.
	r.SetViewport(Viewport{X: 250, Y: 250, W: 500, H: 500})

	require.NoError(t, r.Click(300, 700, protocol.ButtonLeft, 1))
	require.NoError(t, r.PointerMove(750, 250))
	require.NoError(t, r.Key("Enter", true))
	require.NoError(t, r.Key("Enter", false))

	require.Len(t, s.msgs, 4)
	click := s.msgs[0].(protocol.PointerClick)
	assert.InDelta(t, 0.1, click.X, 1e-9)
	assert.InDelta(t, 0.9, click.Y, 1e-9)
	assert.Equal(t, 1, click.Count)
	assert.Equal(t, protocol.PointerMove{X: 1, Y: 0}, s.msgs[1])
	assert.Equal(t, protocol.Key{Name: "enter", Pressed: true}, s.msgs[2])
	assert.Equal(t, protocol.Key{Name: "enter"}, s.msgs[3])
	assert.Equal(t, uint64(4), r.Sent())
}

func TestRelayDrops(t *testing.T) {
	s := &recordingSender{}
	r := NewRelay(s)

	assert.ErrorIs(t, r.PointerMove(10, 10), ErrDropped, "no viewport yet")

	r.SetViewport(Viewport{X: 0, Y: 0, W: 100, H: 100})
	assert.ErrorIs(t, r.PointerMove(150, 10), ErrDropped)
	assert.ErrorIs(t, r.Click(10, 10, protocol.ButtonLeft, 0), ErrDropped)
	assert.ErrorIs(t, r.Key("CapsLock", true), ErrDropped)

	assert.Empty(t, s.msgs)
	assert.Equal(t, uint64(4), r.Dropped())
}

func TestRelaySendError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRelay(&recordingSender{err: boom})
	r.SetViewport(Viewport{W: 10, H: 10})
	assert.ErrorIs(t, r.PointerMove(5, 5), boom)
	assert.Zero(t, r.Sent())
}

type call struct {
	op     string
	x, y   int
	button protocol.Button
	count  int
	key    string
}

type recordingInjector struct {
	calls []call
}

func (r *recordingInjector) MoveCursor(x, y int) error {
	r.calls = append(r.calls, call{op: "move", x: x, y: y})
	return nil
}

func (r *recordingInjector) Click(x, y int, b protocol.Button, n int) error {
	r.calls = append(r.calls, call{op: "click", x: x, y: y, button: b, count: n})
	return nil
}

func (r *recordingInjector) KeyDown(name string) error {
	r.calls = append(r.calls, call{op: "down", key: name})
	return nil
}

func (r *recordingInjector) KeyUp(name string) error {
	r.calls = append(r.calls, call{op: "up", key: name})
	return nil
}

func TestMapperToPixel(t *testing.T) {
	m := NewMapper(image.Rect(0, 0, 1920, 1080), nil)

	tests := []struct {
		name   string
		xr, yr float64
		want   image.Point
		ok     bool
	}{
		{"centre", 0.5, 0.5, image.Pt(960, 540), true},
		{"origin", 0, 0, image.Pt(0, 0), true},
		{"far corner clamps inside", 1, 1, image.Pt(1919, 1079), true},
		{"click ratio", 0.1, 0.9, image.Pt(192, 972), true},
		{"negative", -0.1, 0.5, image.Point{}, false},
		{"above one", 0.5, 1.01, image.Point{}, false},
		{"nan", math.NaN(), 0.5, image.Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.ToPixel(tt.xr, tt.yr)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapperOffsetRegion(t *testing.T) {
	m := NewMapper(image.Rect(1920, 0, 3840, 1080), nil)
	p, ok := m.ToPixel(0.5, 0.5)
	require.True(t, ok)
	assert.Equal(t, image.Pt(2880, 540), p)
}

func TestMapperApply(t *testing.T) {
	inj := &recordingInjector{}
	m := NewMapper(image.Rect(0, 0, 1000, 500), inj)

	require.NoError(t, m.Apply(protocol.PointerMove{X: 0.5, Y: 0.5}))
	require.NoError(t, m.Apply(protocol.PointerClick{X: 0.1, Y: 0.9, Button: protocol.ButtonRight, Count: 2}))
	require.NoError(t, m.Apply(protocol.Key{Name: "a", Pressed: true}))
	require.NoError(t, m.Apply(protocol.Key{Name: "a"}))

	assert.Equal(t, []call{
		{op: "move", x: 500, y: 250},
		{op: "click", x: 100, y: 450, button: protocol.ButtonRight, count: 2},
		{op: "down", key: "a"},
		{op: "up", key: "a"},
	}, inj.calls)
}

func TestMapperApplyDrops(t *testing.T) {
	inj := &recordingInjector{}
	m := NewMapper(image.Rect(0, 0, 100, 100), inj)

	assert.ErrorIs(t, m.Apply(protocol.PointerMove{X: 2, Y: 0}), ErrDropped)
	assert.ErrorIs(t, m.Apply(protocol.PointerClick{X: 0.5, Y: 0.5, Button: 9, Count: 1}), ErrDropped)
	assert.ErrorIs(t, m.Apply(protocol.Key{Name: "hyper", Pressed: true}), ErrDropped)
	assert.Empty(t, inj.calls)

	err := m.Apply(protocol.Frame{Width: 1, Height: 1})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDropped)
}
