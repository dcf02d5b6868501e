package display

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/junsooki/airdesk/internal/input"
	"github.com/junsooki/airdesk/internal/protocol"
	"github.com/junsooki/airdesk/internal/util"
)

const (
	doubleClickWindow = 400 * time.Millisecond
	doubleClickSlop   = 4
	maxClickCount     = 3
	errorDisplayTime  = 3 * time.Second
)

// EbitenDisplay renders the remote screen using Ebitengine and captures
// input. Frame and status callbacks may come from any goroutine; the latest
// frame always replaces the previous one.
type EbitenDisplay struct {
	title string
	relay *input.Relay

	mu           sync.Mutex
	frame        *image.RGBA
	dirty        bool
	lastErr      string
	lastErrAt    time.Time
	disconnected error

	ebitenImage *ebiten.Image

	prevMouseX, prevMouseY int
	lastClick              clickState
	keys                   []ebiten.Key
}

type clickState struct {
	at     time.Time
	x, y   int
	button protocol.Button
	count  int
}

var _ Display = (*EbitenDisplay)(nil)

// NewEbitenDisplay creates a window. Input is ignored until Bind is called.
func NewEbitenDisplay(title string) *EbitenDisplay {
	return &EbitenDisplay{title: title}
}

// Bind routes local input through relay. Call it before Run.
func (d *EbitenDisplay) Bind(relay *input.Relay) {
	d.relay = relay
}

// OnFrame stores img for the next Draw.
func (d *EbitenDisplay) OnFrame(img *image.RGBA) {
	d.mu.Lock()
	d.frame = img
	d.dirty = true
	d.mu.Unlock()
}

// OnError shows err briefly in the status line.
func (d *EbitenDisplay) OnError(err error) {
	d.mu.Lock()
	d.lastErr = err.Error()
	d.lastErrAt = time.Now()
	d.mu.Unlock()
}

// OnDisconnect closes the window on the next update.
func (d *EbitenDisplay) OnDisconnect(reason error) {
	d.mu.Lock()
	if reason == nil {
		reason = errors.New("disconnected")
	}
	d.disconnected = reason
	d.mu.Unlock()
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (d *EbitenDisplay) Run() error {
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle(d.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(d)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	d.mu.Lock()
	gone := d.disconnected
	d.mu.Unlock()
	if gone != nil {
		return ebiten.Termination
	}

	if d.relay != nil {
		d.captureMouseInput()
		d.captureKeyboardInput()
	}
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	d.mu.Lock()
	frame, dirty := d.frame, d.dirty
	d.dirty = false
	status := ""
	if d.lastErr != "" && time.Since(d.lastErrAt) < errorDisplayTime {
		status = d.lastErr
	}
	d.mu.Unlock()

	if frame == nil {
		ebitenutil.DebugPrint(screen, "Waiting for the first frame...")
		return
	}

	fb := frame.Bounds()
	if d.ebitenImage == nil ||
		d.ebitenImage.Bounds().Dx() != fb.Dx() ||
		d.ebitenImage.Bounds().Dy() != fb.Dy() {
		d.ebitenImage = ebiten.NewImage(fb.Dx(), fb.Dy())
		dirty = true
	}
	if dirty {
		d.ebitenImage.WritePixels(frame.Pix)
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fw, fh := float64(fb.Dx()), float64(fb.Dy())
	vp := input.FitViewport(float64(sw), float64(sh), fw, fh)
	if d.relay != nil {
		d.relay.SetViewport(vp)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(vp.Scale(fw), vp.Scale(fw))
	op.GeoM.Translate(vp.X, vp.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(d.ebitenImage, op)

	if status != "" {
		ebitenutil.DebugPrint(screen, status)
	}
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// --- Input capture ---

var mouseButtons = []struct {
	eb  ebiten.MouseButton
	btn protocol.Button
}{
	{ebiten.MouseButtonLeft, protocol.ButtonLeft},
	{ebiten.MouseButtonRight, protocol.ButtonRight},
	{ebiten.MouseButtonMiddle, protocol.ButtonMiddle},
}

func (d *EbitenDisplay) captureMouseInput() {
	mx, my := ebiten.CursorPosition()
	if mx != d.prevMouseX || my != d.prevMouseY {
		d.prevMouseX, d.prevMouseY = mx, my
		d.relayErr(d.relay.PointerMove(float64(mx), float64(my)))
	}

	for _, b := range mouseButtons {
		if !inpututil.IsMouseButtonJustPressed(b.eb) {
			continue
		}
		count := d.clickCount(mx, my, b.btn)
		d.relayErr(d.relay.Click(float64(mx), float64(my), b.btn, count))
	}
}

// clickCount grows for repeated presses of one button at about the same
// spot.
func (d *EbitenDisplay) clickCount(x, y int, b protocol.Button) int {
	now := time.Now()
	prev := d.lastClick
	count := 1
	if prev.button == b && now.Sub(prev.at) <= doubleClickWindow &&
		abs(x-prev.x) <= doubleClickSlop && abs(y-prev.y) <= doubleClickSlop {
		count = min(prev.count+1, maxClickCount)
	}
	d.lastClick = clickState{at: now, x: x, y: y, button: b, count: count}
	return count
}

func (d *EbitenDisplay) captureKeyboardInput() {
	d.keys = inpututil.AppendJustPressedKeys(d.keys[:0])
	for _, k := range d.keys {
		d.relayErr(d.relay.Key(keyName(k), true))
	}
	d.keys = inpututil.AppendJustReleasedKeys(d.keys[:0])
	for _, k := range d.keys {
		d.relayErr(d.relay.Key(keyName(k), false))
	}
}

func (d *EbitenDisplay) relayErr(err error) {
	if err == nil || errors.Is(err, input.ErrDropped) {
		return
	}
	util.LogError("relay input: %v", err)
	d.OnDisconnect(fmt.Errorf("relay input: %w", err))
}

var ebitenKeyNames = map[ebiten.Key]string{
	ebiten.KeyShiftLeft:    "shift",
	ebiten.KeyShiftRight:   "shift",
	ebiten.KeyControlLeft:  "ctrl",
	ebiten.KeyControlRight: "ctrl",
	ebiten.KeyAltLeft:      "alt",
	ebiten.KeyAltRight:     "alt",
	ebiten.KeyMetaLeft:     "cmd",
	ebiten.KeyMetaRight:    "cmd",
	ebiten.KeyDigit0:       "0",
	ebiten.KeyDigit1:       "1",
	ebiten.KeyDigit2:       "2",
	ebiten.KeyDigit3:       "3",
	ebiten.KeyDigit4:       "4",
	ebiten.KeyDigit5:       "5",
	ebiten.KeyDigit6:       "6",
	ebiten.KeyDigit7:       "7",
	ebiten.KeyDigit8:       "8",
	ebiten.KeyDigit9:       "9",
	ebiten.KeyMinus:        "-",
	ebiten.KeyEqual:        "=",
	ebiten.KeyComma:        ",",
	ebiten.KeyPeriod:       ".",
	ebiten.KeySlash:        "/",
	ebiten.KeyBackslash:    "\\",
	ebiten.KeySemicolon:    ";",
	ebiten.KeyQuote:        "'",
	ebiten.KeyBackquote:    "`",
	ebiten.KeyBracketLeft:  "[",
	ebiten.KeyBracketRight: "]",
}

// keyName maps an Ebitengine key to a name NormalizeKey understands.
// Letters, arrows, function and editing keys use Ebitengine's own names.
func keyName(k ebiten.Key) string {
	if name, ok := ebitenKeyNames[k]; ok {
		return name
	}
	return k.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
