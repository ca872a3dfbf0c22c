package bgew

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// DoubleClickInterval is the longest gap between two clicks that still
// produces a dblclick.
const DoubleClickInterval = 300 * time.Millisecond

// doubleClickSlop is how far, in surface pixels, the pointer may move between
// the two clicks of a double click.
const doubleClickSlop = 4

// RunConfig configures Run.
type RunConfig struct {
	Title string
	// Width and Height are the window size. Zero uses the board size times
	// its scale.
	Width, Height int
	ShowFPS       bool
	Resizable     bool
}

// Run opens a window and drives b from the ebiten game loop until the board
// is stopped or the window is closed. Ticks run on the ebiten update
// goroutine at the board's FPS, and input is read from ebiten and pushed
// into the board's queue before each tick.
func Run(b *Board, cfg RunConfig) error {
	g := newEbitenGame(b, cfg)
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = int(b.width*b.scale), int(b.height*b.scale)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(b.fps)

	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run %s: %w", b.name, err)
	}
	return nil
}

// ebitenScheduler fires the board tick from ebiten's Update.
type ebitenScheduler struct {
	tick func()
}

func (s *ebitenScheduler) Start(_ time.Duration, tick func()) { s.tick = tick }
func (s *ebitenScheduler) Stop()                              { s.tick = nil }

func (s *ebitenScheduler) fire() {
	if s.tick != nil {
		s.tick()
	}
}

type ebitenGame struct {
	board   *Board
	canvas  *EbitenCanvas
	sched   *ebitenScheduler
	showFPS bool

	mouseX, mouseY int
	lastClick      time.Time
	lastClickX     int
	lastClickY     int
	cursor         Cursor
	keys           []ebiten.Key
	chars          []rune
}

func newEbitenGame(b *Board, cfg RunConfig) *ebitenGame {
	canvas, ok := b.canvas.(*EbitenCanvas)
	if !ok {
		canvas = NewEbitenCanvas(b.background)
		b.canvas = canvas
	}
	sched := &ebitenScheduler{}
	b.scheduler = sched
	mx, my := ebiten.CursorPosition()
	return &ebitenGame{
		board:   b,
		canvas:  canvas,
		sched:   sched,
		showFPS: cfg.ShowFPS,
		mouseX:  mx,
		mouseY:  my,
		cursor:  CursorDefault,
	}
}

func (g *ebitenGame) Update() error {
	if !g.board.Running() {
		return ebiten.Termination
	}
	g.readPointer()
	g.readKeys()
	g.sched.fire()
	g.applyCursor()
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	if img := g.canvas.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
	if g.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *ebitenGame) Layout(_, _ int) (int, int) {
	return int(g.board.width * g.board.scale), int(g.board.height * g.board.scale)
}

func (g *ebitenGame) push(typ string, x, y int, button MouseButton, mods KeyModifiers) {
	g.board.PushEvent(InputEvent{
		Type:      typ,
		ScreenX:   float64(x),
		ScreenY:   float64(y),
		Button:    button,
		Modifiers: mods,
	})
}

var ebitenButtons = [...]struct {
	eb  ebiten.MouseButton
	btn MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

func (g *ebitenGame) readPointer() {
	mods := readModifiers()
	mx, my := ebiten.CursorPosition()
	if mx != g.mouseX || my != g.mouseY {
		g.mouseX, g.mouseY = mx, my
		g.push(EventMouseMove, mx, my, MouseButtonLeft, mods)
	}

	for _, b := range ebitenButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			g.push(EventMouseDown, mx, my, b.btn, mods)
		}
		if !inpututil.IsMouseButtonJustReleased(b.eb) {
			continue
		}
		g.push(EventMouseUp, mx, my, b.btn, mods)
		switch b.btn {
		case MouseButtonLeft:
			g.push(EventClick, mx, my, b.btn, mods)
			g.detectDoubleClick(mx, my, mods)
		case MouseButtonRight:
			g.push(EventContextMenu, mx, my, b.btn, mods)
		}
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		g.board.PushEvent(InputEvent{
			Type:      EventWheel,
			ScreenX:   float64(mx),
			ScreenY:   float64(my),
			WheelX:    wx,
			WheelY:    wy,
			Modifiers: mods,
		})
	}
}

func (g *ebitenGame) detectDoubleClick(x, y int, mods KeyModifiers) {
	now := g.board.clock.Now()
	near := abs(x-g.lastClickX) <= doubleClickSlop && abs(y-g.lastClickY) <= doubleClickSlop
	if !g.lastClick.IsZero() && near && now.Sub(g.lastClick) <= DoubleClickInterval {
		g.push(EventDblClick, x, y, MouseButtonLeft, mods)
		g.lastClick = time.Time{}
		return
	}
	g.lastClick = now
	g.lastClickX, g.lastClickY = x, y
}

func (g *ebitenGame) readKeys() {
	mods := readModifiers()
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		g.board.PushEvent(InputEvent{Type: EventKeyDown, Key: keyName(k), Modifiers: mods})
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		g.board.PushEvent(InputEvent{Type: EventKeyUp, Key: keyName(k), Modifiers: mods})
	}
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		g.board.PushEvent(InputEvent{Type: EventKeyPress, Key: string(r), Modifiers: mods})
	}
}

func (g *ebitenGame) applyCursor() {
	c := g.board.Cursor()
	if c == g.cursor {
		return
	}
	g.cursor = c
	if c == CursorHidden {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	ebiten.SetCursorShape(cursorShape(c))
	g.board.log.Debug("cursor changed", zap.Uint8("cursor", uint8(c)))
}

func cursorShape(c Cursor) ebiten.CursorShapeType {
	switch c {
	case CursorPointer:
		return ebiten.CursorShapePointer
	case CursorText:
		return ebiten.CursorShapeText
	case CursorCrosshair:
		return ebiten.CursorShapeCrosshair
	case CursorMove:
		return ebiten.CursorShapeMove
	case CursorNotAllowed:
		return ebiten.CursorShapeNotAllowed
	}
	return ebiten.CursorShapeDefault
}

// keyName maps an ebiten key to the name game code subscribes with: single
// letters and digits are lower-case characters, everything else keeps
// ebiten's name ("Enter", "ArrowLeft", "ShiftLeft").
func keyName(k ebiten.Key) string {
	name := k.String()
	switch {
	case len(name) == 1 && unicode.IsLetter(rune(name[0])):
		return strings.ToLower(name)
	case strings.HasPrefix(name, "Digit"):
		return strings.TrimPrefix(name, "Digit")
	case name == "Space":
		return " "
	}
	return name
}

func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
