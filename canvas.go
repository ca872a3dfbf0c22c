package bgew

import "github.com/phanxgames/bgew/collision"

// Canvas is the drawing surface the board renders into. It follows the
// immediate-mode 2D context model: a current transform, a global alpha, and
// fill/stroke styles, all saved and restored as a stack.
//
// Coordinates passed to drawing calls are transformed by the current
// transform before they reach the backend.
type Canvas interface {
	// Resize sets the backing surface size in pixels.
	Resize(width, height int)
	Size() (width, height int)
	// Clear erases the whole surface to the background color and drops any
	// saved state.
	Clear()

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(rad float64)
	Scale(sx, sy float64)

	SetAlpha(a float64)
	SetFillColor(c Color)
	SetStrokeColor(c Color)
	SetLineWidth(w float64)
	// ResetStyle restores the default colors and line width without touching
	// the transform or alpha.
	ResetStyle()

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillEllipse(cx, cy, rx, ry float64)
	StrokeEllipse(cx, cy, rx, ry float64)
	FillPolygon(points []Vec2)
	StrokePolygon(points []Vec2, closed bool)
	FillText(s string, x, y float64)
}

var (
	defaultFillColor   = ColorWhite
	defaultStrokeColor = ColorBlack
)

const defaultLineWidth = 1.0

// drawState is one entry of a canvas state stack.
type drawState struct {
	transform [6]float64
	alpha     float64
	fill      Color
	stroke    Color
	lineWidth float64
}

func defaultDrawState() drawState {
	return drawState{
		transform: identityTransform,
		alpha:     1,
		fill:      defaultFillColor,
		stroke:    defaultStrokeColor,
		lineWidth: defaultLineWidth,
	}
}

// canvasState implements the state-stack half of Canvas. Backends embed it
// and read cur when they submit geometry.
type canvasState struct {
	cur   drawState
	stack []drawState
	w, h  int
}

func newCanvasState() canvasState {
	return canvasState{cur: defaultDrawState()}
}

func (s *canvasState) Resize(width, height int) { s.w, s.h = width, height }
func (s *canvasState) Size() (int, int)         { return s.w, s.h }

func (s *canvasState) Save() {
	s.stack = append(s.stack, s.cur)
}

// Restore pops the last saved state. An unbalanced Restore is ignored.
func (s *canvasState) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *canvasState) Translate(x, y float64) {
	s.cur.transform = multiplyAffine(s.cur.transform, translateAffine(x, y))
}

func (s *canvasState) Rotate(rad float64) {
	s.cur.transform = multiplyAffine(s.cur.transform, rotateAffine(rad))
}

func (s *canvasState) Scale(sx, sy float64) {
	s.cur.transform = multiplyAffine(s.cur.transform, scaleAffine(sx, sy))
}

func (s *canvasState) SetAlpha(a float64)     { s.cur.alpha = clamp01(a) }
func (s *canvasState) SetFillColor(c Color)   { s.cur.fill = c }
func (s *canvasState) SetStrokeColor(c Color) { s.cur.stroke = c }
func (s *canvasState) SetLineWidth(w float64) { s.cur.lineWidth = w }

func (s *canvasState) ResetStyle() {
	s.cur.fill = defaultFillColor
	s.cur.stroke = defaultStrokeColor
	s.cur.lineWidth = defaultLineWidth
}

// reset drops every saved state.
func (s *canvasState) reset() {
	s.cur = defaultDrawState()
	s.stack = s.stack[:0]
}

func (s *canvasState) apply(x, y float64) (float64, float64) {
	return transformPoint(s.cur.transform, x, y)
}

// canvasDrawer adapts a Canvas to the collision debug drawer.
type canvasDrawer struct {
	c Canvas
}

func (d canvasDrawer) StrokePolygon(points []collision.Vec2, closed bool) {
	pts := make([]Vec2, len(points))
	for i, p := range points {
		pts[i] = Vec2{p.X, p.Y}
	}
	d.c.StrokePolygon(pts, closed)
}

func (d canvasDrawer) StrokeCircle(x, y, r float64) {
	d.c.StrokeEllipse(x, y, r, r)
}
