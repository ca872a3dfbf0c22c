package bgew

import "math"

// DrawOp is one drawing call captured by a RecordCanvas. Points are already
// transformed into surface space.
type DrawOp struct {
	Name   string
	Points []Vec2
	// Radii holds the transformed ellipse radii for ellipse ops.
	Radii     Vec2
	Text      string
	Closed    bool
	Alpha     float64
	Fill      Color
	Stroke    Color
	LineWidth float64
}

// RecordCanvas is a Canvas that records drawing calls instead of rasterizing
// them. It backs headless boards and tests. Clear discards the ops recorded
// so far, so after a tick Ops holds exactly the last frame.
type RecordCanvas struct {
	canvasState
	ops    []DrawOp
	clears int
}

// NewRecordCanvas returns an empty recording canvas.
func NewRecordCanvas() *RecordCanvas {
	return &RecordCanvas{canvasState: newCanvasState()}
}

// Ops returns the recorded drawing calls since the last Clear.
func (c *RecordCanvas) Ops() []DrawOp { return c.ops }

// Clears returns how many times the canvas has been cleared.
func (c *RecordCanvas) Clears() int { return c.clears }

// Depth returns the current save-stack depth.
func (c *RecordCanvas) Depth() int { return len(c.stack) }

func (c *RecordCanvas) Clear() {
	c.reset()
	c.ops = c.ops[:0]
	c.clears++
}

func (c *RecordCanvas) record(name string, pts []Vec2) *DrawOp {
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		x, y := c.apply(p.X, p.Y)
		out[i] = Vec2{x, y}
	}
	c.ops = append(c.ops, DrawOp{
		Name:      name,
		Points:    out,
		Alpha:     c.cur.alpha,
		Fill:      c.cur.fill,
		Stroke:    c.cur.stroke,
		LineWidth: c.cur.lineWidth,
	})
	return &c.ops[len(c.ops)-1]
}

func rectPoints(x, y, w, h float64) []Vec2 {
	return []Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

func (c *RecordCanvas) FillRect(x, y, w, h float64) {
	c.record("FillRect", rectPoints(x, y, w, h)).Closed = true
}

func (c *RecordCanvas) StrokeRect(x, y, w, h float64) {
	c.record("StrokeRect", rectPoints(x, y, w, h)).Closed = true
}

func (c *RecordCanvas) FillEllipse(cx, cy, rx, ry float64) {
	op := c.record("FillEllipse", []Vec2{{cx, cy}})
	op.Radii = c.scaledRadii(rx, ry)
}

func (c *RecordCanvas) StrokeEllipse(cx, cy, rx, ry float64) {
	op := c.record("StrokeEllipse", []Vec2{{cx, cy}})
	op.Radii = c.scaledRadii(rx, ry)
}

func (c *RecordCanvas) scaledRadii(rx, ry float64) Vec2 {
	m := c.cur.transform
	return Vec2{rx * math.Hypot(m[0], m[1]), ry * math.Hypot(m[2], m[3])}
}

func (c *RecordCanvas) FillPolygon(points []Vec2) {
	c.record("FillPolygon", points).Closed = true
}

func (c *RecordCanvas) StrokePolygon(points []Vec2, closed bool) {
	c.record("StrokePolygon", points).Closed = closed
}

func (c *RecordCanvas) FillText(s string, x, y float64) {
	c.record("FillText", []Vec2{{x, y}}).Text = s
}
