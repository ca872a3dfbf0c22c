package bgew

import "strings"

// ShapeStyle is the fill and stroke of a built-in shape in one state.
type ShapeStyle struct {
	Fill   Color
	Stroke Color
	// LineWidth of the outline. Zero draws no outline.
	LineWidth float64
}

// ShapeStyles holds a style per interaction state. A zero Hover or Pressed
// style falls back to Normal.
type ShapeStyles struct {
	Normal  ShapeStyle
	Hover   ShapeStyle
	Pressed ShapeStyle
}

func (s ShapeStyles) pick(e *Entity, pressed bool) ShapeStyle {
	switch {
	case pressed && s.Pressed != (ShapeStyle{}):
		return s.Pressed
	case e.Hovered() && s.Hover != (ShapeStyle{}):
		return s.Hover
	}
	return s.Normal
}

// ShapeRenderer draws an entity's Shape with a style that follows its
// hover and pressed state.
type ShapeRenderer struct {
	Styles ShapeStyles
	Pressable
}

// Render implements Renderer.
func (r *ShapeRenderer) Render(e *Entity, c Canvas) {
	st := r.Styles.pick(e, r.Pressed())
	w, h := e.Width(), e.Height()
	z := e.Zoom()
	c.SetFillColor(st.Fill)
	c.SetStrokeColor(st.Stroke)
	c.SetLineWidth(st.LineWidth)

	switch e.Shape.Kind {
	case ShapeEllipse:
		cx, cy := e.X+w/2, e.Y+h/2
		c.FillEllipse(cx, cy, w/2, h/2)
		if st.LineWidth > 0 {
			c.StrokeEllipse(cx, cy, w/2, h/2)
		}
	case ShapePolygon:
		pts := make([]Vec2, len(e.Shape.Points))
		for i, p := range e.Shape.Points {
			pts[i] = Vec2{e.X + p.X*z, e.Y + p.Y*z}
		}
		c.FillPolygon(pts)
		if st.LineWidth > 0 {
			c.StrokePolygon(pts, true)
		}
	case ShapePoint:
		c.FillRect(e.X-0.5, e.Y-0.5, 1, 1)
	default:
		c.FillRect(e.X, e.Y, w, h)
		if st.LineWidth > 0 {
			c.StrokeRect(e.X, e.Y, w, h)
		}
	}
}

func newShape(kind ShapeKind, x, y, w, h float64, styles ShapeStyles) *Entity {
	e := NewEntity(x, y, w, h)
	e.Shape = Shape{Kind: kind}
	r := &ShapeRenderer{Styles: styles}
	e.Renderer = r
	e.Use(&r.Pressable)
	return e
}

// NewSquare returns a rectangle entity drawn with styles.
func NewSquare(x, y, w, h float64, styles ShapeStyles) *Entity {
	return newShape(ShapeRect, x, y, w, h, styles)
}

// NewOval returns an ellipse entity inscribed in (x, y, w, h). Its hit test
// and collision body are elliptical too.
func NewOval(x, y, w, h float64, styles ShapeStyles) *Entity {
	return newShape(ShapeEllipse, x, y, w, h, styles)
}

// NewPolygon returns a convex polygon entity. Points are relative to the
// top-left corner of the (w, h) box.
func NewPolygon(x, y, w, h float64, points []Vec2, styles ShapeStyles) *Entity {
	e := newShape(ShapePolygon, x, y, w, h, styles)
	e.Shape.Points = points
	return e
}

// Glyph metrics of the built-in debug font.
const (
	glyphWidth  = 6
	glyphHeight = 16
)

// LabelStyle colors a label per interaction state. Zero Hover or Pressed
// colors fall back to Color.
type LabelStyle struct {
	Color   Color
	Hover   Color
	Pressed Color
}

// Label is a multi-line text entity sized to its text.
type Label struct {
	*Entity
	Style LabelStyle
	Pressable

	text  string
	lines []string
}

// NewLabel returns a label at (x, y).
func NewLabel(x, y float64, text string, style LabelStyle) *Label {
	l := &Label{Entity: NewEntity(x, y, 0, 0), Style: style}
	l.Renderer = l
	l.Use(&l.Pressable)
	l.SetText(text)
	return l
}

// Text returns the label text.
func (l *Label) Text() string { return l.text }

// SetText replaces the text and resizes the entity to fit it.
func (l *Label) SetText(text string) {
	l.text = text
	l.lines = strings.Split(text, "\n")
	widest := 0
	for _, line := range l.lines {
		widest = max(widest, len([]rune(line)))
	}
	l.SetSize(float64(widest*glyphWidth), float64(len(l.lines)*glyphHeight))
}

// Render implements Renderer.
func (l *Label) Render(e *Entity, c Canvas) {
	col := l.Style.Color
	switch {
	case l.Pressed() && l.Style.Pressed != (Color{}):
		col = l.Style.Pressed
	case e.Hovered() && l.Style.Hover != (Color{}):
		col = l.Style.Hover
	}
	c.SetFillColor(col)
	for i, line := range l.lines {
		c.FillText(line, e.X, e.Y+float64(i*glyphHeight))
	}
}
