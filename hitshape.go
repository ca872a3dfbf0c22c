package bgew

import (
	"math"

	"github.com/phanxgames/bgew/collision"
)

// ShapeKind selects the geometry of an entity.
type ShapeKind uint8

const (
	ShapeRect    ShapeKind = iota // the entity's bounds (default)
	ShapeEllipse                  // ellipse inscribed in the bounds
	ShapePolygon                  // convex polygon given by Shape.Points
	ShapePoint                    // the entity's top-left corner
)

// Shape is the geometry used for hit tests and the collision body.
type Shape struct {
	Kind ShapeKind
	// Points are polygon vertices in unzoomed local coordinates, relative to
	// the entity's top-left corner. Only used by ShapePolygon.
	Points []Vec2
}

// HitShape defines a custom hit-testable region in local, unzoomed
// coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitEllipse is an axis-aligned elliptical hit area in local coordinates.
type HitEllipse struct {
	CenterX, CenterY, RadiusX, RadiusY float64
}

// Contains reports whether (x, y) lies inside or on the ellipse.
func (el HitEllipse) Contains(x, y float64) bool {
	if el.RadiusX <= 0 || el.RadiusY <= 0 {
		return false
	}
	dx := (x - el.CenterX) / el.RadiusX
	dy := (y - el.CenterY) / el.RadiusY
	return dx*dx+dy*dy <= 1
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	// Check that the point is on the same side of every edge.
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

const pointHitTolerance = 0.5

// containsPoint hit-tests a board-space point against e's own geometry,
// ignoring children.
func (e *Entity) containsPoint(x, y float64) bool {
	lx, ly := e.WorldToLocal(x, y)
	if e.zoom != 0 {
		lx /= e.zoom
		ly /= e.zoom
	}
	if e.HitShape != nil {
		return e.HitShape.Contains(lx, ly)
	}
	w, h := e.width, e.height
	switch e.Shape.Kind {
	case ShapeEllipse:
		return HitEllipse{CenterX: w / 2, CenterY: h / 2, RadiusX: w / 2, RadiusY: h / 2}.Contains(lx, ly)
	case ShapePolygon:
		return HitPolygon{Points: e.Shape.Points}.Contains(lx, ly)
	case ShapePoint:
		return math.Abs(lx) <= pointHitTolerance && math.Abs(ly) <= pointHitTolerance
	default:
		return HitRect{Width: w, Height: h}.Contains(lx, ly)
	}
}

// Intersect reports whether the board-space point (x, y) hits the entity,
// taking its rotation about its own center and every ancestor transform
// into account. A container also reports hits on any visible child.
func (e *Entity) Intersect(x, y float64) bool {
	if e.containsPoint(x, y) {
		return true
	}
	if e.kind == KindContainer {
		for _, c := range e.children {
			if c.Visible() && c.Intersect(x, y) {
				return true
			}
		}
	}
	return false
}

// ellipseSegments is the vertex count used when an ellipse body cannot be a
// circle.
const ellipseSegments = 16

func (e *Entity) bodyKind() collision.Kind {
	switch e.Shape.Kind {
	case ShapePoint:
		return collision.KindPoint
	case ShapeEllipse:
		if e.width == e.height {
			return collision.KindCircle
		}
	}
	return collision.KindPolygon
}

// syncBody creates or updates the collision body from the entity's absolute
// geometry. The body is centered on the entity so rotation and zoom act
// around the center, matching the draw pass.
func (e *Entity) syncBody() {
	kind := e.bodyKind()
	if e.body == nil || e.body.Kind != kind {
		old := e.body
		e.body = &collision.Body{Kind: kind, ScaleX: 1, ScaleY: 1, Owner: e}
		if old != nil && old.System() != nil {
			sys := old.System()
			sys.Remove(old)
			sys.Insert(e.body)
		}
	}
	b := e.body
	w, h := e.width, e.height
	if kind == collision.KindPoint {
		b.X, b.Y = e.AbsX(), e.AbsY()
		return
	}
	b.X = e.AbsX() + e.Width()/2
	b.Y = e.AbsY() + e.Height()/2
	b.ScaleX, b.ScaleY = e.zoom, e.zoom
	b.Angle = e.rotation

	switch {
	case kind == collision.KindCircle:
		b.Radius = w / 2
	case e.Shape.Kind == ShapeEllipse:
		b.Points = b.Points[:0]
		for i := 0; i < ellipseSegments; i++ {
			a := 2 * math.Pi * float64(i) / ellipseSegments
			b.Points = append(b.Points, collision.Vec2{X: math.Cos(a) * w / 2, Y: math.Sin(a) * h / 2})
		}
	case e.Shape.Kind == ShapePolygon:
		b.Points = b.Points[:0]
		for _, p := range e.Shape.Points {
			b.Points = append(b.Points, collision.Vec2{X: p.X - w/2, Y: p.Y - h/2})
		}
	default:
		hw, hh := w/2, h/2
		b.Points = append(b.Points[:0],
			collision.Vec2{X: -hw, Y: -hh},
			collision.Vec2{X: hw, Y: -hh},
			collision.Vec2{X: hw, Y: hh},
			collision.Vec2{X: -hw, Y: hh},
		)
	}
}
