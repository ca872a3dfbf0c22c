package collision

import "math"

// Kind tags the geometry carried by a Body.
type Kind uint8

const (
	KindPoint   Kind = iota // a single point at (X, Y)
	KindCircle              // center (X, Y) with Radius
	KindPolygon             // Points relative to (X, Y), scaled then rotated by Angle
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Vec2 is a point or direction in board space.
type Vec2 struct {
	X, Y float64
}

// Body is a collision shape registered in a System. Callers mutate the
// exported geometry fields freely; the System picks the changes up on its next
// Update.
type Body struct {
	Kind Kind
	X, Y float64
	// Radius is used by circle bodies and is multiplied by ScaleX.
	Radius float64
	// Points are the polygon vertices relative to (X, Y).
	Points []Vec2
	// Angle rotates polygon points around (X, Y), in radians.
	Angle          float64
	ScaleX, ScaleY float64
	// Owner is an arbitrary back-reference, typically the game object the
	// body belongs to.
	Owner any

	system *System
	seq    uint64
	world  []Vec2
	minX   float64
	minY   float64
	maxX   float64
	maxY   float64
	cells  []cellKey
	large  bool
}

// NewPoint returns a point body.
func NewPoint(x, y float64) *Body {
	return &Body{Kind: KindPoint, X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

// NewCircle returns a circle body centered on (x, y).
func NewCircle(x, y, radius float64) *Body {
	return &Body{Kind: KindCircle, X: x, Y: y, Radius: radius, ScaleX: 1, ScaleY: 1}
}

// NewPolygon returns a polygon body. Points are relative to (x, y) and are
// copied.
func NewPolygon(x, y float64, points []Vec2) *Body {
	b := &Body{Kind: KindPolygon, X: x, Y: y, ScaleX: 1, ScaleY: 1}
	b.SetPoints(points)
	return b
}

// SetPoints replaces the polygon vertices, reusing the existing slice when it
// has enough capacity.
func (b *Body) SetPoints(points []Vec2) {
	b.Points = append(b.Points[:0], points...)
}

// System returns the index the body is registered in, or nil.
func (b *Body) System() *System { return b.system }

// WorldPoints returns the polygon vertices in board space as of the last
// refresh. The slice is owned by the body.
func (b *Body) WorldPoints() []Vec2 {
	b.refresh()
	return b.world
}

// Bounds returns the axis-aligned bounding box of the body.
func (b *Body) Bounds() (minX, minY, maxX, maxY float64) {
	b.refresh()
	return b.minX, b.minY, b.maxX, b.maxY
}

// radius returns the effective circle radius.
func (b *Body) radius() float64 {
	switch b.Kind {
	case KindCircle:
		return b.Radius * b.ScaleX
	default:
		return 0
	}
}

// refresh recomputes world-space vertices and the bounding box.
func (b *Body) refresh() {
	switch b.Kind {
	case KindPolygon:
		if cap(b.world) < len(b.Points) {
			b.world = make([]Vec2, len(b.Points))
		}
		b.world = b.world[:len(b.Points)]
		sin, cos := math.Sincos(b.Angle)
		sx, sy := b.ScaleX, b.ScaleY
		b.minX, b.minY = math.Inf(1), math.Inf(1)
		b.maxX, b.maxY = math.Inf(-1), math.Inf(-1)
		for i, p := range b.Points {
			px, py := p.X*sx, p.Y*sy
			wx := px*cos - py*sin + b.X
			wy := px*sin + py*cos + b.Y
			b.world[i] = Vec2{wx, wy}
			b.minX = math.Min(b.minX, wx)
			b.minY = math.Min(b.minY, wy)
			b.maxX = math.Max(b.maxX, wx)
			b.maxY = math.Max(b.maxY, wy)
		}
		if len(b.Points) == 0 {
			b.minX, b.minY, b.maxX, b.maxY = b.X, b.Y, b.X, b.Y
		}
	default:
		r := b.radius()
		b.world = b.world[:0]
		b.minX, b.minY = b.X-r, b.Y-r
		b.maxX, b.maxY = b.X+r, b.Y+r
	}
}

func (b *Body) aabbOverlaps(o *Body) bool {
	return b.minX <= o.maxX && b.maxX >= o.minX &&
		b.minY <= o.maxY && b.maxY >= o.minY
}
