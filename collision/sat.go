package collision

import "math"

// Result describes the outcome of the last Collides call. A Result is meant
// to be reused across calls to avoid allocations; copy it if it must outlive
// the next test.
type Result struct {
	Collision bool
	A, B      *Body
	// AInB reports whether A is entirely inside B, BInA the reverse.
	AInB, BInA bool
	// Overlap is the penetration depth along OverlapX/OverlapY, the unit
	// vector pointing from A towards B. Moving A by -Overlap along it
	// separates the bodies.
	Overlap            float64
	OverlapX, OverlapY float64
}

// NewResult returns a zeroed Result.
func (s *System) NewResult() *Result {
	return &Result{}
}

func (r *Result) reset(a, b *Body) {
	*r = Result{A: a, B: b, AInB: true, BInA: true, Overlap: math.MaxFloat64}
}

// shape is the narrow-phase view of a body: either a circle (pts == nil) or a
// polygon in world space.
type shape struct {
	cx, cy float64
	r      float64
	pts    []Vec2
}

func shapeOf(b *Body) shape {
	b.refresh()
	if b.Kind == KindPolygon {
		switch len(b.world) {
		case 0:
			return shape{cx: b.X, cy: b.Y}
		case 1:
			return shape{cx: b.world[0].X, cy: b.world[0].Y}
		}
		return shape{pts: b.world}
	}
	return shape{cx: b.X, cy: b.Y, r: b.radius()}
}

func (sh shape) project(axis Vec2) (lo, hi float64) {
	if sh.pts == nil {
		c := sh.cx*axis.X + sh.cy*axis.Y
		return c - sh.r, c + sh.r
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range sh.pts {
		d := p.X*axis.X + p.Y*axis.Y
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// axes appends the candidate separating axes contributed by sh when tested
// against other.
func (sh shape) axes(dst []Vec2, other shape) []Vec2 {
	if sh.pts == nil {
		if other.pts == nil {
			return dst
		}
		// Axis from the circle center to the nearest polygon vertex.
		best := math.Inf(1)
		var axis Vec2
		for _, p := range other.pts {
			dx, dy := p.X-sh.cx, p.Y-sh.cy
			if d := dx*dx + dy*dy; d < best {
				best = d
				axis = Vec2{dx, dy}
			}
		}
		if n, ok := normalize(axis); ok {
			dst = append(dst, n)
		}
		return dst
	}
	n := len(sh.pts)
	for i := 0; i < n; i++ {
		a := sh.pts[i]
		b := sh.pts[(i+1)%n]
		edge := Vec2{b.X - a.X, b.Y - a.Y}
		if norm, ok := normalize(Vec2{edge.Y, -edge.X}); ok {
			dst = append(dst, norm)
		}
		if n == 2 && i == 0 {
			if dir, ok := normalize(edge); ok {
				dst = append(dst, dir)
			}
		}
	}
	return dst
}

func normalize(v Vec2) (Vec2, bool) {
	l := math.Hypot(v.X, v.Y)
	if l < 1e-12 {
		return Vec2{}, false
	}
	return Vec2{v.X / l, v.Y / l}, true
}

// Collides tests a against b and fills r. It reports whether they overlap.
// Touching shapes count as colliding. r may be nil.
func (s *System) Collides(a, b *Body, r *Result) bool {
	if r == nil {
		r = &Result{}
	}
	r.reset(a, b)
	if a == nil || b == nil {
		r.AInB, r.BInA, r.Overlap = false, false, 0
		return false
	}
	sa, sb := shapeOf(a), shapeOf(b)

	if sa.pts == nil && sb.pts == nil {
		return circles(sa, sb, r)
	}

	var buf [16]Vec2
	axes := sa.axes(buf[:0], sb)
	axes = sb.axes(axes, sa)
	for _, axis := range axes {
		if separated(sa, sb, axis, r) {
			r.Collision, r.AInB, r.BInA, r.Overlap = false, false, false, 0
			r.OverlapX, r.OverlapY = 0, 0
			return false
		}
	}
	r.Collision = true
	return true
}

func circles(a, b shape, r *Result) bool {
	dx, dy := b.cx-a.cx, b.cy-a.cy
	dist := math.Hypot(dx, dy)
	sum := a.r + b.r
	if dist > sum {
		r.Collision, r.AInB, r.BInA, r.Overlap = false, false, false, 0
		return false
	}
	r.Collision = true
	r.Overlap = sum - dist
	if n, ok := normalize(Vec2{dx, dy}); ok {
		r.OverlapX, r.OverlapY = n.X, n.Y
	} else {
		r.OverlapX, r.OverlapY = 1, 0
	}
	r.AInB = a.r <= b.r && dist <= b.r-a.r
	r.BInA = b.r <= a.r && dist <= a.r-b.r
	return true
}

// separated projects both shapes on axis, records the overlap when they
// intersect on it, and reports whether axis separates them.
func separated(a, b shape, axis Vec2, r *Result) bool {
	minA, maxA := a.project(axis)
	minB, maxB := b.project(axis)
	if minA > maxB || minB > maxA {
		return true
	}
	var overlap float64
	if minA < minB {
		r.AInB = false
		if maxA < maxB {
			overlap = maxA - minB
			r.BInA = false
		} else {
			o1, o2 := maxA-minB, maxB-minA
			if o1 < o2 {
				overlap = o1
			} else {
				overlap = -o2
			}
		}
	} else {
		r.BInA = false
		if maxA > maxB {
			overlap = minA - maxB
			r.AInB = false
		} else {
			o1, o2 := maxA-minB, maxB-minA
			if o1 < o2 {
				overlap = o1
			} else {
				overlap = -o2
			}
		}
	}
	abs := math.Abs(overlap)
	if abs < r.Overlap {
		r.Overlap = abs
		r.OverlapX, r.OverlapY = axis.X, axis.Y
		if overlap < 0 {
			r.OverlapX, r.OverlapY = -axis.X, -axis.Y
		}
	}
	return false
}
