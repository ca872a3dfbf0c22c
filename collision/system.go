// Package collision is a small 2D collision index: bodies are points,
// circles, or convex polygons; a uniform spatial hash narrows candidate pairs
// and a separating-axis test resolves them.
package collision

import (
	"math"
	"sort"
)

const (
	defaultCellSize = 64.0
	// maxCellsPerBody moves very large bodies into a list that every query
	// scans, instead of stamping them into hundreds of cells.
	maxCellsPerBody = 256
)

type cellKey struct {
	x, y int32
}

// System owns a set of bodies and answers broad- and narrow-phase queries.
// It is not safe for concurrent use.
type System struct {
	bodies   []*Body
	cellSize float64
	grid     map[cellKey][]*Body
	large    []*Body
	nextSeq  uint64
	stamp    map[*Body]uint64
	query    uint64
}

// Option configures a System.
type Option func(*System)

// WithCellSize sets the edge length of the spatial hash cells. Pick a value
// close to the size of a typical body.
func WithCellSize(size float64) Option {
	return func(s *System) {
		if size > 0 {
			s.cellSize = size
		}
	}
}

// NewSystem returns an empty index.
func NewSystem(opts ...Option) *System {
	s := &System{
		cellSize: defaultCellSize,
		grid:     make(map[cellKey][]*Body),
		stamp:    make(map[*Body]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert registers bodies. A body already in this system is left alone; a
// body registered elsewhere is moved.
func (s *System) Insert(bodies ...*Body) {
	for _, b := range bodies {
		if b == nil || b.system == s {
			continue
		}
		if b.system != nil {
			b.system.Remove(b)
		}
		s.nextSeq++
		b.seq = s.nextSeq
		b.system = s
		s.bodies = append(s.bodies, b)
		b.refresh()
		s.index(b)
	}
}

// Remove unregisters bodies. Bodies that are not registered here are
// ignored.
func (s *System) Remove(bodies ...*Body) {
	for _, b := range bodies {
		if b == nil || b.system != s {
			continue
		}
		s.unindex(b)
		for i, o := range s.bodies {
			if o == b {
				copy(s.bodies[i:], s.bodies[i+1:])
				s.bodies[len(s.bodies)-1] = nil
				s.bodies = s.bodies[:len(s.bodies)-1]
				break
			}
		}
		delete(s.stamp, b)
		b.system = nil
	}
}

// Contains reports whether b is registered here.
func (s *System) Contains(b *Body) bool {
	return b != nil && b.system == s
}

// Len returns the number of registered bodies.
func (s *System) Len() int { return len(s.bodies) }

// Bodies returns a copy of the registered bodies in insertion order.
func (s *System) Bodies() []*Body {
	out := make([]*Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Update recomputes every body's geometry and rebuilds the spatial hash.
func (s *System) Update() {
	clear(s.grid)
	s.large = s.large[:0]
	for _, b := range s.bodies {
		b.refresh()
		b.cells = b.cells[:0]
		s.index(b)
	}
}

func (s *System) cellRange(b *Body) (x0, y0, x1, y1 int32) {
	x0 = int32(math.Floor(b.minX / s.cellSize))
	y0 = int32(math.Floor(b.minY / s.cellSize))
	x1 = int32(math.Floor(b.maxX / s.cellSize))
	y1 = int32(math.Floor(b.maxY / s.cellSize))
	return
}

func (s *System) index(b *Body) {
	x0, y0, x1, y1 := s.cellRange(b)
	if int64(x1-x0+1)*int64(y1-y0+1) > maxCellsPerBody {
		b.large = true
		s.large = append(s.large, b)
		return
	}
	b.large = false
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			k := cellKey{cx, cy}
			s.grid[k] = append(s.grid[k], b)
			b.cells = append(b.cells, k)
		}
	}
}

func (s *System) unindex(b *Body) {
	if b.large {
		for i, o := range s.large {
			if o == b {
				s.large = append(s.large[:i], s.large[i+1:]...)
				break
			}
		}
		b.large = false
		return
	}
	for _, k := range b.cells {
		list := s.grid[k]
		for i, o := range list {
			if o == b {
				list = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(s.grid, k)
		} else {
			s.grid[k] = list
		}
	}
	b.cells = b.cells[:0]
}

// Potentials returns the bodies whose bounding boxes overlap b, in insertion
// order. b itself is never included. Positions of other bodies are those
// recorded at the last Update or Insert.
func (s *System) Potentials(b *Body) []*Body {
	if b == nil {
		return nil
	}
	b.refresh()
	s.query++
	var out []*Body
	add := func(o *Body) {
		if o == b || s.stamp[o] == s.query {
			return
		}
		s.stamp[o] = s.query
		if b.aabbOverlaps(o) {
			out = append(out, o)
		}
	}
	for _, o := range s.large {
		add(o)
	}
	x0, y0, x1, y1 := s.cellRange(b)
	if int64(x1-x0+1)*int64(y1-y0+1) > maxCellsPerBody {
		for _, o := range s.bodies {
			add(o)
		}
	} else {
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				for _, o := range s.grid[cellKey{cx, cy}] {
					add(o)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Drawer receives debug geometry from Draw.
type Drawer interface {
	StrokePolygon(points []Vec2, closed bool)
	StrokeCircle(x, y, r float64)
}

const pointMarkerRadius = 2

// Draw outlines every registered body.
func (s *System) Draw(d Drawer) {
	for _, b := range s.bodies {
		b.refresh()
		switch b.Kind {
		case KindPolygon:
			d.StrokePolygon(b.world, len(b.world) > 2)
		case KindCircle:
			d.StrokeCircle(b.X, b.Y, b.radius())
		case KindPoint:
			d.StrokeCircle(b.X, b.Y, pointMarkerRadius)
		}
	}
}
