package bgew

import "time"

// restEpsilon absorbs float error when comparing an entity's top edge with
// the top of a candidate support.
const restEpsilon = 1e-9

// applyGravity accelerates a weighted entity downward and, for solid
// entities, stops it on top of the first solid entity in its path.
//
// Rest detection is an axis-aligned lookahead over the board's entities in
// the column between the entity's top edge and next tick's bottom edge, so a
// support that rose into the entity or that it was placed over still holds
// it. It ignores rotation and non-rectangular shapes of both entities.
func (e *Entity) applyGravity(delta time.Duration) {
	b := e.board
	if b == nil || b.gravity <= 0 || e.Weight == 0 {
		return
	}
	dt := delta.Seconds()
	e.falling = true
	e.SpeedY += b.gravity * dt
	if e.SpeedY <= 0 || !e.Solid {
		return
	}

	absX, absY := e.AbsX(), e.AbsY()
	next := absY + e.Height() + e.SpeedY*dt + 1
	column := Rect{
		X:      absX + 1,
		Y:      absY,
		Width:  max(e.Width()-2, 0),
		Height: next - absY,
	}

	var support *Entity
	for _, o := range b.entitiesIn(column) {
		if o == e || !o.Solid || o.isAncestorOf(e) || e.isAncestorOf(o) {
			continue
		}
		top := o.AbsY()
		if top < absY-restEpsilon {
			continue
		}
		if support == nil || top < support.AbsY() {
			support = o
		}
	}
	if support == nil {
		return
	}
	e.SpeedY = 0
	e.Y = support.AbsY() - e.Height() - (absY - e.Y)
	e.falling = false
}

// isAncestorOf reports whether e is a strict ancestor of other.
func (e *Entity) isAncestorOf(other *Entity) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == e {
			return true
		}
	}
	return false
}
