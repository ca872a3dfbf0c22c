package bgew

import "fmt"

func (e *Entity) mustContainer(op string) {
	if e.kind != KindContainer {
		panic(fmt.Sprintf("bgew: %s on non-container entity %q", op, e.id))
	}
}

// AddEntity appends child to the container. If the container is attached,
// the child and its subtree are attached to the same board immediately.
// Adding nil, the container itself, or one of its ancestors panics. A child
// that already has a parent is moved.
func (e *Entity) AddEntity(child *Entity) {
	e.mustContainer("AddEntity")
	if child == nil {
		panic("bgew: cannot add nil child")
	}
	if child == e || child.isAncestorOf(e) {
		panic("bgew: cannot add an entity to itself or its descendant")
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	} else if child.board != nil {
		child.board.removeTopLevel(child)
	}
	if child.board != nil && child.board != e.board {
		child.detach()
	}
	child.parent = e
	e.children = append(e.children, child)
	if e.board != nil && e.state == stateAttached {
		child.init(e.board)
		if e.board.debug.Enabled {
			debugCheckChildCount(e.board, e)
		}
	}
}

// AddEntities adds each child in order.
func (e *Entity) AddEntities(children ...*Entity) {
	for _, c := range children {
		e.AddEntity(c)
	}
}

// RemoveEntity destroys child and removes it from the container. Its
// descendants are detached first and every collision body of the subtree is
// removed from the board's index. Entities that are not children are
// ignored.
func (e *Entity) RemoveEntity(child *Entity) {
	e.mustContainer("RemoveEntity")
	if child == nil || child.parent != e {
		return
	}
	child.destroy()
	e.removeChild(child)
}

// RemoveEntities removes each child in order.
func (e *Entity) RemoveEntities(children ...*Entity) {
	for _, c := range children {
		e.RemoveEntity(c)
	}
}

// ClearEntities removes every child.
func (e *Entity) ClearEntities() {
	e.mustContainer("ClearEntities")
	for _, c := range snapshotEntities(e.children) {
		e.RemoveEntity(c)
	}
}

func (e *Entity) removeChild(child *Entity) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			break
		}
	}
	child.parent = nil
}

// Entities returns a copy of the container's children in draw order.
func (e *Entity) Entities() []*Entity {
	return snapshotEntities(e.children)
}

// CountEntities returns the number of descendants, containers included.
func (e *Entity) CountEntities() int {
	return countEntities(e.children)
}

func countEntities(list []*Entity) int {
	n := 0
	for _, c := range list {
		n++
		if c.kind == KindContainer {
			n += countEntities(c.children)
		}
	}
	return n
}

// FindEntity returns the first child with the given id. When recursive is
// true, child containers are searched depth-first after the direct check.
func (e *Entity) FindEntity(id string, recursive bool) *Entity {
	return findEntity(e.children, id, recursive)
}

func findEntity(list []*Entity, id string, recursive bool) *Entity {
	for _, c := range list {
		if c.id == id {
			return c
		}
		if recursive && c.kind == KindContainer {
			if found := findEntity(c.children, id, true); found != nil {
				return found
			}
		}
	}
	return nil
}

// EntitiesIn returns every descendant whose board-space bounds overlap r.
// Containers are searched but not returned themselves.
func (e *Entity) EntitiesIn(r Rect) []*Entity {
	return entitiesIn(nil, e.children, r)
}

func entitiesIn(dst []*Entity, list []*Entity, r Rect) []*Entity {
	for _, c := range list {
		if c.kind == KindContainer {
			dst = entitiesIn(dst, c.children, r)
			continue
		}
		if c.Bounds().Overlaps(r) {
			dst = append(dst, c)
		}
	}
	return dst
}
