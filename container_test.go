package bgew

import "testing"

func TestContainerAddAttachesToBoard(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	c := NewContainer(0, 0, 100, 100)
	b.AddEntity(c)

	child := NewEntity(10, 10, 5, 5)
	c.AddEntity(child)

	if child.Parent() != c {
		t.Errorf("Parent = %v, want %v", child.Parent(), c)
	}
	if child.Board() != b {
		t.Errorf("Board = %v, want the container's board", child.Board())
	}
	if !child.Attached() {
		t.Error("child should be attached")
	}
	if !b.Collision().Contains(child.Body()) {
		t.Error("child body should be in the collision index")
	}
}

func TestContainerChildrenAttachWithContainer(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	a := NewEntity(0, 0, 1, 1)
	inner := NewContainer(0, 0, 10, 10, NewEntity(0, 0, 1, 1))
	c := NewContainer(0, 0, 100, 100, a, inner)

	if a.Board() != nil {
		t.Fatal("child of a detached container should be detached")
	}
	b.AddEntity(c)

	for _, e := range []*Entity{c, a, inner, inner.Entities()[0]} {
		if e.Board() != b {
			t.Errorf("%v not attached after container was added", e)
		}
	}
	if n := b.Collision().Len(); n != 4 {
		t.Errorf("bodies = %d, want 4", n)
	}
}

func TestContainerRemoveRemovesBodies(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	var destroyed []string
	c := NewContainer(0, 0, 100, 100)
	c.SetID("box")
	c.OnDestroy = func(e *Entity) { destroyed = append(destroyed, e.ID()) }
	for i := 0; i < 3; i++ {
		child := NewEntity(float64(i*10), 0, 5, 5)
		child.OnDestroy = func(e *Entity) { destroyed = append(destroyed, "child") }
		c.AddEntity(child)
	}
	b.AddEntity(c)

	if n := b.CountEntities(); n != 4 {
		t.Fatalf("CountEntities = %d, want 4", n)
	}
	if n := b.Collision().Len(); n != 4 {
		t.Fatalf("bodies = %d, want 4", n)
	}

	children := c.Entities()
	b.RemoveEntity(c)

	if n := b.CountEntities(); n != 0 {
		t.Errorf("CountEntities = %d, want 0", n)
	}
	if n := b.Collision().Len(); n != 0 {
		t.Errorf("bodies = %d, want 0", n)
	}
	for _, child := range children {
		if child.Attached() {
			t.Errorf("%v still attached", child)
		}
	}
	want := []string{"child", "child", "child", "box"}
	if len(destroyed) != len(want) {
		t.Fatalf("destroyed = %v, want %v", destroyed, want)
	}
	for i := range want {
		if destroyed[i] != want[i] {
			t.Errorf("destroyed[%d] = %q, want %q", i, destroyed[i], want[i])
		}
	}
}

func TestContainerRemoveEntity(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	c := NewContainer(0, 0, 100, 100)
	keep := NewEntity(0, 0, 1, 1)
	drop := NewEntity(0, 0, 1, 1)
	c.AddEntities(keep, drop)
	b.AddEntity(c)

	c.RemoveEntity(drop)

	if got := c.Entities(); len(got) != 1 || got[0] != keep {
		t.Errorf("children = %v, want [%v]", got, keep)
	}
	if drop.Parent() != nil || drop.Attached() {
		t.Error("removed child should have no parent and be detached")
	}
	if b.Collision().Contains(drop.Body()) {
		t.Error("removed child body still indexed")
	}

	// Not a child: ignored.
	c.RemoveEntity(NewEntity(0, 0, 1, 1))
	if n := c.CountEntities(); n != 1 {
		t.Errorf("CountEntities = %d, want 1", n)
	}
}

func TestContainerClearEntities(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	c := NewContainer(0, 0, 100, 100, NewEntity(0, 0, 1, 1), NewEntity(0, 0, 1, 1))
	b.AddEntity(c)
	c.ClearEntities()
	if n := c.CountEntities(); n != 0 {
		t.Errorf("CountEntities = %d, want 0", n)
	}
	if n := b.Collision().Len(); n != 1 {
		t.Errorf("bodies = %d, want 1 (the container)", n)
	}
}

func TestContainerMovesChild(t *testing.T) {
	a := NewContainer(0, 0, 10, 10)
	bc := NewContainer(0, 0, 10, 10)
	child := NewEntity(0, 0, 1, 1)
	a.AddEntity(child)
	bc.AddEntity(child)

	if child.Parent() != bc {
		t.Errorf("Parent = %v, want %v", child.Parent(), bc)
	}
	if n := a.CountEntities(); n != 0 {
		t.Errorf("old parent CountEntities = %d, want 0", n)
	}
}

func TestContainerMovesTopLevelEntity(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	e := NewEntity(0, 0, 1, 1)
	b.AddEntity(e)
	c := NewContainer(0, 0, 10, 10)
	b.AddEntity(c)

	c.AddEntity(e)

	if got := b.Entities(); len(got) != 1 || got[0] != c {
		t.Errorf("top-level = %v, want only the container", got)
	}
	if e.Board() != b || e.Parent() != c {
		t.Error("moved entity should stay on the board under the container")
	}
	if n := b.Collision().Len(); n != 2 {
		t.Errorf("bodies = %d, want 2", n)
	}
}

func TestContainerRejectsCycles(t *testing.T) {
	outer := NewContainer(0, 0, 10, 10)
	inner := NewContainer(0, 0, 10, 10)
	outer.AddEntity(inner)

	tests := []struct {
		name string
		fn   func()
	}{
		{"self", func() { outer.AddEntity(outer) }},
		{"ancestor", func() { inner.AddEntity(outer) }},
		{"nil", func() { outer.AddEntity(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestContainerOpsPanicOnBasicEntity(t *testing.T) {
	e := NewEntity(0, 0, 1, 1)
	defer func() {
		if recover() == nil {
			t.Error("AddEntity on a plain entity should panic")
		}
	}()
	e.AddEntity(NewEntity(0, 0, 1, 1))
}

func TestContainerFindEntity(t *testing.T) {
	deep := NewEntity(0, 0, 1, 1)
	deep.SetID("deep")
	inner := NewContainer(0, 0, 10, 10, deep)
	outer := NewContainer(0, 0, 10, 10, inner)

	if got := outer.FindEntity("deep", false); got != nil {
		t.Errorf("non-recursive FindEntity = %v, want nil", got)
	}
	if got := outer.FindEntity("deep", true); got != deep {
		t.Errorf("recursive FindEntity = %v, want %v", got, deep)
	}
}

func TestContainerCountEntities(t *testing.T) {
	inner := NewContainer(0, 0, 10, 10, NewEntity(0, 0, 1, 1), NewEntity(0, 0, 1, 1))
	outer := NewContainer(0, 0, 10, 10, inner, NewEntity(0, 0, 1, 1))
	if n := outer.CountEntities(); n != 4 {
		t.Errorf("CountEntities = %d, want 4", n)
	}
}

func TestContainerEntitiesIn(t *testing.T) {
	near := NewEntity(0, 0, 10, 10)
	far := NewEntity(100, 100, 10, 10)
	inner := NewContainer(0, 0, 5, 5, near)
	outer := NewContainer(0, 0, 200, 200, inner, far)

	got := outer.EntitiesIn(Rect{X: 0, Y: 0, Width: 20, Height: 20})
	if len(got) != 1 || got[0] != near {
		t.Errorf("EntitiesIn = %v, want [%v]", got, near)
	}
}

func TestContainerChildPositionRelative(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	c := NewContainer(100, 100, 50, 50)
	child := NewEntity(10, 10, 10, 10)
	c.AddEntity(child)
	b.AddEntity(c)

	got := b.EntitiesAt(115, 115)
	if len(got) != 2 || got[0] != c || got[1] != child {
		t.Errorf("EntitiesAt(115,115) = %v, want [container child]", got)
	}
}
