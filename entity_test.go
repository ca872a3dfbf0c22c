package bgew

import (
	"strings"
	"testing"
	"time"
)

func TestNewEntityDefaults(t *testing.T) {
	e := NewEntity(1, 2, 30, 40)
	if e.Kind() != KindBasic {
		t.Errorf("Kind = %v, want KindBasic", e.Kind())
	}
	if e.Zoom() != 1 {
		t.Errorf("Zoom = %f, want 1.0", e.Zoom())
	}
	if e.Opacity != 1 {
		t.Errorf("Opacity = %f, want 1.0", e.Opacity)
	}
	if !e.Visible() {
		t.Error("new entity should be visible")
	}
	if e.Attached() || e.Board() != nil {
		t.Error("new entity should be detached")
	}
	if e.Width() != 30 || e.Height() != 40 {
		t.Errorf("size = %vx%v, want 30x40", e.Width(), e.Height())
	}
}

func TestEntityIDs(t *testing.T) {
	a := NewEntity(0, 0, 1, 1)
	b := NewEntity(0, 0, 1, 1)
	if a.ID() == b.ID() {
		t.Errorf("ids collide: %q", a.ID())
	}
	if !strings.HasPrefix(a.ID(), "@entity-") {
		t.Errorf("ID = %q, want @entity- prefix", a.ID())
	}

	a.SetID("hero")
	if a.ID() != "hero" {
		t.Errorf("ID = %q, want hero", a.ID())
	}
	a.SetID("")
	if a.ID() != "hero" {
		t.Errorf("empty SetID changed ID to %q", a.ID())
	}
}

func TestEntityZoomScalesSize(t *testing.T) {
	e := NewEntity(0, 0, 10, 20)
	e.SetZoom(2)
	if e.Width() != 20 || e.Height() != 40 {
		t.Errorf("zoomed size = %vx%v, want 20x40", e.Width(), e.Height())
	}
	if w, h := e.Size(); w != 10 || h != 20 {
		t.Errorf("Size = %vx%v, want unzoomed 10x20", w, h)
	}
}

func TestEntityVisibleChain(t *testing.T) {
	outer := NewContainer(0, 0, 100, 100)
	inner := NewContainer(0, 0, 50, 50)
	leaf := NewEntity(0, 0, 10, 10)
	outer.AddEntity(inner)
	inner.AddEntity(leaf)

	if !leaf.Visible() {
		t.Fatal("leaf should be visible")
	}
	outer.SetVisible(false)
	if leaf.Visible() {
		t.Error("leaf should be hidden when an ancestor is hidden")
	}
	outer.SetVisible(true)
	leaf.SetVisible(false)
	if leaf.Visible() {
		t.Error("leaf should be hidden by its own flag")
	}
	if !inner.Visible() {
		t.Error("hiding a child must not hide its parent")
	}
}

func TestEntityEffectiveOpacity(t *testing.T) {
	parent := NewContainer(0, 0, 10, 10)
	child := NewEntity(0, 0, 10, 10)
	parent.AddEntity(child)
	parent.Opacity = 0.5
	child.Opacity = 0.5
	assertNear(t, "EffectiveOpacity", child.EffectiveOpacity(), 0.25)
}

func TestEntityAbsPosition(t *testing.T) {
	outer := NewContainer(10, 20, 100, 100)
	inner := NewContainer(5, 5, 50, 50)
	leaf := NewEntity(1, 2, 10, 10)
	outer.AddEntity(inner)
	inner.AddEntity(leaf)

	assertNear(t, "AbsX", leaf.AbsX(), 16)
	assertNear(t, "AbsY", leaf.AbsY(), 27)
	if b := leaf.Bounds(); b.X != 16 || b.Y != 27 || b.Width != 10 || b.Height != 10 {
		t.Errorf("Bounds = %+v, want {16 27 10 10}", b)
	}
}

func TestEntitySpeedAngle(t *testing.T) {
	e := NewEntity(0, 0, 1, 1)
	e.SetSpeedWithAngleDegrees(10, 90)
	assertNear(t, "SpeedX", e.SpeedX, 0)
	assertNear(t, "SpeedY", e.SpeedY, -10)
	assertNear(t, "AngleDegrees", e.AngleDegrees(), 90)

	e.SetSpeed(20)
	assertNear(t, "SpeedY after SetSpeed", e.SpeedY, -20)
	assertNear(t, "Speed", e.Speed(), 20)

	e.SetAngleDegrees(0)
	assertNear(t, "SpeedX after SetAngle", e.SpeedX, 20)
	assertNear(t, "SpeedY after SetAngle", e.SpeedY, 0)
}

func TestEntityRotation(t *testing.T) {
	e := NewEntity(0, 0, 1, 1)
	e.SetRotation(90)
	assertNear(t, "Rotation", e.Rotation(), 90)
	e.Rotate(45)
	assertNear(t, "Rotation after Rotate", e.Rotation(), 135)
	e.ResetTransform()
	if e.Rotation() != 0 || e.Zoom() != 1 {
		t.Errorf("after ResetTransform rotation=%v zoom=%v, want 0 and 1", e.Rotation(), e.Zoom())
	}
}

func TestEntityIntersect(t *testing.T) {
	e := NewEntity(0, 0, 100, 100)

	tests := []struct {
		name     string
		rotation float64
		x, y     float64
		want     bool
	}{
		{"center", 0, 50, 50, true},
		{"outside", 0, 150, 150, false},
		{"corner", 0, 2, 2, true},
		{"rotated center", 45, 50, 50, true},
		{"rotated corner", 45, 2, 2, false},
		{"rotated tip", 45, 50, -15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.SetRotation(tt.rotation)
			if got := e.Intersect(tt.x, tt.y); got != tt.want {
				t.Errorf("Intersect(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestEntityIntersectEllipse(t *testing.T) {
	e := NewEntity(0, 0, 100, 50)
	e.Shape = Shape{Kind: ShapeEllipse}
	if !e.Intersect(50, 25) {
		t.Error("center should hit")
	}
	if e.Intersect(2, 2) {
		t.Error("bounding box corner should miss the ellipse")
	}
}

func TestEntityIntersectContainerChild(t *testing.T) {
	c := NewContainer(0, 0, 10, 10)
	child := NewEntity(50, 50, 10, 10)
	c.AddEntity(child)

	if !c.Intersect(55, 55) {
		t.Error("container should report a hit on its child")
	}
	child.SetVisible(false)
	if c.Intersect(55, 55) {
		t.Error("hidden child should not count")
	}
}

func TestEntityHitShape(t *testing.T) {
	e := NewEntity(0, 0, 100, 100)
	e.HitShape = HitCircle{CenterX: 50, CenterY: 50, Radius: 10}
	if !e.Intersect(55, 55) {
		t.Error("point inside hit circle should hit")
	}
	if e.Intersect(5, 5) {
		t.Error("point outside hit circle should miss")
	}
}

func TestEntityOnce(t *testing.T) {
	e := NewEntity(0, 0, 1, 1)
	calls := 0
	e.Once(EventClick, func(InputEvent) { calls++ })
	e.Dispatch(EventClick, InputEvent{})
	e.Dispatch(EventClick, InputEvent{})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEntityDispatchSetsTarget(t *testing.T) {
	e := NewEntity(0, 0, 1, 1)
	var target *Entity
	e.On(EventClick, func(ev InputEvent) { target = ev.Target })
	e.Dispatch(EventClick, InputEvent{})
	if target != e {
		t.Errorf("Target = %v, want %v", target, e)
	}
}

func TestEntityOff(t *testing.T) {
	e := NewEntity(0, 0, 1, 1)
	calls := 0
	sub := e.On(EventClick, func(InputEvent) { calls++ })
	e.Off(EventClick, sub)
	e.Dispatch(EventClick, InputEvent{})
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

type countingBehavior struct{ attached *int }

func (c countingBehavior) Attach(*Entity) { *c.attached++ }

func TestEntityUse(t *testing.T) {
	n := 0
	e := NewEntity(0, 0, 1, 1)
	if got := e.Use(countingBehavior{&n}, countingBehavior{&n}); got != e {
		t.Error("Use should return the entity")
	}
	if n != 2 {
		t.Errorf("attached = %d, want 2", n)
	}
}

func TestEntityUpdateIntegratesSpeed(t *testing.T) {
	e := NewEntity(0, 0, 1, 1)
	e.SpeedX = 10
	e.SpeedY = -20
	var seen time.Duration
	e.OnUpdate = func(_ *Entity, d time.Duration) { seen = d }

	e.Update(500 * time.Millisecond)

	assertNear(t, "X", e.X, 5)
	assertNear(t, "Y", e.Y, -10)
	if seen != 500*time.Millisecond {
		t.Errorf("OnUpdate delta = %v, want 500ms", seen)
	}
}

func TestEntityUpdateChildrenBeforeOnUpdate(t *testing.T) {
	c := NewContainer(0, 0, 10, 10)
	child := NewEntity(0, 0, 1, 1)
	c.AddEntity(child)

	var order []string
	child.OnUpdate = func(*Entity, time.Duration) { order = append(order, "child") }
	c.OnUpdate = func(*Entity, time.Duration) { order = append(order, "parent") }
	c.Update(time.Millisecond)

	if len(order) != 2 || order[0] != "child" || order[1] != "parent" {
		t.Errorf("order = %v, want [child parent]", order)
	}
}

func TestEntityDrawDetachedPanicsInDebug(t *testing.T) {
	withDebug(t)
	e := NewEntity(0, 0, 1, 1)
	defer func() {
		if recover() == nil {
			t.Error("Draw on a detached entity should panic in debug mode")
		}
	}()
	e.Draw(NewRecordCanvas())
}

func TestEntityDrawDetachedQuietWithoutDebug(t *testing.T) {
	prev := globalDebug
	globalDebug = false
	t.Cleanup(func() { globalDebug = prev })

	e := NewEntity(0, 0, 1, 1)
	e.Draw(NewRecordCanvas())
}

func TestEntityWorldToLocalRoundTrip(t *testing.T) {
	parent := NewContainer(100, 50, 40, 40)
	e := NewEntity(10, 10, 20, 20)
	parent.AddEntity(e)
	e.SetRotation(30)
	e.SetZoom(1.5)

	wx, wy := e.LocalToWorld(3, 4)
	lx, ly := e.WorldToLocal(wx, wy)
	if abs := lx - 3; abs > 1e-6 || abs < -1e-6 {
		t.Errorf("round trip x = %v, want 3", lx)
	}
	if abs := ly - 4; abs > 1e-6 || abs < -1e-6 {
		t.Errorf("round trip y = %v, want 4", ly)
	}
}
