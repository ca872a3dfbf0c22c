package bgew

import (
	"fmt"
	"math"
	"time"

	"github.com/phanxgames/bgew/collision"
)

// Renderer draws an entity's visual content into a canvas. The canvas is
// already set up in the entity's parent space, so renderers draw at
// (e.X, e.Y) with size (e.Width(), e.Height()). Renderers must not mutate
// the entity.
type Renderer interface {
	Render(e *Entity, c Canvas)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(e *Entity, c Canvas)

// Render calls f(e, c).
func (f RendererFunc) Render(e *Entity, c Canvas) { f(e, c) }

// Behavior is a reusable bundle of event handlers attached with Entity.Use.
type Behavior interface {
	Attach(e *Entity)
}

type entityState uint8

const (
	stateDetached entityState = iota
	stateAttached
	stateDestroyed
)

// nextEntityID is a simple counter. The engine is single-threaded, so no
// atomics are needed.
var nextEntityID uint64

// Entity is anything placed on a board. A single flat struct covers both
// plain entities and containers; Kind tells them apart and container-only
// methods panic on a plain entity.
type Entity struct {
	// X and Y are relative to the parent container's top-left corner, or to
	// the board for top-level entities.
	X, Y float64
	// SpeedX and SpeedY are in pixels per second. Positive SpeedY moves down.
	SpeedX, SpeedY float64
	// Opacity in [0, 1], multiplied with every ancestor's opacity when drawn.
	Opacity float64
	// Solid entities stop falling entities and are stopped by them.
	Solid bool
	// Weight enables gravity when non-zero.
	Weight float64
	// Disabled entities receive no pointer or keyboard events.
	Disabled bool

	// Shape selects the geometry used for hit tests and the collision body.
	Shape Shape
	// HitShape, when set, replaces Shape for pointer hit tests only.
	// Coordinates are local and unzoomed.
	HitShape HitShape
	Renderer Renderer

	// OnUpdate runs at the end of every Update, after movement.
	OnUpdate func(e *Entity, delta time.Duration)
	// OnDestroy runs once when the entity is removed from its board.
	OnDestroy func(e *Entity)

	// UserData is an arbitrary value for game code.
	UserData any

	id       string
	kind     Kind
	width    float64
	height   float64
	rotation float64
	zoom     float64
	visible  bool
	hovered  bool
	focus    bool
	falling  bool
	// overlay entities are drawn but never collide or receive input.
	overlay  bool

	parent   *Entity
	board    *Board
	children []*Entity
	state    entityState

	body    *collision.Body
	events  *Dispatcher[InputEvent]
	watches watchRegistry
}

func entityDefaults(e *Entity, kind Kind, x, y, w, h float64) *Entity {
	nextEntityID++
	e.id = fmt.Sprintf("@entity-%d", nextEntityID)
	e.kind = kind
	e.X, e.Y = x, y
	e.width, e.height = w, h
	e.zoom = 1
	e.Opacity = 1
	e.visible = true
	e.events = NewDispatcher[InputEvent]()
	return e
}

// NewEntity returns a detached rectangular entity with no renderer.
func NewEntity(x, y, width, height float64) *Entity {
	return entityDefaults(&Entity{}, KindBasic, x, y, width, height)
}

// NewContainer returns a detached container. Its own bounds are used for
// hit tests in addition to its children's.
func NewContainer(x, y, width, height float64, children ...*Entity) *Entity {
	e := entityDefaults(&Entity{}, KindContainer, x, y, width, height)
	e.AddEntities(children...)
	return e
}

// --- Identity ---

// ID returns the entity's unique id.
func (e *Entity) ID() string { return e.id }

// SetID replaces the generated id. Collision watches keyed on the old id stop
// matching.
func (e *Entity) SetID(id string) {
	if id != "" {
		e.id = id
	}
}

// Kind reports whether e is a plain entity or a container.
func (e *Entity) Kind() Kind { return e.kind }

// IsContainer reports whether e can hold children.
func (e *Entity) IsContainer() bool { return e.kind == KindContainer }

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(%s %.1f,%.1f %.1fx%.1f)", e.id, e.X, e.Y, e.Width(), e.Height())
}

// --- Geometry ---

// Width returns the zoomed width.
func (e *Entity) Width() float64 { return e.width * e.zoom }

// Height returns the zoomed height.
func (e *Entity) Height() float64 { return e.height * e.zoom }

// Size returns the stored, unzoomed size.
func (e *Entity) Size() (w, h float64) { return e.width, e.height }

// SetSize sets the unzoomed size.
func (e *Entity) SetSize(w, h float64) {
	e.width, e.height = w, h
}

// SetPosition sets X and Y.
func (e *Entity) SetPosition(x, y float64) {
	e.X, e.Y = x, y
}

// Zoom returns the scale applied to the stored size.
func (e *Entity) Zoom() float64 { return e.zoom }

// SetZoom sets the scale applied to the stored size.
func (e *Entity) SetZoom(z float64) { e.zoom = z }

// Rotation returns the rotation in degrees.
func (e *Entity) Rotation() float64 { return radToDeg(e.rotation) }

// SetRotation sets the rotation in degrees, clockwise around the center.
func (e *Entity) SetRotation(deg float64) { e.rotation = degToRad(deg) }

// RotationRadians returns the rotation in radians.
func (e *Entity) RotationRadians() float64 { return e.rotation }

// SetRotationRadians sets the rotation in radians.
func (e *Entity) SetRotationRadians(rad float64) { e.rotation = rad }

// Rotate adds deg degrees to the rotation.
func (e *Entity) Rotate(deg float64) { e.rotation += degToRad(deg) }

// ResetTransform moves the entity back to the origin with no rotation and a
// zoom of 1.
func (e *Entity) ResetTransform() {
	e.X, e.Y = 0, 0
	e.rotation = 0
	e.zoom = 1
}

// AbsX returns the board-space X: the sum of X over the parent chain.
func (e *Entity) AbsX() float64 {
	x := e.X
	for p := e.parent; p != nil; p = p.parent {
		x += p.X
	}
	return x
}

// AbsY returns the board-space Y: the sum of Y over the parent chain.
func (e *Entity) AbsY() float64 {
	y := e.Y
	for p := e.parent; p != nil; p = p.parent {
		y += p.Y
	}
	return y
}

// Bounds returns the unrotated board-space bounding box.
func (e *Entity) Bounds() Rect {
	return Rect{X: e.AbsX(), Y: e.AbsY(), Width: e.Width(), Height: e.Height()}
}

// --- Motion ---

// Speed returns the magnitude of the velocity.
func (e *Entity) Speed() float64 { return math.Hypot(e.SpeedX, e.SpeedY) }

// SetSpeed changes the magnitude of the velocity and keeps its direction.
func (e *Entity) SetSpeed(v float64) { e.SetSpeedWithAngle(v, e.Angle()) }

// Angle returns the direction of travel in radians, counter-clockwise from
// the positive X axis with Y pointing up.
func (e *Entity) Angle() float64 { return math.Atan2(-e.SpeedY, e.SpeedX) }

// SetAngle changes the direction of travel and keeps the speed.
func (e *Entity) SetAngle(rad float64) { e.SetSpeedWithAngle(e.Speed(), rad) }

// AngleDegrees returns Angle in degrees.
func (e *Entity) AngleDegrees() float64 { return radToDeg(e.Angle()) }

// SetAngleDegrees sets Angle in degrees.
func (e *Entity) SetAngleDegrees(deg float64) { e.SetAngle(degToRad(deg)) }

// SetSpeedWithAngle sets the velocity from a speed and a direction in
// radians. The Y component is inverted because board Y grows downward.
func (e *Entity) SetSpeedWithAngle(speed, rad float64) {
	sin, cos := math.Sincos(rad)
	e.SpeedX = speed * cos
	e.SpeedY = -speed * sin
}

// SetSpeedWithAngleDegrees is SetSpeedWithAngle with the angle in degrees.
func (e *Entity) SetSpeedWithAngleDegrees(speed, deg float64) {
	e.SetSpeedWithAngle(speed, degToRad(deg))
}

// --- Flags ---

// Visible reports whether the entity and every ancestor are visible.
func (e *Entity) Visible() bool {
	for p := e; p != nil; p = p.parent {
		if !p.visible {
			return false
		}
	}
	return true
}

// SetVisible sets the entity's own visibility flag.
func (e *Entity) SetVisible(v bool) { e.visible = v }

// Hovered reports whether the pointer is over the entity.
func (e *Entity) Hovered() bool { return e.hovered }

// SetHovered overrides the hover flag.
func (e *Entity) SetHovered(v bool) { e.hovered = v }

// Focus reports whether the entity receives keyboard events.
func (e *Entity) Focus() bool { return e.focus }

// SetFocus overrides the focus flag.
func (e *Entity) SetFocus(v bool) { e.focus = v }

// Falling reports whether gravity moved the entity during the last update
// without it coming to rest.
func (e *Entity) Falling() bool { return e.falling }

// EffectiveOpacity multiplies Opacity over the parent chain.
func (e *Entity) EffectiveOpacity() float64 {
	a := 1.0
	for p := e; p != nil; p = p.parent {
		a *= p.Opacity
	}
	return a
}

// --- Relations ---

// Parent returns the owning container, or nil.
func (e *Entity) Parent() *Entity { return e.parent }

// Board returns the board the entity is attached to, or nil.
func (e *Entity) Board() *Board { return e.board }

// Attached reports whether the entity is live on a board.
func (e *Entity) Attached() bool { return e.state == stateAttached && e.board != nil }

// Body returns the collision body, or nil before the first attachment.
func (e *Entity) Body() *collision.Body { return e.body }

// --- Events ---

// On subscribes to an input event on this entity.
func (e *Entity) On(name string, fn func(InputEvent), opts ...SubscribeOption) Subscription {
	return e.events.On(name, fn, opts...)
}

// Once subscribes to the next name event only.
func (e *Entity) Once(name string, fn func(InputEvent)) Subscription {
	return e.events.On(name, fn, Once())
}

// Off removes a subscription made with On.
func (e *Entity) Off(name string, sub Subscription) {
	e.events.Off(name, sub)
}

// Dispatch delivers ev to this entity's subscribers under name.
func (e *Entity) Dispatch(name string, ev InputEvent) {
	ev.Target = e
	e.events.Dispatch(name, ev)
	if e.board != nil {
		e.board.emit(interactionFromInput(name, e, ev))
	}
}

// Use attaches behaviors.
func (e *Entity) Use(behaviors ...Behavior) *Entity {
	for _, b := range behaviors {
		b.Attach(e)
	}
	return e
}

// --- Lifecycle ---

// init attaches e (and its subtree) to b and registers collision bodies.
// Calling it again for the same board is a no-op.
func (e *Entity) init(b *Board) {
	if e.board == b && e.state == stateAttached && (e.overlay || b.collision.Contains(e.body)) {
		return
	}
	if b.debug.Enabled {
		debugCheckTreeDepth(b, e)
	}
	e.board = b
	e.state = stateAttached
	e.syncBody()
	if !e.overlay {
		b.collision.Insert(e.body)
	}
	for _, c := range e.children {
		c.init(b)
	}
}

// detach removes the collision bodies of e's subtree, children first, and
// clears the board reference.
func (e *Entity) detach() {
	for _, c := range e.children {
		c.detach()
	}
	if e.board != nil {
		e.board.collision.Remove(e.body)
	}
	e.board = nil
	e.hovered = false
	e.focus = false
	if e.state == stateAttached {
		e.state = stateDetached
	}
}

// destroy runs OnDestroy over the subtree, children first, then detaches.
func (e *Entity) destroy() {
	for _, c := range e.children {
		c.destroy()
	}
	if e.state == stateAttached && e.OnDestroy != nil {
		e.OnDestroy(e)
	}
	e.detach()
	e.state = stateDestroyed
}

// --- Per-tick ---

// Update syncs the collision body, applies gravity, integrates velocity,
// updates children, then runs OnUpdate.
func (e *Entity) Update(delta time.Duration) {
	e.syncBody()
	e.applyGravity(delta)
	dt := delta.Seconds()
	e.X += e.SpeedX * dt
	e.Y += e.SpeedY * dt
	// Resync so the collision pass of this tick sees the new position.
	e.syncBody()

	if e.kind == KindContainer {
		for _, c := range snapshotEntities(e.children) {
			c.Update(delta)
		}
	}
	if e.OnUpdate != nil {
		e.OnUpdate(e, delta)
	}
}

// Draw renders the entity into c. The caller has already applied the
// entity's rotation; Draw applies opacity, runs the renderer, and recurses
// into visible children of a container.
func (e *Entity) Draw(c Canvas) {
	if e.board == nil || e.state != stateAttached {
		debugCheckAttached(e, "Draw")
	}
	c.SetAlpha(e.EffectiveOpacity())
	if e.Renderer != nil {
		e.Renderer.Render(e, c)
	}
	if e.board != nil && e.board.debug.Skeleton {
		c.SetStrokeColor(ColorDebug)
		c.StrokeRect(e.X, e.Y, e.Width(), e.Height())
	}
	if e.kind != KindContainer {
		return
	}
	c.Save()
	c.Translate(e.X, e.Y)
	for _, child := range snapshotEntities(e.children) {
		if child.Visible() {
			drawEntity(c, child)
		}
	}
	c.Restore()
}

// drawEntity applies the per-entity draw protocol: reset style, save, rotate
// about the rendered center, draw, restore.
func drawEntity(c Canvas, e *Entity) {
	c.ResetStyle()
	c.Save()
	if e.rotation != 0 {
		cx, cy := e.X+e.Width()/2, e.Y+e.Height()/2
		c.Translate(cx, cy)
		c.Rotate(e.rotation)
		c.Translate(-cx, -cy)
	}
	e.Draw(c)
	c.Restore()
}

func snapshotEntities(list []*Entity) []*Entity {
	if len(list) == 0 {
		return nil
	}
	out := make([]*Entity, len(list))
	copy(out, list)
	return out
}
